// Package classify turns raw transaction-history rows into typed timeline
// events under the no-fabrication policy: a row either produces exactly one
// event or a reasoned rejection, never a patched-up value.
package classify

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/flipwell/compintel/internal/domain"
	"github.com/flipwell/compintel/internal/vocab"
)

// DefaultFloorAmount is the minimum plausible transaction price. Values below
// it are fee/tax-sized noise and reject the row outright; a sub-floor price is
// never admitted with a low value.
const DefaultFloorAmount int64 = 100_000

// Config holds the classifier thresholds.
type Config struct {
	// FloorAmount is the plausibility floor in whole dollars.
	FloorAmount int64 `yaml:"floor_amount"`
}

// DefaultConfig returns the production classifier configuration.
func DefaultConfig() Config {
	return Config{FloorAmount: DefaultFloorAmount}
}

// Classifier applies the ordered classification rules. It is stateless and
// safe for concurrent use across assets.
type Classifier struct {
	cfg   Config
	vocab *vocab.Table
}

// New builds a classifier over the given vocabulary table.
func New(cfg Config, table *vocab.Table) *Classifier {
	if cfg.FloorAmount <= 0 {
		cfg.FloorAmount = DefaultFloorAmount
	}
	return &Classifier{cfg: cfg, vocab: table}
}

// Outcome is the result of classifying a single row: exactly one of Event or
// Rejection is set.
type Outcome struct {
	Event     *domain.TimelineEvent
	Rejection *domain.RejectedRow
}

// Accepted reports whether the row produced an event.
func (o Outcome) Accepted() bool { return o.Event != nil }

// ClassifyRow applies the ordered rules to one raw row. Pure: no side effects
// beyond debug logging, errors surface only as rejection outcomes.
//
// Rule order matters. The denylist runs before the amount check so a tax row
// with a large figure is still rejected as denylisted, and the amount check
// runs before date parsing so a starred price short-circuits cheaply.
func (c *Classifier) ClassifyRow(row domain.RawTransactionRow) Outcome {
	if c.vocab.Denylisted(row.Label) {
		return reject(row, domain.RejectDenylistedVocabulary, "")
	}

	amount, ok := ParseAmount(row.Amount)
	if !ok {
		return reject(row, domain.RejectAmountMissing, row.Amount)
	}
	if amount < c.cfg.FloorAmount {
		return reject(row, domain.RejectAmountBelowFloor,
			fmt.Sprintf("%d < %d", amount, c.cfg.FloorAmount))
	}

	occurred, err := ParseDate(row.Date)
	if err != nil {
		return reject(row, domain.RejectUnparseableDate, row.Date)
	}

	group, ok := c.vocab.EventGroup(row.Label)
	if !ok {
		return reject(row, domain.RejectUnrecognizedLabel, "")
	}

	var kind domain.EventKind
	switch group {
	case "sale":
		// Provisionally a sale; ClassifyRows relabels the earliest sale per
		// asset as the acquisition.
		kind = domain.EventDisposedSale
	case "listing":
		kind = domain.EventDisposedListing
	case "price_change":
		kind = domain.EventPriceChanged
	}

	return Outcome{Event: &domain.TimelineEvent{
		Kind:       kind,
		OccurredOn: occurred,
		Amount:     amount,
		Provenance: row.Label,
	}}
}

// ClassifyRows classifies an asset's full raw-row set, relabels the earliest
// sale-group event as the acquisition, and returns events date-ascending plus
// the rejection log. The input slice is never modified.
func (c *Classifier) ClassifyRows(rows []domain.RawTransactionRow) ([]domain.TimelineEvent, []domain.RejectedRow) {
	var events []domain.TimelineEvent
	var rejected []domain.RejectedRow

	for _, row := range rows {
		out := c.ClassifyRow(row)
		if out.Accepted() {
			events = append(events, *out.Event)
			continue
		}
		rejected = append(rejected, *out.Rejection)
		log.Debug().
			Str("label", row.Label).
			Str("reason", string(out.Rejection.Reason)).
			Msg("transaction row rejected")
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredOn.Before(events[j].OccurredOn)
	})

	// The first genuine change-of-ownership event is the acquisition; every
	// later sale is a candidate disposition.
	for i := range events {
		if events[i].Kind == domain.EventDisposedSale {
			events[i].Kind = domain.EventAcquired
			break
		}
	}

	return events, rejected
}

func reject(row domain.RawTransactionRow, reason domain.RejectReason, detail string) Outcome {
	return Outcome{Rejection: &domain.RejectedRow{
		Source: domain.SourceTransactions,
		Label:  row.Label,
		Reason: reason,
		Detail: detail,
	}}
}
