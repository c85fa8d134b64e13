// Package timeline reconciles an asset's classified events into acquisition
// and disposition endpoints. The result is derived fresh per run: it is a
// pure function of the event set and is never persisted as authoritative
// state.
package timeline

import (
	"fmt"
	"sort"

	"github.com/flipwell/compintel/internal/domain"
)

// Reconcile selects the acquisition and disposition endpoints from an asset's
// classified events.
//
// Acquisition is the earliest acquired event. Disposition is the latest
// sale-type event strictly after acquisition; failing that, the asset's
// active listing (flagged provisional); failing that, absent. Events sharing
// a date and kind prefer the larger amount, since duplicate scraped rows are
// likelier noise than two genuine same-day transfers.
func Reconcile(events []domain.TimelineEvent) (domain.ReconciledTimeline, error) {
	ordered := make([]domain.TimelineEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.OccurredOn.Equal(b.OccurredOn) {
			return a.OccurredOn.Before(b.OccurredOn)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		// Same date and kind: larger amount first so "earliest"/"latest"
		// selections land on the more plausible duplicate.
		return a.Amount > b.Amount
	})

	var result domain.ReconciledTimeline

	for i := range ordered {
		if ordered[i].Kind == domain.EventAcquired {
			result.Acquisition = &ordered[i]
			break
		}
	}

	// Latest completed sale strictly after acquisition.
	for i := len(ordered) - 1; i >= 0; i-- {
		ev := ordered[i]
		if ev.Kind != domain.EventDisposedSale {
			continue
		}
		if result.Acquisition != nil && !ev.OccurredOn.After(result.Acquisition.OccurredOn) {
			continue
		}
		result.Disposition = &ordered[i]
		break
	}

	// No completed sale: fall back to the most recent active listing, marked
	// provisional so downstream metrics can treat it distinctly.
	if result.Disposition == nil {
		for i := len(ordered) - 1; i >= 0; i-- {
			ev := ordered[i]
			if ev.Kind != domain.EventDisposedListing {
				continue
			}
			if result.Acquisition != nil && !ev.OccurredOn.After(result.Acquisition.OccurredOn) {
				continue
			}
			result.Disposition = &ordered[i]
			result.DispositionProvisional = true
			break
		}
	}

	if result.Acquisition != nil && result.Disposition != nil {
		if result.Disposition.OccurredOn.Before(result.Acquisition.OccurredOn) {
			return domain.ReconciledTimeline{}, fmt.Errorf(
				"%w: disposition %s precedes acquisition %s",
				domain.ErrInternalInconsistency,
				result.Disposition.OccurredOn, result.Acquisition.OccurredOn)
		}
	}

	return result, nil
}
