// Package permits extracts canonical milestones from process-record status
// histories and selects the primary record for an asset. Source vocabulary
// varies across records, so matching is tolerant keyword matching against the
// curated synonym tables rather than exact equality.
package permits

import (
	"github.com/rs/zerolog/log"

	"github.com/flipwell/compintel/internal/classify"
	"github.com/flipwell/compintel/internal/domain"
	"github.com/flipwell/compintel/internal/vocab"
)

// RecordMilestones is one process record's resolved milestone set plus the
// recency marker used by primary selection.
type RecordMilestones struct {
	Identifier   string
	Set          domain.MilestoneTriple
	LatestStatus domain.Date
}

// Extractor resolves status-history rows into milestones.
type Extractor struct {
	vocab *vocab.Table
}

// NewExtractor builds an extractor over the given vocabulary table.
func NewExtractor(table *vocab.Table) *Extractor {
	return &Extractor{vocab: table}
}

// Extract walks one record's ordered status rows and keeps the earliest date
// per milestone kind: later re-approvals and duplicate entries never
// overwrite an earlier true milestone. A row with an unparseable date is
// skipped and logged; it never fails the record.
func (e *Extractor) Extract(rec domain.ProcessRecord) (RecordMilestones, []domain.RejectedRow) {
	result := RecordMilestones{Identifier: rec.Identifier}
	var rejected []domain.RejectedRow

	for _, row := range rec.StatusHistory {
		group, ok := e.vocab.MilestoneGroup(row.Label)
		if !ok {
			// Most status rows are routine bureaucracy, not milestones; not
			// matching a group is the normal case, not a rejection.
			continue
		}

		occurred, err := classify.ParseDate(row.Date)
		if err != nil {
			rejected = append(rejected, domain.RejectedRow{
				Source: domain.SourceStatusHistory,
				Label:  row.Label,
				Reason: domain.RejectUnparseableDate,
				Detail: row.Date,
			})
			log.Debug().
				Str("record", rec.Identifier).
				Str("label", row.Label).
				Str("date", row.Date).
				Msg("status row skipped: unparseable date")
			continue
		}

		milestone := &domain.Milestone{
			OccurredOn:  occurred,
			SourceLabel: row.Label,
		}
		switch group {
		case "submitted":
			milestone.Kind = domain.MilestoneSubmitted
			result.Set.Submitted = earliest(result.Set.Submitted, milestone)
		case "approved":
			milestone.Kind = domain.MilestoneApproved
			result.Set.Approved = earliest(result.Set.Approved, milestone)
		case "completed":
			milestone.Kind = domain.MilestoneCompleted
			result.Set.Completed = earliest(result.Set.Completed, milestone)
		}
	}

	// Recency comes from every parseable status date, milestone or not, so a
	// record full of routine rows still carries its true latest activity.
	for _, row := range rec.StatusHistory {
		if occurred, err := classify.ParseDate(row.Date); err == nil {
			if result.LatestStatus.IsZero() || occurred.After(result.LatestStatus) {
				result.LatestStatus = occurred
			}
		}
	}

	return result, rejected
}

func earliest(current, candidate *domain.Milestone) *domain.Milestone {
	if current == nil || candidate.OccurredOn.Before(current.OccurredOn) {
		return candidate
	}
	return current
}
