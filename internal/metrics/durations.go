package metrics

import "github.com/flipwell/compintel/internal/domain"

// ComputeDurations derives the pairwise milestone lags. Each field needs
// exactly its own two endpoints; one missing milestone never blanks the rest.
//
// The submit lag may legitimately be negative: plans are sometimes filed
// before an acquisition closes. Only the holding period carries a sign
// invariant (see ComputeDeal).
func ComputeDurations(acquisition *domain.Date, milestones domain.MilestoneTriple) domain.ProjectDurations {
	var result domain.ProjectDurations

	if acquisition != nil && milestones.Submitted != nil {
		d := acquisition.DaysUntil(milestones.Submitted.OccurredOn)
		result.SubmitLagDays = &d
	}
	if milestones.Submitted != nil && milestones.Approved != nil {
		d := milestones.Submitted.OccurredOn.DaysUntil(milestones.Approved.OccurredOn)
		result.ApprovalLagDays = &d
	}
	if milestones.Approved != nil && milestones.Completed != nil {
		d := milestones.Approved.OccurredOn.DaysUntil(milestones.Completed.OccurredOn)
		result.CompletionLagDays = &d
	}
	if acquisition != nil && milestones.Completed != nil {
		d := acquisition.DaysUntil(milestones.Completed.OccurredOn)
		result.TotalDays = &d
	}

	return result
}
