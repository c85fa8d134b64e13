// Package metrics derives the final numeric report from reconciled endpoints
// and milestones. Every formula is guarded: it computes only when every input
// is present, otherwise the result is absent. Nothing here defaults to zero
// or a placeholder.
package metrics

import (
	"fmt"

	"github.com/flipwell/compintel/internal/domain"
)

// ComputeDeal derives spread, return percentage, and holding period from the
// reconciled timeline.
//
// The three fields are all present or all absent: both endpoints must exist
// and the acquisition amount must be positive (the classifier's plausibility
// floor makes a zero acquisition unreachable in practice, but the guard keeps
// the division well-defined regardless). A negative holding period is a
// reconciliation defect and fails the asset, never a silently negated value.
func ComputeDeal(tl domain.ReconciledTimeline) (domain.DealMetrics, error) {
	if tl.Acquisition == nil || tl.Disposition == nil || tl.Acquisition.Amount <= 0 {
		return domain.DealMetrics{}, nil
	}

	holding := tl.Acquisition.OccurredOn.DaysUntil(tl.Disposition.OccurredOn)
	if holding < 0 {
		return domain.DealMetrics{}, fmt.Errorf(
			"%w: holding period %d days (acquired %s, disposed %s)",
			domain.ErrInternalInconsistency, holding,
			tl.Acquisition.OccurredOn, tl.Disposition.OccurredOn)
	}

	spread := tl.Disposition.Amount - tl.Acquisition.Amount
	ret := 100 * float64(spread) / float64(tl.Acquisition.Amount)

	return domain.DealMetrics{
		Spread:        &spread,
		ReturnPercent: &ret,
		HoldingDays:   &holding,
		Provisional:   tl.DispositionProvisional,
	}, nil
}

// ComputeSize derives the building-size delta under the same guarded-absence
// rule: both sizes must be present, and the percent change additionally needs
// a positive starting size.
func ComputeSize(beforeSF, afterSF *float64) domain.SizeDelta {
	if beforeSF == nil || afterSF == nil {
		return domain.SizeDelta{}
	}
	delta := *afterSF - *beforeSF
	result := domain.SizeDelta{DeltaSF: &delta}
	if *beforeSF > 0 {
		pct := 100 * delta / *beforeSF
		result.PercentChange = &pct
	}
	return result
}
