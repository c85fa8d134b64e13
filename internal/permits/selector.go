package permits

// DefaultCutoffYear ignores long-dormant records when choosing the primary
// one: a record whose latest status activity predates this year is not a
// candidate for the main construction event, though it still passes through
// on the report.
const DefaultCutoffYear = 2020

// ChoosePrimary picks the process record whose milestones describe the main
// construction or change-of-use event.
//
// An explicit designation always wins when it names a known record. The
// fallback heuristic prefers the record with the most resolved milestone
// kinds, tie-broken by earliest submission, and skips records dormant since
// before cutoffYear. Returns nil when no candidate qualifies.
func ChoosePrimary(records []RecordMilestones, explicit string, cutoffYear int) *RecordMilestones {
	if cutoffYear <= 0 {
		cutoffYear = DefaultCutoffYear
	}

	if explicit != "" {
		for i := range records {
			if records[i].Identifier == explicit {
				return &records[i]
			}
		}
	}

	var best *RecordMilestones
	for i := range records {
		rec := &records[i]
		if !rec.LatestStatus.IsZero() && rec.LatestStatus.Time().Year() < cutoffYear {
			continue
		}
		if best == nil || moreCanonical(rec, best) {
			best = rec
		}
	}
	return best
}

func moreCanonical(a, b *RecordMilestones) bool {
	ra, rb := resolvedKinds(a), resolvedKinds(b)
	if ra != rb {
		return ra > rb
	}
	// Same coverage: the earlier submission is likelier the main project.
	sa, sb := a.Set.Submitted, b.Set.Submitted
	switch {
	case sa == nil:
		return false
	case sb == nil:
		return true
	default:
		return sa.OccurredOn.Before(sb.OccurredOn)
	}
}

func resolvedKinds(r *RecordMilestones) int {
	n := 0
	if r.Set.Submitted != nil {
		n++
	}
	if r.Set.Approved != nil {
		n++
	}
	if r.Set.Completed != nil {
		n++
	}
	return n
}
