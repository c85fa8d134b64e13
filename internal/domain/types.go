// Package domain holds the value types shared across the analysis pipeline.
// Everything here is immutable once constructed: a pipeline run builds fresh
// values per asset and never mutates them afterward.
package domain

// EventKind is the canonical transaction-event taxonomy.
type EventKind string

const (
	EventAcquired        EventKind = "acquired"
	EventDisposedSale    EventKind = "disposed_sale"
	EventDisposedListing EventKind = "disposed_listing"
	EventPriceChanged    EventKind = "price_changed"
)

// TimelineEvent is one classified transaction-history event. Amount is always
// present on an admitted event: rows without a plausible amount never classify.
type TimelineEvent struct {
	Kind       EventKind `json:"kind"`
	OccurredOn Date      `json:"occurred_on"`
	Amount     int64     `json:"amount"`
	Provenance string    `json:"provenance"`
}

// MilestoneKind is the canonical process-milestone taxonomy.
type MilestoneKind string

const (
	MilestoneSubmitted MilestoneKind = "submitted"
	MilestoneApproved  MilestoneKind = "approved"
	MilestoneCompleted MilestoneKind = "completed"
)

// Milestone is one extracted process-history checkpoint.
type Milestone struct {
	Kind        MilestoneKind `json:"kind"`
	OccurredOn  Date          `json:"occurred_on"`
	SourceLabel string        `json:"source_label"`
}

// MilestoneTriple is the canonical per-asset milestone selection. Each slot is
// independently nil when no status row resolved that kind.
type MilestoneTriple struct {
	Submitted *Milestone `json:"submitted,omitempty"`
	Approved  *Milestone `json:"approved,omitempty"`
	Completed *Milestone `json:"completed,omitempty"`
}

// ReconciledTimeline carries the acquisition/disposition endpoints selected
// from an asset's classified events. A disposition taken from an active
// listing rather than a completed sale is flagged provisional.
type ReconciledTimeline struct {
	Acquisition            *TimelineEvent `json:"acquisition,omitempty"`
	Disposition            *TimelineEvent `json:"disposition,omitempty"`
	DispositionProvisional bool           `json:"disposition_provisional"`
}

// DealMetrics holds the headline financials. The three core fields are all
// present or all absent: no endpoint pair, no numbers. Provisional mirrors the
// timeline flag so consumers can caption listing-based figures distinctly.
type DealMetrics struct {
	Spread        *int64   `json:"spread,omitempty"`
	ReturnPercent *float64 `json:"return_percent,omitempty"`
	HoldingDays   *int     `json:"holding_days,omitempty"`
	Provisional   bool     `json:"provisional"`
}

// SizeDelta is the guarded before/after building-size comparison.
type SizeDelta struct {
	DeltaSF       *float64 `json:"delta_sf,omitempty"`
	PercentChange *float64 `json:"percent_change,omitempty"`
}

// ProjectDurations holds the pairwise milestone lags. Each field is computed
// only when both of its endpoints exist.
type ProjectDurations struct {
	SubmitLagDays     *int `json:"submit_lag_days,omitempty"`
	ApprovalLagDays   *int `json:"approval_lag_days,omitempty"`
	CompletionLagDays *int `json:"completion_lag_days,omitempty"`
	TotalDays         *int `json:"total_days,omitempty"`
}

// Party is a process-record contact passed through untouched. License holds a
// digit run found in the raw text, or empty; it is never synthesized.
type Party struct {
	Role    string `json:"role"`
	Name    string `json:"name"`
	License string `json:"license,omitempty"`
}

// RawStatusRow is one unclassified status-history row as supplied by the
// external fetch layer.
type RawStatusRow struct {
	Label string `json:"label"`
	Date  string `json:"date"`
}

// ProcessRecord is one regulatory record with its ordered status history.
// Read-only to the core; parties and descriptions pass through unreconciled.
type ProcessRecord struct {
	Identifier    string         `json:"identifier"`
	Category      string         `json:"category,omitempty"`
	Description   string         `json:"description,omitempty"`
	CurrentStatus string         `json:"current_status,omitempty"`
	StatusHistory []RawStatusRow `json:"status_history"`
	Parties       []Party        `json:"parties,omitempty"`
}

// RawTransactionRow is one unclassified transaction-history row. Amount is
// the raw text ("$1,358,000", "*", or empty when the source showed none).
type RawTransactionRow struct {
	Label  string `json:"label"`
	Date   string `json:"date"`
	Amount string `json:"amount,omitempty"`
}

// AssetFacts are descriptive fields passed through to the report untouched.
type AssetFacts struct {
	Beds         *float64 `json:"beds,omitempty"`
	Baths        *float64 `json:"baths,omitempty"`
	YearBuilt    *int     `json:"year_built,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
}

// AssetInput is everything the pipeline consumes for one asset. It is owned
// by that asset's run; nothing in it is shared or mutated.
type AssetInput struct {
	ID             string              `json:"id"`
	Address        string              `json:"address,omitempty"`
	Transactions   []RawTransactionRow `json:"transactions"`
	Records        []ProcessRecord     `json:"records,omitempty"`
	PrimaryRecord  string              `json:"primary_record,omitempty"`
	SizeBeforeSF   *float64            `json:"size_before_sf,omitempty"`
	SizeAfterSF    *float64            `json:"size_after_sf,omitempty"`
	Facts          AssetFacts          `json:"facts,omitempty"`
}

// AssetReport is the per-asset output contract consumed by the rendering and
// summarization collaborators. Every numeric/date field is explicitly
// nullable; absence always means "unknown", never zero.
type AssetReport struct {
	AssetID    string             `json:"asset_id"`
	Address    string             `json:"address,omitempty"`
	Timeline   ReconciledTimeline `json:"timeline"`
	Deal       DealMetrics        `json:"deal_metrics"`
	Size       SizeDelta          `json:"size_delta"`
	Milestones MilestoneTriple    `json:"milestones"`
	Durations  ProjectDurations   `json:"durations"`
	Records    []ProcessRecord    `json:"records,omitempty"`
	Facts      AssetFacts         `json:"facts,omitempty"`
	Rejections []RejectedRow      `json:"rejections,omitempty"`
}
