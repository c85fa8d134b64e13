package domain

// FetchResult is the tagged outcome of an external fetch. A failed fetch is
// reported here, never smuggled into the raw-row stream as a sentinel value,
// so the core can always tell "fetch failed" from "fetch found nothing".
type FetchResult struct {
	OK            bool                `json:"ok"`
	FailureReason string              `json:"failure_reason,omitempty"`
	Transactions  []RawTransactionRow `json:"transactions,omitempty"`
	Records       []ProcessRecord     `json:"records,omitempty"`
}

// FetchOK wraps successfully fetched rows.
func FetchOK(txns []RawTransactionRow, records []ProcessRecord) FetchResult {
	return FetchResult{OK: true, Transactions: txns, Records: records}
}

// FetchFailed records a fetch failure with its reason.
func FetchFailed(reason string) FetchResult {
	return FetchResult{OK: false, FailureReason: reason}
}
