package domain

// RejectReason enumerates why a raw row was discarded. The rejection log lets
// downstream layers distinguish "no data existed" from "data existed but was
// filtered".
type RejectReason string

const (
	RejectDenylistedVocabulary RejectReason = "denylisted vocabulary"
	RejectAmountMissing        RejectReason = "amount missing"
	RejectAmountBelowFloor     RejectReason = "amount below plausibility floor"
	RejectUnparseableDate      RejectReason = "unparseable date"
	RejectUnrecognizedLabel    RejectReason = "unrecognized label"
)

// RowSource names which raw stream a rejected row came from.
type RowSource string

const (
	SourceTransactions  RowSource = "transactions"
	SourceStatusHistory RowSource = "status_history"
)

// RejectedRow is one structured rejection-log entry.
type RejectedRow struct {
	Source RowSource    `json:"source"`
	Label  string       `json:"label"`
	Reason RejectReason `json:"reason"`
	Detail string       `json:"detail,omitempty"`
}
