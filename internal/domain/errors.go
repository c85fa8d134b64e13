package domain

import "errors"

// ErrInternalInconsistency flags a violated derived invariant (for example a
// negative holding period). It is fatal for the affected asset's pipeline
// only: the asset's slot reports a failure while sibling assets proceed.
var ErrInternalInconsistency = errors.New("internal inconsistency")
