package oracle

import "errors"

// Sentinel errors shared by every Oracle implementation. Concrete oracles
// must return these (wrapped with context via fmt.Errorf("...: %w", ...))
// rather than inventing parallel conditions, so callers can match with
// errors.Is regardless of which oracle they are holding.
var (
	// ErrOutOfRange indicates pos > len(S) was passed to Peek or Apply.
	ErrOutOfRange = errors.New("oracle: position out of range")

	// ErrHistoryDisabled indicates a history-relative operation
	// (PeekDeltaA, PeekDeltaACapS) was called on an oracle constructed
	// without history tracking.
	ErrHistoryDisabled = errors.New("oracle: history tracking is disabled")

	// ErrUnknownID indicates PeekDeltaACapS was called with an x whose ID is
	// not present in the oracle's id→position index.
	ErrUnknownID = errors.New("oracle: unknown element id")

	// ErrSummaryMismatch indicates Value was called on GK with a summary
	// slice that does not match the state this oracle instance has been
	// incrementally tracking (spec §4.1: "calling with a different S is an
	// error on GK").
	ErrSummaryMismatch = errors.New("oracle: summary does not match tracked state")

	// ErrDuplicateID indicates Apply was asked to place an element whose ID
	// already occupies a different slot in S.
	ErrDuplicateID = errors.New("oracle: duplicate element id in summary")

	// ErrKindMismatch indicates an element of the wrong Kind was passed to
	// an oracle that only accepts one variant (e.g. tokens into GK).
	ErrKindMismatch = errors.New("oracle: element kind mismatch")
)
