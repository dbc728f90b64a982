package selector

import "errors"

// Sentinel errors shared by every Selector implementation. All conditions
// here are configuration or contract violations, fatal per spec §7: there
// is no recovery layer, no retries, no partial progress committed.
var (
	// ErrUnsupportedStreaming indicates Feed was called on OfflineGreedy,
	// which only supports batch selection via Run.
	ErrUnsupportedStreaming = errors.New("selector: streaming Feed is not supported by this selector")

	// ErrUnsupportedK indicates a selector requiring a tabulated constant
	// (FreeDisposal's α/β/γ, OnlineAdaptive/NonAdaptive's η) was
	// constructed with a k outside the tabulated range.
	ErrUnsupportedK = errors.New("selector: k is not in the tabulated parameter range")

	// ErrBadK indicates a non-positive k was supplied to a constructor.
	ErrBadK = errors.New("selector: k must be >= 1")

	// ErrHistoryRequired indicates a selector that requires history
	// tracking (StreamingGreedy, FreeDisposal) was constructed with an
	// oracle that does not have it enabled.
	ErrHistoryRequired = errors.New("selector: oracle must be constructed with history tracking enabled")
)
