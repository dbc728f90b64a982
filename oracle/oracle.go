// Package oracle defines the submodular-function abstraction shared by every
// selector: a monotone submodular set function f over the ground set V,
// exposed as value/peek/apply operations plus the history-relative deltas
// the replacement-policy selectors require.
//
// Concrete implementations live in oracle/gaussian (determinantal, log-det
// of a Gaussian kernel Gram matrix) and oracle/coverage (token-weight
// coverage). Selectors never see the concrete type: they hold an Oracle and
// reason purely in terms of the values it returns.
package oracle

import "github.com/arvensic/submodsel/element"

// Oracle is the capability bundle every submodular-function implementation
// must satisfy. Submodularity and monotonicity of the underlying f are
// assumed, not verified here (spec §4.1) — the package's job is to compute
// f faithfully and account for queries consistently, not to certify f.
type Oracle interface {
	// Value returns f(S). Returns 0 for an empty S.
	Value(summary []element.Element) (float64, error)

	// Peek returns f(S′), where S′ is S with x placed at pos: append if
	// pos == len(S), replace the element at pos if pos < len(S). Must not
	// mutate any oracle state. pos > len(S) is ErrOutOfRange.
	Peek(summary []element.Element, x element.Element, pos int) (float64, error)

	// Apply performs the same placement as Peek, but mutates *summary and the
	// oracle's internal state to match. If history tracking is enabled, x is
	// also appended to the history set A. Apply never increments QueryCount
	// (spec §4.1: only peek-family calls count as oracle queries).
	Apply(summary *[]element.Element, x element.Element, pos int) error

	// ReorderByMarginal sorts summary by descending FDelta in place and
	// reindexes any internal structure tied to S's order (e.g. a cached
	// kernel matrix) so it stays consistent with the new order.
	ReorderByMarginal(summary []element.Element) error

	// Clone returns a fresh Oracle with the same configuration (dimension,
	// kernel parameters, history tracking) and empty state: an empty S/A and
	// QueryCount() == 0. See SPEC_FULL.md §9 for why clone resets rather than
	// copies accumulated state.
	Clone() Oracle

	// QueryCount returns the number of peek-family calls made against this
	// oracle instance so far.
	QueryCount() int64

	// TracksHistory reports whether this oracle instance was constructed
	// with history tracking enabled.
	TracksHistory() bool

	// PeekDeltaA returns f(A ∪ {x}) − f(A). Requires TracksHistory(); returns
	// ErrHistoryDisabled otherwise.
	PeekDeltaA(x element.Element) (float64, error)

	// PeekDeltaACapS returns f(P ∪ {x}) − f(P), where P = {y ∈ summary :
	// y.ID < x.ID}. x must be present in summary. Requires TracksHistory().
	PeekDeltaACapS(summary []element.Element, x element.Element) (float64, error)
}
