// Package selector implements the subset-selection algorithm family: six
// interchangeable policies for maintaining a bounded-cardinality summary S
// (|S| ≤ k) of a streaming or batch dataset so as to approximately maximize
// a monotone submodular oracle.Oracle over the ground set. Every selector
// owns an oracle clone (constructed once, at Selector-construction time) and
// reasons only in terms of the values that oracle returns — never its
// internal state (spec §1, §4.4).
package selector

import (
	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle"
)

// Selector is the capability bundle every selection policy implements.
type Selector interface {
	// Feed integrates one streaming element. The caller must feed elements
	// in increasing Element.ID order (spec §5).
	Feed(x element.Element) error

	// Run drives the selector over an entire dataset. For streaming
	// selectors this is exactly "for each x in arrival order, call Feed(x)"
	// (spec §2); OfflineGreedy overrides this with its own batch logic.
	Run(dataset []element.Element) error

	// ValueS returns the oracle's cached value of the current summary.
	ValueS() float64

	// Summary returns S by reference: callers may read but must not mutate
	// the returned slice's contents out from under the selector.
	Summary() []element.Element

	// Oracle returns the oracle clone this selector owns, primarily so
	// callers can read Oracle().QueryCount() (spec §6 readouts).
	Oracle() oracle.Oracle
}

// runByFeeding is the shared Run implementation for every streaming
// selector: feed each dataset element in arrival order, stopping at the
// first error.
func runByFeeding(s Selector, dataset []element.Element) error {
	for _, x := range dataset {
		if err := s.Feed(x); err != nil {
			return err
		}
	}

	return nil
}

// EventKind distinguishes the three decisions a selector can make about an
// arriving element, surfaced through the Trace hook below.
type EventKind int

const (
	// EventAppend marks an element admitted into S while |S| < k.
	EventAppend EventKind = iota
	// EventReplace marks an element admitted by replacing an existing
	// member of a full S.
	EventReplace
	// EventReject marks an element that did not clear its selector's
	// acceptance threshold and was discarded.
	EventReject
)

// String renders EventKind for trace logging.
func (k EventKind) String() string {
	switch k {
	case EventAppend:
		return "append"
	case EventReplace:
		return "replace"
	case EventReject:
		return "reject"
	default:
		return "unknown"
	}
}

// TraceEvent describes one accept/reject/replace decision. Generalizes the
// teacher's fmt.Printf-on-Verbose pattern (flow.FlowOptions.Verbose) into a
// callback a caller can wire to any logger without this module importing
// one itself (spec Ambient Stack, §2).
type TraceEvent struct {
	Kind      EventKind
	ElementID int
	Position  int // slot written for EventAppend/EventReplace; -1 for EventReject
	Gain      float64
}

// config holds the shared, optional construction-time settings every
// selector accepts.
type config struct {
	trace func(TraceEvent)
}

// Option configures a selector's optional behavior during construction.
type Option func(*config)

// WithTrace registers fn to be called synchronously on every
// accept/reject/replace decision a selector makes.
func WithTrace(fn func(TraceEvent)) Option {
	return func(c *config) { c.trace = fn }
}

func gatherOptions(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// emit invokes cfg.trace if one was registered; a no-op otherwise.
func (c config) emit(kind EventKind, id, pos int, gain float64) {
	if c.trace == nil {
		return
	}
	c.trace(TraceEvent{Kind: kind, ElementID: id, Position: pos, Gain: gain})
}
