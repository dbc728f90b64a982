package selector

import (
	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle"
)

// StreamingGreedy implements the history-relative replacement policy of spec
// §4.4.3: while |S| < k, append every arriving element; once full, find the
// current member contributing the least against the history-capped prefix
// (PeekDeltaACapS) and replace it with the candidate if the candidate's
// append-peek gain is at least double that minimum. Requires an oracle
// constructed with history tracking enabled.
type StreamingGreedy struct {
	k   int
	cfg config
	o   oracle.Oracle
	s   []element.Element
	val float64
}

// NewStreamingGreedy constructs a StreamingGreedy selector with cardinality
// constraint k over a fresh clone of o. o must have history tracking
// enabled; otherwise ErrHistoryRequired is returned.
func NewStreamingGreedy(k int, o oracle.Oracle, opts ...Option) (*StreamingGreedy, error) {
	if k < 1 {
		return nil, ErrBadK
	}
	if !o.TracksHistory() {
		return nil, ErrHistoryRequired
	}

	return &StreamingGreedy{k: k, cfg: gatherOptions(opts), o: o.Clone()}, nil
}

// Feed integrates one streaming element (spec §4.4.3).
func (g *StreamingGreedy) Feed(x element.Element) error {
	if len(g.s) < g.k {
		pos := len(g.s)
		if err := g.o.Apply(&g.s, x, pos); err != nil {
			return err
		}
		v, err := g.o.Value(g.s)
		if err != nil {
			return err
		}
		gain := v - g.val
		g.val = v
		g.cfg.emit(EventAppend, x.ID, pos, gain)

		return nil
	}

	deltaMin := 0.0
	posMin := 0
	for i := range g.s {
		delta, err := g.o.PeekDeltaACapS(g.s, g.s[i])
		if err != nil {
			return err
		}
		if i == 0 || delta < deltaMin {
			deltaMin = delta
			posMin = i
		}
	}

	peeked, err := g.o.Peek(g.s, x, len(g.s))
	if err != nil {
		return err
	}
	delta := peeked - g.val

	if delta >= 2*deltaMin {
		if err := g.o.Apply(&g.s, x, posMin); err != nil {
			return err
		}
		v, err := g.o.Value(g.s)
		if err != nil {
			return err
		}
		g.val = v
		g.cfg.emit(EventReplace, x.ID, posMin, delta)
	} else {
		g.cfg.emit(EventReject, x.ID, -1, delta)
	}

	return nil
}

// Run feeds dataset in arrival order.
func (g *StreamingGreedy) Run(dataset []element.Element) error {
	return runByFeeding(g, dataset)
}

// ValueS returns the oracle's cached value of the current summary.
func (g *StreamingGreedy) ValueS() float64 { return g.val }

// Summary returns S by reference.
func (g *StreamingGreedy) Summary() []element.Element { return g.s }

// Oracle returns the oracle clone this selector owns.
func (g *StreamingGreedy) Oracle() oracle.Oracle { return g.o }
