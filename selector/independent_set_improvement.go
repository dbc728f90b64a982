package selector

import (
	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle"
)

// IndependentSetImprovement implements the streaming replacement policy of
// spec §4.4.2: while |S| < k, append every arriving element; once full,
// replace the current worst member (S is kept sorted descending by FDelta,
// so that member is always the tail) whenever the candidate's marginal gain
// more than doubles the tail's marginal gain.
type IndependentSetImprovement struct {
	k   int
	cfg config
	o   oracle.Oracle
	s   []element.Element
	val float64
}

// NewIndependentSetImprovement constructs a selector with cardinality
// constraint k over a fresh clone of o.
func NewIndependentSetImprovement(k int, o oracle.Oracle, opts ...Option) (*IndependentSetImprovement, error) {
	if k < 1 {
		return nil, ErrBadK
	}

	return &IndependentSetImprovement{k: k, cfg: gatherOptions(opts), o: o.Clone()}, nil
}

// Feed integrates one streaming element (spec §4.4.2).
func (g *IndependentSetImprovement) Feed(x element.Element) error {
	peeked, err := g.o.Peek(g.s, x, len(g.s))
	if err != nil {
		return err
	}
	x.FDelta = peeked - g.val

	if len(g.s) < g.k {
		pos := len(g.s)
		if err := g.o.Apply(&g.s, x, pos); err != nil {
			return err
		}
		g.val = peeked
		g.cfg.emit(EventAppend, x.ID, pos, x.FDelta)
	} else if x.FDelta > 2*g.s[len(g.s)-1].FDelta {
		pos := len(g.s) - 1
		if err := g.o.Apply(&g.s, x, pos); err != nil {
			return err
		}
		v, err := g.o.Value(g.s)
		if err != nil {
			return err
		}
		g.val = v
		g.cfg.emit(EventReplace, x.ID, pos, x.FDelta)
	} else {
		g.cfg.emit(EventReject, x.ID, -1, x.FDelta)
		return nil
	}

	return g.o.ReorderByMarginal(g.s)
}

// Run feeds dataset in arrival order.
func (g *IndependentSetImprovement) Run(dataset []element.Element) error {
	return runByFeeding(g, dataset)
}

// ValueS returns the oracle's cached value of the current summary.
func (g *IndependentSetImprovement) ValueS() float64 { return g.val }

// Summary returns S by reference.
func (g *IndependentSetImprovement) Summary() []element.Element { return g.s }

// Oracle returns the oracle clone this selector owns.
func (g *IndependentSetImprovement) Oracle() oracle.Oracle { return g.o }
