package selector

import (
	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle"
)

// FreeDisposal implements the history-gated replacement policy of spec
// §4.4.5: a candidate is even considered only if its marginal gain against
// the full history set A clears a tabulated fraction gamma/k of the current
// solution value; once admitted, it is appended while |S| < k, otherwise it
// replaces whichever current member contributes least against the
// history-capped prefix. Requires an oracle with history tracking enabled
// and a k present in the tabulated alpha range {10,20,...,100}.
type FreeDisposal struct {
	k     int
	alpha float64
	beta  float64
	gamma float64
	cfg   config
	o     oracle.Oracle
	s     []element.Element
	val   float64
}

// NewFreeDisposal constructs a FreeDisposal selector with cardinality
// constraint k over a fresh clone of o.
func NewFreeDisposal(k int, o oracle.Oracle, opts ...Option) (*FreeDisposal, error) {
	if k < 1 {
		return nil, ErrBadK
	}
	if !o.TracksHistory() {
		return nil, ErrHistoryRequired
	}
	alpha, beta, gamma, ok := freeDisposalThreshold(k)
	if !ok {
		return nil, ErrUnsupportedK
	}

	return &FreeDisposal{k: k, alpha: alpha, beta: beta, gamma: gamma, cfg: gatherOptions(opts), o: o.Clone()}, nil
}

// Feed integrates one streaming element (spec §4.4.5).
func (g *FreeDisposal) Feed(x element.Element) error {
	w := g.val // f(S) - f(∅), and f(∅) == 0 always (spec §4.1)

	fdelta, err := g.o.PeekDeltaA(x)
	if err != nil {
		return err
	}
	if fdelta < g.gamma/float64(g.k)*w {
		g.cfg.emit(EventReject, x.ID, -1, fdelta)
		return nil
	}

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

	if err := g.o.Apply(&g.s, x, posMin); err != nil {
		return err
	}
	v, err := g.o.Value(g.s)
	if err != nil {
		return err
	}
	gain := v - g.val
	g.val = v
	g.cfg.emit(EventReplace, x.ID, posMin, gain)

	return nil
}

// Run feeds dataset in arrival order.
func (g *FreeDisposal) Run(dataset []element.Element) error {
	return runByFeeding(g, dataset)
}

// ValueS returns the oracle's cached value of the current summary.
func (g *FreeDisposal) ValueS() float64 { return g.val }

// Summary returns S by reference.
func (g *FreeDisposal) Summary() []element.Element { return g.s }

// Oracle returns the oracle clone this selector owns.
func (g *FreeDisposal) Oracle() oracle.Oracle { return g.o }
