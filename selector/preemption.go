package selector

import (
	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle"
)

// Preemption implements the threshold-driven streaming replacement policy of
// spec §4.4.4, parameterized by c: while |S| < k, append every arriving
// element; once full, scan every position, replacing whichever slot yields
// the largest f(S′) if that gain clears c·f(S)/k. Ties keep the
// earliest-scanned position (v_max seeded at 0, strict > comparison, per
// Design Notes §9's preserved tie policy).
type Preemption struct {
	k   int
	c   float64
	cfg config
	o   oracle.Oracle
	s   []element.Element
	val float64
}

// NewPreemption constructs a Preemption(c) selector with cardinality
// constraint k over a fresh clone of o.
func NewPreemption(k int, c float64, o oracle.Oracle, opts ...Option) (*Preemption, error) {
	if k < 1 {
		return nil, ErrBadK
	}

	return &Preemption{k: k, c: c, cfg: gatherOptions(opts), o: o.Clone()}, nil
}

// Feed integrates one streaming element (spec §4.4.4).
func (p *Preemption) Feed(x element.Element) error {
	if len(p.s) < p.k {
		pos := len(p.s)
		if err := p.o.Apply(&p.s, x, pos); err != nil {
			return err
		}
		v, err := p.o.Value(p.s)
		if err != nil {
			return err
		}
		gain := v - p.val
		p.val = v
		p.cfg.emit(EventAppend, x.ID, pos, gain)

		return nil
	}

	valMax := 0.0
	posMax := 0
	for i := 0; i < p.k; i++ {
		peeked, err := p.o.Peek(p.s, x, i)
		if err != nil {
			return err
		}
		if peeked > valMax {
			valMax = peeked
			posMax = i
		}
	}

	if valMax-p.val >= p.c*p.val/float64(p.k) {
		gain := valMax - p.val
		if err := p.o.Apply(&p.s, x, posMax); err != nil {
			return err
		}
		p.val = valMax
		p.cfg.emit(EventReplace, x.ID, posMax, gain)
	} else {
		p.cfg.emit(EventReject, x.ID, -1, valMax-p.val)
	}

	return nil
}

// Run feeds dataset in arrival order.
func (p *Preemption) Run(dataset []element.Element) error {
	return runByFeeding(p, dataset)
}

// ValueS returns the oracle's cached value of the current summary.
func (p *Preemption) ValueS() float64 { return p.val }

// Summary returns S by reference.
func (p *Preemption) Summary() []element.Element { return p.s }

// Oracle returns the oracle clone this selector owns.
func (p *Preemption) Oracle() oracle.Oracle { return p.o }
