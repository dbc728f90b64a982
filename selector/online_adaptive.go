package selector

import (
	"math"

	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle"
)

// onlineBase holds the state and feed logic shared by OnlineAdaptive and
// OnlineNonAdaptive (spec §4.4.6/§4.4.7): both accept x only when its
// append-peek gain clears β·τ/k, append while under capacity and otherwise
// always replace the tail, then recompute τ over S reordered by descending
// marginal gain. They differ only in whether α/β are refreshed after each
// accepted insertion (adaptive) or fixed once at construction (non-adaptive).
type onlineBase struct {
	k        int
	eta      float64
	r        float64
	adaptive bool
	cfg      config

	alpha float64
	beta  float64
	tau   float64

	o   oracle.Oracle
	s   []element.Element
	val float64
}

func newOnlineBase(k int, r float64, adaptive bool, o oracle.Oracle, opts []Option) (*onlineBase, error) {
	if k < 1 {
		return nil, ErrBadK
	}
	eta, ok := onlineAdaptiveEtaFor(k)
	if !ok {
		return nil, ErrUnsupportedK
	}

	b := &onlineBase{k: k, eta: eta, r: r, adaptive: adaptive, cfg: gatherOptions(opts), alpha: eta, o: o.Clone()}
	b.beta = (1 + float64(k)*b.alpha) / (math.Pow(1+b.alpha, float64(k)) - 1)

	return b, nil
}

func (b *onlineBase) feed(x element.Element) error {
	peeked, err := b.o.Peek(b.s, x, len(b.s))
	if err != nil {
		return err
	}
	x.FDelta = peeked - b.val

	if x.FDelta < b.beta*b.tau/float64(b.k) {
		b.cfg.emit(EventReject, x.ID, -1, x.FDelta)
		return nil
	}

	kind := EventAppend
	pos := len(b.s)
	if len(b.s) < b.k {
		if err := b.o.Apply(&b.s, x, pos); err != nil {
			return err
		}
	} else {
		kind = EventReplace
		pos = len(b.s) - 1
		if err := b.o.Apply(&b.s, x, pos); err != nil {
			return err
		}
	}
	v, err := b.o.Value(b.s)
	if err != nil {
		return err
	}
	b.val = v
	b.cfg.emit(kind, x.ID, pos, x.FDelta)

	if b.adaptive {
		exponent := math.Log(math.Log(float64(b.k))/math.Log(1.2)) / math.Log(2)
		scaled := math.Exp(math.Pow(float64(len(b.s)), exponent)*math.Log(b.r)/math.Pow(float64(b.k), exponent)) * b.eta
		b.alpha = math.Min(scaled, 1.0)
		b.beta = (1 + float64(b.k)*b.alpha) / (math.Pow(1+b.alpha, float64(b.k)) - 1)
	}

	if err := b.o.ReorderByMarginal(b.s); err != nil {
		return err
	}

	b.tau = 0
	for i := range b.s {
		b.tau += math.Pow(1+b.alpha, float64(i)) * b.s[i].FDelta
	}

	return nil
}

// OnlineAdaptive implements spec §4.4.6: α and β are refreshed after every
// accepted insertion so the acceptance threshold tightens as r's relaxation
// on the streaming guarantee narrows with |S|.
type OnlineAdaptive struct{ *onlineBase }

// NewOnlineAdaptive constructs an OnlineAdaptive(r) selector with
// cardinality constraint k over a fresh clone of o.
func NewOnlineAdaptive(k int, r float64, o oracle.Oracle, opts ...Option) (*OnlineAdaptive, error) {
	b, err := newOnlineBase(k, r, true, o, opts)
	if err != nil {
		return nil, err
	}

	return &OnlineAdaptive{b}, nil
}

// Feed integrates one streaming element.
func (a *OnlineAdaptive) Feed(x element.Element) error { return a.feed(x) }

// Run feeds dataset in arrival order.
func (a *OnlineAdaptive) Run(dataset []element.Element) error { return runByFeeding(a, dataset) }

// ValueS returns the oracle's cached value of the current summary.
func (a *OnlineAdaptive) ValueS() float64 { return a.val }

// Summary returns S by reference.
func (a *OnlineAdaptive) Summary() []element.Element { return a.s }

// Oracle returns the oracle clone this selector owns.
func (a *OnlineAdaptive) Oracle() oracle.Oracle { return a.o }

// OnlineNonAdaptive implements spec §4.4.7: structurally identical to
// OnlineAdaptive except α is fixed at η(k) for the selector's lifetime and β
// is computed once from it; only τ and S's order change per insertion.
type OnlineNonAdaptive struct{ *onlineBase }

// NewOnlineNonAdaptive constructs an OnlineNonAdaptive(r) selector with
// cardinality constraint k over a fresh clone of o.
func NewOnlineNonAdaptive(k int, r float64, o oracle.Oracle, opts ...Option) (*OnlineNonAdaptive, error) {
	b, err := newOnlineBase(k, r, false, o, opts)
	if err != nil {
		return nil, err
	}

	return &OnlineNonAdaptive{b}, nil
}

// Feed integrates one streaming element.
func (a *OnlineNonAdaptive) Feed(x element.Element) error { return a.feed(x) }

// Run feeds dataset in arrival order.
func (a *OnlineNonAdaptive) Run(dataset []element.Element) error { return runByFeeding(a, dataset) }

// ValueS returns the oracle's cached value of the current summary.
func (a *OnlineNonAdaptive) ValueS() float64 { return a.val }

// Summary returns S by reference.
func (a *OnlineNonAdaptive) Summary() []element.Element { return a.s }

// Oracle returns the oracle clone this selector owns.
func (a *OnlineNonAdaptive) Oracle() oracle.Oracle { return a.o }
