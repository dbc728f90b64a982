package selector

import (
	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle"
)

// OfflineGreedy implements the classical batch greedy algorithm (spec
// §4.4.1): repeatedly pick the remaining element with the largest marginal
// gain into S until |S| = k or no remaining element has a positive gain.
// It is batch-only; Feed always fails.
type OfflineGreedy struct {
	k   int
	cfg config
	o   oracle.Oracle
	s   []element.Element
	val float64
}

// NewOfflineGreedy constructs an OfflineGreedy selector with cardinality
// constraint k over a fresh clone of o.
func NewOfflineGreedy(k int, o oracle.Oracle, opts ...Option) (*OfflineGreedy, error) {
	if k < 1 {
		return nil, ErrBadK
	}

	return &OfflineGreedy{k: k, cfg: gatherOptions(opts), o: o.Clone()}, nil
}

// Feed is unsupported: OfflineGreedy only operates in batch mode via Run
// (spec §4.4.1, §7).
func (g *OfflineGreedy) Feed(element.Element) error {
	return ErrUnsupportedStreaming
}

// Run performs the full greedy sweep over dataset: at each of up to k
// rounds, scan every remaining element, peek its marginal gain against the
// current S, and commit the largest strictly-positive one. Stops early once
// no remaining element has a positive marginal gain (spec §4.4.1).
func (g *OfflineGreedy) Run(dataset []element.Element) error {
	remaining := make([]element.Element, len(dataset))
	copy(remaining, dataset)

	for len(g.s) < g.k && len(remaining) > 0 {
		bestGain := 0.0
		bestIdx := -1

		for i, x := range remaining {
			peeked, err := g.o.Peek(g.s, x, len(g.s))
			if err != nil {
				return err
			}
			gain := peeked - g.val
			if gain > bestGain {
				bestGain = gain
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}

		chosen := remaining[bestIdx]
		pos := len(g.s)
		if err := g.o.Apply(&g.s, chosen, pos); err != nil {
			return err
		}
		g.val += bestGain
		g.cfg.emit(EventAppend, chosen.ID, pos, bestGain)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return nil
}

// ValueS returns the oracle's cached value of the current summary.
func (g *OfflineGreedy) ValueS() float64 { return g.val }

// Summary returns S by reference.
func (g *OfflineGreedy) Summary() []element.Element { return g.s }

// Oracle returns the oracle clone this selector owns.
func (g *OfflineGreedy) Oracle() oracle.Oracle { return g.o }
