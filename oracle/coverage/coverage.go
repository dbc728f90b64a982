// Package coverage implements the text-coverage submodular oracle: f(S) =
// Σ_t √(Σ_{y∈S : t∈words(y)} weight(y)), the classic concave-over-sum
// coverage function. Token weights pool additively per record, then the
// per-token pooled weight is square-rooted, then summed — monotone and
// submodular because √ is concave (spec §4.3).
//
// Unlike the Gaussian-kernel oracle, only the history set A is cached
// (weightA); Value/Peek against an arbitrary S is always recomputed from
// scratch, matching the source's design (no S-side caching).
package coverage

import (
	"fmt"
	"math"

	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle"
)

func oracleErrorf(method string, err error) error {
	return fmt.Errorf("coverage.Oracle.%s: %w", method, err)
}

// Config captures the construction-time configuration of an Oracle.
type Config struct {
	TrackHistory bool
}

// Option configures a Config during New.
type Option func(*Config)

// WithTrackHistory enables history-set tracking (A, weight_A, value_A).
func WithTrackHistory() Option {
	return func(c *Config) { c.TrackHistory = true }
}

// Oracle is the text-coverage submodular oracle.
type Oracle struct {
	cfg Config

	weightA map[string]float64
	valueA  float64

	queryCount int64
}

// New constructs a text-coverage oracle.
func New(opts ...Option) *Oracle {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	o := &Oracle{cfg: cfg}
	if cfg.TrackHistory {
		o.weightA = make(map[string]float64)
	}

	return o
}

func validateTokens(x element.Element) error {
	if x.Kind != element.KindTokens {
		return oracleErrorf("validateTokens", oracle.ErrKindMismatch)
	}

	return nil
}

// coverageValue computes Σ_t √(pooled weight) over an arbitrary sequence Q.
func coverageValue(q []element.Element) float64 {
	pooled := make(map[string]float64)
	for _, y := range q {
		for _, w := range y.Words {
			pooled[w] += y.Weight
		}
	}

	var sum float64
	for _, weight := range pooled {
		sum += math.Sqrt(weight)
	}

	return sum
}

// Value returns f(S), recomputed directly from S (no caching).
func (o *Oracle) Value(summary []element.Element) (float64, error) {
	if len(summary) == 0 {
		return 0, nil
	}

	return coverageValue(summary), nil
}

// placed builds S′ = S with x placed at pos (append if pos==len(S), replace
// at pos otherwise). pos > len(S) is ErrOutOfRange.
func placed(summary []element.Element, x element.Element, pos int) ([]element.Element, error) {
	if pos > len(summary) {
		return nil, oracleErrorf("placed", oracle.ErrOutOfRange)
	}

	out := make([]element.Element, len(summary), len(summary)+1)
	copy(out, summary)
	if pos == len(summary) {
		out = append(out, x)
	} else {
		out[pos] = x
	}

	return out, nil
}

// Peek returns value(S′) without mutating any oracle state.
func (o *Oracle) Peek(summary []element.Element, x element.Element, pos int) (float64, error) {
	if err := validateTokens(x); err != nil {
		return 0, oracleErrorf("Peek", err)
	}

	sPrime, err := placed(summary, x, pos)
	if err != nil {
		return 0, oracleErrorf("Peek", err)
	}
	o.queryCount++

	return coverageValue(sPrime), nil
}

// Apply performs the same placement as Peek, mutating summary and, when
// tracking is enabled, folding x's tokens into weight_A. Never increments
// QueryCount.
func (o *Oracle) Apply(summary *[]element.Element, x element.Element, pos int) error {
	if err := validateTokens(x); err != nil {
		return oracleErrorf("Apply", err)
	}

	for i, y := range *summary {
		if y.ID == x.ID && i != pos {
			return oracleErrorf("Apply", oracle.ErrDuplicateID)
		}
	}

	sPrime, err := placed(*summary, x, pos)
	if err != nil {
		return oracleErrorf("Apply", err)
	}
	*summary = sPrime

	if o.cfg.TrackHistory {
		for _, w := range x.Words {
			o.weightA[w] += x.Weight
		}
		o.valueA = coverageSqrtSum(o.weightA)
	}

	return nil
}

func coverageSqrtSum(weightA map[string]float64) float64 {
	var sum float64
	for _, weight := range weightA {
		sum += math.Sqrt(weight)
	}

	return sum
}

// ReorderByMarginal sorts summary by descending FDelta in place. TC needs no
// further bookkeeping (spec §4.1): there is no cached per-S structure tied
// to order.
func (o *Oracle) ReorderByMarginal(summary []element.Element) error {
	// Stable insertion sort by descending FDelta.
	for i := 1; i < len(summary); i++ {
		for j := i; j > 0 && summary[j-1].FDelta < summary[j].FDelta; j-- {
			summary[j-1], summary[j] = summary[j], summary[j-1]
		}
	}

	return nil
}

// Clone returns a fresh text-coverage oracle with the same configuration
// and empty state.
func (o *Oracle) Clone() oracle.Oracle {
	return New(optionsFromConfig(o.cfg)...)
}

func optionsFromConfig(cfg Config) []Option {
	if cfg.TrackHistory {
		return []Option{WithTrackHistory()}
	}

	return nil
}

// QueryCount returns the number of peek-family calls made so far.
func (o *Oracle) QueryCount() int64 { return o.queryCount }

// TracksHistory reports whether history tracking is enabled.
func (o *Oracle) TracksHistory() bool { return o.cfg.TrackHistory }

// PeekDeltaA returns value(A ∪ {x}) − value(A), folding x into a scratch
// copy of weight_A.
func (o *Oracle) PeekDeltaA(x element.Element) (float64, error) {
	if !o.cfg.TrackHistory {
		return 0, oracleErrorf("PeekDeltaA", oracle.ErrHistoryDisabled)
	}
	if err := validateTokens(x); err != nil {
		return 0, oracleErrorf("PeekDeltaA", err)
	}
	o.queryCount++

	scratch := make(map[string]float64, len(o.weightA)+len(x.Words))
	for k, v := range o.weightA {
		scratch[k] = v
	}
	for _, w := range x.Words {
		scratch[w] += x.Weight
	}

	return coverageSqrtSum(scratch) - o.valueA, nil
}

// PeekDeltaACapS returns value(P ∪ {x}) − value(P), where P = {y ∈ S :
// y.ID < x.ID}, both recomputed from scratch (spec §4.3).
func (o *Oracle) PeekDeltaACapS(summary []element.Element, x element.Element) (float64, error) {
	if !o.cfg.TrackHistory {
		return 0, oracleErrorf("PeekDeltaACapS", oracle.ErrHistoryDisabled)
	}
	if err := validateTokens(x); err != nil {
		return 0, oracleErrorf("PeekDeltaACapS", err)
	}

	found := false
	older := make([]element.Element, 0, len(summary))
	for _, y := range summary {
		if y.ID == x.ID {
			found = true
		}
		if y.ID < x.ID {
			older = append(older, y)
		}
	}
	if !found {
		return 0, oracleErrorf("PeekDeltaACapS", oracle.ErrUnknownID)
	}
	o.queryCount++

	before := coverageValue(older)
	after := coverageValue(append(older, x))

	return after - before, nil
}
