// Package gaussian implements the determinantal submodular oracle: f(S) =
// ½·log det(K_S), where K_S is the Gram matrix of a Gaussian (RBF) kernel
// over the numeric Elements currently in S. K_S (and, when history tracking
// is enabled, K_A) is maintained incrementally — append extends it by one
// row/column, replace recomputes only the touched row/column — exploiting
// the structural fact that most updates change a single row/column rather
// than the whole matrix (spec §1, §4.2).
package gaussian

import (
	"fmt"
	"math"
	"sort"

	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/kernel"
	"github.com/arvensic/submodsel/oracle"
)

// Fixed kernel parameters, per spec §3: a = 1, ℓ = 1/(2√dim).
const kernelA = 1.0

// defaultInitialCapacity is used when the caller supplies no capacity hint;
// the kernel matrix grows one slot at a time past this (kernel.Matrix.Grow)
// so correctness never depends on guessing k right.
const defaultInitialCapacity = 8

func oracleErrorf(method string, err error) error {
	return fmt.Errorf("gaussian.Oracle.%s: %w", method, err)
}

// Config captures the construction-time configuration of an Oracle,
// separated from its mutable state so Clone can hand out a fresh oracle
// with identical configuration and empty state (SPEC_FULL.md §9).
type Config struct {
	Dim             int
	TrackHistory    bool
	InitialCapacity int
}

// Option configures a Config during New.
type Option func(*Config)

// WithTrackHistory enables history-set tracking (A, K_A, value_A), required
// by the FreeDisposal and StreamingGreedy selectors.
func WithTrackHistory() Option {
	return func(c *Config) { c.TrackHistory = true }
}

// WithCapacity hints the maximum summary size k up front so the kernel
// matrix is preallocated once instead of growing one slot at a time during
// the first k appends (spec Design Notes §9).
func WithCapacity(k int) Option {
	return func(c *Config) { c.InitialCapacity = k }
}

// Oracle is the Gaussian-kernel determinantal submodular oracle.
type Oracle struct {
	cfg Config
	ell float64 // derived from cfg.Dim: 1/(2*sqrt(dim))

	kS           *kernel.Matrix
	idPosS       map[int]int
	valueS       float64

	historyElems []element.Element
	kA           *kernel.Matrix
	idPosA       map[int]int
	valueA       float64

	queryCount int64
}

// New constructs a Gaussian-kernel oracle over dim-dimensional numeric
// Elements.
//
// Stage 1 (Validate): dim >= 1.
// Stage 2 (Prepare): derive ℓ, allocate the (possibly capacity-hinted)
// kernel matrices.
//
// Complexity: O(capacity²) allocation.
func New(dim int, opts ...Option) (*Oracle, error) {
	if dim < 1 {
		return nil, oracleErrorf("New", fmt.Errorf("dim must be >= 1"))
	}

	cfg := Config{Dim: dim, InitialCapacity: defaultInitialCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.InitialCapacity < 1 {
		cfg.InitialCapacity = defaultInitialCapacity
	}

	return newFromConfig(cfg)
}

func newFromConfig(cfg Config) (*Oracle, error) {
	kS, err := kernel.New(cfg.InitialCapacity)
	if err != nil {
		return nil, oracleErrorf("New", err)
	}

	o := &Oracle{
		cfg:    cfg,
		ell:    1.0 / (2.0 * math.Sqrt(float64(cfg.Dim))),
		kS:     kS,
		idPosS: make(map[int]int),
	}
	if cfg.TrackHistory {
		kA, err := kernel.New(cfg.InitialCapacity)
		if err != nil {
			return nil, oracleErrorf("New", err)
		}
		o.kA = kA
		o.idPosA = make(map[int]int)
	}

	return o, nil
}

// validateNumeric checks x is a KindNumeric element of the configured dim.
func (o *Oracle) validateNumeric(x element.Element) error {
	if x.Kind != element.KindNumeric {
		return oracleErrorf("validateNumeric", oracle.ErrKindMismatch)
	}
	if x.Dim != o.cfg.Dim {
		return oracleErrorf("validateNumeric", fmt.Errorf("dim %d != configured %d", x.Dim, o.cfg.Dim))
	}

	return nil
}

// kernelEntry computes K(x,y) = (1+a) if x.ID==y.ID else a·exp(−‖x−y‖²/(2ℓ²)).
func (o *Oracle) kernelEntry(x, y element.Element) float64 {
	if x.ID == y.ID {
		return 1.0 + kernelA
	}

	var dist2 float64
	for i := 0; i < o.cfg.Dim; i++ {
		d := x.Coords[i] - y.Coords[i]
		dist2 += d * d
	}

	return kernelA * math.Exp(-dist2/(2.0*o.ell*o.ell))
}

// matchesTrackedState reports whether summary is the same sequence of IDs,
// in the same order, as the S this oracle has been incrementally tracking.
func matchesTrackedState(summary []element.Element, idPos map[int]int, size int) bool {
	if len(summary) != size {
		return false
	}
	for i, e := range summary {
		if pos, ok := idPos[e.ID]; !ok || pos != i {
			return false
		}
	}

	return true
}

// Value returns ½·log det(K_S). summary must equal the S this oracle has
// been tracking (spec §4.1: "calling with a different S is an error on GK").
func (o *Oracle) Value(summary []element.Element) (float64, error) {
	if len(summary) == 0 {
		return 0, nil
	}
	if !matchesTrackedState(summary, o.idPosS, o.kS.Size()) {
		return 0, oracleErrorf("Value", oracle.ErrSummaryMismatch)
	}

	return o.valueS, nil
}

// halfLogDet converts a kernel.Matrix.LogDet() result into the spec's
// ½·log det(K) value, mapping factorization failure to −∞.
func halfLogDet(m *kernel.Matrix) float64 {
	ld, ok := m.LogDet()
	if !ok {
		return math.Inf(-1)
	}

	return 0.5 * ld
}

// offDiagAgainst computes the kernel row x would have against each element
// of base, in base's current order.
func (o *Oracle) offDiagAgainst(base []element.Element, x element.Element) []float64 {
	row := make([]float64, len(base))
	for i, y := range base {
		row[i] = o.kernelEntry(y, x)
	}

	return row
}

// Peek returns value(S′) without mutating any oracle state. pos > len(S) is
// a fatal contract violation (ErrOutOfRange).
func (o *Oracle) Peek(summary []element.Element, x element.Element, pos int) (float64, error) {
	if err := o.validateNumeric(x); err != nil {
		return 0, oracleErrorf("Peek", err)
	}
	if pos > len(summary) {
		return 0, oracleErrorf("Peek", oracle.ErrOutOfRange)
	}
	if !matchesTrackedState(summary, o.idPosS, o.kS.Size()) {
		return 0, oracleErrorf("Peek", oracle.ErrSummaryMismatch)
	}

	o.queryCount++

	scratch := o.kS.Clone()
	if pos == len(summary) {
		if scratch.Size() >= scratch.Capacity() {
			grown, err := scratch.Grow(scratch.Capacity() + 1)
			if err != nil {
				return 0, oracleErrorf("Peek", err)
			}
			scratch = grown
		}
		if err := scratch.Append(o.offDiagAgainst(summary, x), 1.0+kernelA); err != nil {
			return 0, oracleErrorf("Peek", err)
		}
	} else {
		row := make([]float64, len(summary))
		for i, e := range summary {
			if i == pos {
				continue
			}
			row[i] = o.kernelEntry(e, x)
		}
		if err := scratch.ReplaceRow(pos, row, 1.0+kernelA); err != nil {
			return 0, oracleErrorf("Peek", err)
		}
	}

	return halfLogDet(scratch), nil
}

// Apply performs the placement described by Peek, mutating summary and the
// oracle's cached kernel state. Never increments QueryCount (spec §4.1).
func (o *Oracle) Apply(summary *[]element.Element, x element.Element, pos int) error {
	if err := o.validateNumeric(x); err != nil {
		return oracleErrorf("Apply", err)
	}
	cur := *summary
	if pos > len(cur) {
		return oracleErrorf("Apply", oracle.ErrOutOfRange)
	}
	if !matchesTrackedState(cur, o.idPosS, o.kS.Size()) {
		return oracleErrorf("Apply", oracle.ErrSummaryMismatch)
	}
	if p, ok := o.idPosS[x.ID]; ok && p != pos {
		return oracleErrorf("Apply", oracle.ErrDuplicateID)
	}

	if pos == len(cur) {
		if o.kS.Size() >= o.kS.Capacity() {
			grown, err := o.kS.Grow(o.kS.Capacity() + 1)
			if err != nil {
				return oracleErrorf("Apply", err)
			}
			o.kS = grown
		}
		if err := o.kS.Append(o.offDiagAgainst(cur, x), 1.0+kernelA); err != nil {
			return oracleErrorf("Apply", err)
		}
		newSummary := append(cur, x)
		*summary = newSummary
		o.idPosS[x.ID] = len(newSummary) - 1
	} else {
		row := make([]float64, len(cur))
		for i, e := range cur {
			if i == pos {
				continue
			}
			row[i] = o.kernelEntry(e, x)
		}
		if err := o.kS.ReplaceRow(pos, row, 1.0+kernelA); err != nil {
			return oracleErrorf("Apply", err)
		}
		delete(o.idPosS, cur[pos].ID)
		cur[pos] = x
		o.idPosS[x.ID] = pos
	}
	o.valueS = halfLogDet(o.kS)

	if o.cfg.TrackHistory {
		if o.kA.Size() >= o.kA.Capacity() {
			grown, err := o.kA.Grow(o.kA.Capacity() + 1)
			if err != nil {
				return oracleErrorf("Apply", err)
			}
			o.kA = grown
		}
		if err := o.kA.Append(o.offDiagAgainst(o.historyElems, x), 1.0+kernelA); err != nil {
			return oracleErrorf("Apply", err)
		}
		o.historyElems = append(o.historyElems, x)
		o.idPosA[x.ID] = len(o.historyElems) - 1
		o.valueA = halfLogDet(o.kA)
	}

	return nil
}

// ReorderByMarginal sorts summary by descending FDelta in place and
// reindexes K_S (permute both axes by the same permutation) so row/col i
// still corresponds to the new summary[i].
func (o *Oracle) ReorderByMarginal(summary []element.Element) error {
	if !matchesTrackedState(summary, o.idPosS, o.kS.Size()) {
		return oracleErrorf("ReorderByMarginal", oracle.ErrSummaryMismatch)
	}

	n := len(summary)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return summary[perm[i]].FDelta > summary[perm[j]].FDelta
	})

	if err := o.kS.Permute(perm); err != nil {
		return oracleErrorf("ReorderByMarginal", err)
	}

	reordered := make([]element.Element, n)
	for i, p := range perm {
		reordered[i] = summary[p]
	}
	copy(summary, reordered)
	for i, e := range summary {
		o.idPosS[e.ID] = i
	}

	return nil
}

// Clone returns a fresh Gaussian-kernel oracle with the same configuration
// and empty state (S, A, query counter all reset).
func (o *Oracle) Clone() oracle.Oracle {
	fresh, err := newFromConfig(o.cfg)
	if err != nil {
		// cfg was already validated once at New time; a fresh build from
		// the same cfg cannot fail.
		panic(oracleErrorf("Clone", err))
	}

	return fresh
}

// QueryCount returns the number of peek-family calls made so far.
func (o *Oracle) QueryCount() int64 { return o.queryCount }

// TracksHistory reports whether history tracking is enabled.
func (o *Oracle) TracksHistory() bool { return o.cfg.TrackHistory }

// PeekDeltaA returns value(A ∪ {x}) − value(A): an append-peek against K_A.
func (o *Oracle) PeekDeltaA(x element.Element) (float64, error) {
	if !o.cfg.TrackHistory {
		return 0, oracleErrorf("PeekDeltaA", oracle.ErrHistoryDisabled)
	}
	if err := o.validateNumeric(x); err != nil {
		return 0, oracleErrorf("PeekDeltaA", err)
	}

	o.queryCount++

	before := o.valueA
	scratch := o.kA.Clone()
	if scratch.Size() >= scratch.Capacity() {
		grown, err := scratch.Grow(scratch.Capacity() + 1)
		if err != nil {
			return 0, oracleErrorf("PeekDeltaA", err)
		}
		scratch = grown
	}
	if err := scratch.Append(o.offDiagAgainst(o.historyElems, x), 1.0+kernelA); err != nil {
		return 0, oracleErrorf("PeekDeltaA", err)
	}

	return halfLogDet(scratch) - before, nil
}

// PeekDeltaACapS returns the diminishing marginal of x against the
// older-in-A members of S: value(P ∪ {x}) − value(P), where P = {y ∈ S :
// y.ID < x.ID}. Every entry needed is already cached in K_S; no new kernel
// evaluations are performed.
func (o *Oracle) PeekDeltaACapS(summary []element.Element, x element.Element) (float64, error) {
	if !o.cfg.TrackHistory {
		return 0, oracleErrorf("PeekDeltaACapS", oracle.ErrHistoryDisabled)
	}
	if !matchesTrackedState(summary, o.idPosS, o.kS.Size()) {
		return 0, oracleErrorf("PeekDeltaACapS", oracle.ErrSummaryMismatch)
	}
	xPos, ok := o.idPosS[x.ID]
	if !ok {
		return 0, oracleErrorf("PeekDeltaACapS", oracle.ErrUnknownID)
	}

	o.queryCount++

	positions := make([]int, 0, len(summary))
	for _, y := range summary {
		if y.ID < x.ID {
			positions = append(positions, o.idPosS[y.ID])
		}
	}

	base, err := o.kS.Submatrix(positions)
	if err != nil {
		return 0, oracleErrorf("PeekDeltaACapS", err)
	}
	valueBase := halfLogDet(base)

	grown, err := base.Grow(len(positions) + 1)
	if err != nil {
		return 0, oracleErrorf("PeekDeltaACapS", err)
	}
	offDiag := make([]float64, len(positions))
	for i, p := range positions {
		v, err := o.kS.At(p, xPos)
		if err != nil {
			return 0, oracleErrorf("PeekDeltaACapS", err)
		}
		offDiag[i] = v
	}
	if err := grown.Append(offDiag, 1.0+kernelA); err != nil {
		return 0, oracleErrorf("PeekDeltaACapS", err)
	}

	return halfLogDet(grown) - valueBase, nil
}
