package gaussian_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle"
	"github.com/arvensic/submodsel/oracle/gaussian"
)

func numeric(t *testing.T, id int, coords ...float64) element.Element {
	t.Helper()
	e, err := element.NewNumeric(id, coords)
	require.NoError(t, err)

	return e
}

// Scenario (a): empty-input GK, k=10, run([]): value 0, |S|=0, query_count=0.
func TestEmptyValueIsZero(t *testing.T) {
	o, err := gaussian.New(3, gaussian.WithCapacity(10))
	require.NoError(t, err)

	v, err := o.Value(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, int64(0), o.QueryCount())
}

func TestPeekPurity(t *testing.T) {
	o, err := gaussian.New(2, gaussian.WithCapacity(4))
	require.NoError(t, err)
	var summary []element.Element
	x0 := numeric(t, 0, 0, 0)
	require.NoError(t, o.Apply(&summary, x0, 0))

	x1 := numeric(t, 1, 1, 0)
	v1, err := o.Peek(summary, x1, len(summary))
	require.NoError(t, err)
	v2, err := o.Peek(summary, x1, len(summary))
	require.NoError(t, err)
	assert.Equal(t, v1, v2, "repeated peek must be bit-identical")

	got, err := o.Value(summary)
	require.NoError(t, err)
	assert.Equal(t, 0.5*math.Log(2.0), got, "peek must not have mutated state")
}

func TestPeekOutOfRangeIsFatal(t *testing.T) {
	o, err := gaussian.New(2)
	require.NoError(t, err)
	var summary []element.Element
	x0 := numeric(t, 0, 0, 0)
	require.NoError(t, o.Apply(&summary, x0, 0))

	_, err = o.Peek(summary, numeric(t, 1, 1, 1), 5)
	assert.ErrorIs(t, err, oracle.ErrOutOfRange)
}

func TestApplyDoesNotIncrementQueryCount(t *testing.T) {
	o, err := gaussian.New(2)
	require.NoError(t, err)
	var summary []element.Element
	require.NoError(t, o.Apply(&summary, numeric(t, 0, 0, 0), 0))
	require.NoError(t, o.Apply(&summary, numeric(t, 1, 1, 1), 1))
	assert.Equal(t, int64(0), o.QueryCount())
}

// Scenario (b): GK(dim=2), k=2, offline-greedy over the unit-square corners.
// First pick id=0 by tie-break; among remaining the max-det second pick is
// id=3, diagonally opposite id=0. Final value is ½·log det of the 2×2 matrix
// with diagonal 2 and off-diagonal a·exp(-‖x0-x3‖²/(2ℓ²)), per the kernel
// formula in gaussian.go's kernelEntry (ℓ=1/(2√2), ‖x0-x3‖²=2).
func TestUnitSquareGreedyFinalValue(t *testing.T) {
	o, err := gaussian.New(2, gaussian.WithCapacity(2))
	require.NoError(t, err)
	var summary []element.Element
	id0 := numeric(t, 0, 0, 0)
	id3 := numeric(t, 3, 1, 1)
	require.NoError(t, o.Apply(&summary, id0, 0))
	require.NoError(t, o.Apply(&summary, id3, 1))

	got, err := o.Value(summary)
	require.NoError(t, err)

	ell := 1.0 / (2.0 * math.Sqrt(2.0))
	off := math.Exp(-2.0 / (2.0 * ell * ell))
	want := 0.5 * math.Log(2.0*2.0-off*off)
	assert.InDelta(t, want, got, 1e-9)
}

func TestReorderByMarginalPermutesKernelConsistently(t *testing.T) {
	o, err := gaussian.New(2, gaussian.WithCapacity(3))
	require.NoError(t, err)
	var summary []element.Element
	a := numeric(t, 0, 0, 0)
	b := numeric(t, 1, 1, 0)
	c := numeric(t, 2, 2, 0)
	require.NoError(t, o.Apply(&summary, a, 0))
	require.NoError(t, o.Apply(&summary, b, 1))
	require.NoError(t, o.Apply(&summary, c, 2))

	summary[0].FDelta = 1
	summary[1].FDelta = 3
	summary[2].FDelta = 2
	require.NoError(t, o.ReorderByMarginal(summary))

	assert.Equal(t, 1, summary[0].ID)
	assert.Equal(t, 2, summary[1].ID)
	assert.Equal(t, 0, summary[2].ID)

	got, err := o.Value(summary)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(got))
}

func TestPeekDeltaARequiresHistory(t *testing.T) {
	o, err := gaussian.New(2)
	require.NoError(t, err)
	_, err = o.PeekDeltaA(numeric(t, 0, 0, 0))
	assert.ErrorIs(t, err, oracle.ErrHistoryDisabled)
}

func TestPeekDeltaAMatchesAppendPeekAgainstA(t *testing.T) {
	o, err := gaussian.New(2, gaussian.WithTrackHistory())
	require.NoError(t, err)
	var summary []element.Element
	require.NoError(t, o.Apply(&summary, numeric(t, 0, 0, 0), 0))

	x := numeric(t, 1, 5, 5)
	delta, err := o.PeekDeltaA(x)
	require.NoError(t, err)
	assert.Greater(t, delta, 0.0, "monotone: adding a distinct element increases A's value")

	// A and S hold the same single element here, so the delta against A must
	// equal the append-peek gain against S.
	peeked, err := o.Peek(summary, x, len(summary))
	require.NoError(t, err)
	valueS, err := o.Value(summary)
	require.NoError(t, err)
	assert.InDelta(t, peeked-valueS, delta, 1e-12)
}

func TestPeekDeltaACapSUsesOnlyOlderElements(t *testing.T) {
	o, err := gaussian.New(2, gaussian.WithTrackHistory())
	require.NoError(t, err)
	var summary []element.Element
	require.NoError(t, o.Apply(&summary, numeric(t, 0, 0, 0), 0))
	require.NoError(t, o.Apply(&summary, numeric(t, 1, 1, 0), 1))
	require.NoError(t, o.Apply(&summary, numeric(t, 2, 2, 0), 2))

	// delta for id=0 (the oldest) must be computed against the empty set.
	delta0, err := o.PeekDeltaACapS(summary, summary[0])
	require.NoError(t, err)
	assert.InDelta(t, 0.5*math.Log(2.0), delta0, 1e-9)
}

func TestPeekDeltaACapSUnknownID(t *testing.T) {
	o, err := gaussian.New(2, gaussian.WithTrackHistory())
	require.NoError(t, err)
	var summary []element.Element
	require.NoError(t, o.Apply(&summary, numeric(t, 0, 0, 0), 0))

	_, err = o.PeekDeltaACapS(summary, numeric(t, 99, 9, 9))
	assert.ErrorIs(t, err, oracle.ErrUnknownID)
}

func TestCloneResetsState(t *testing.T) {
	o, err := gaussian.New(2, gaussian.WithTrackHistory())
	require.NoError(t, err)
	var summary []element.Element
	require.NoError(t, o.Apply(&summary, numeric(t, 0, 0, 0), 0))
	_, err = o.Peek(summary, numeric(t, 1, 1, 1), 1)
	require.NoError(t, err)
	assert.Greater(t, o.QueryCount(), int64(0))

	clone := o.Clone()
	assert.Equal(t, int64(0), clone.QueryCount())
	v, err := clone.Value(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	assert.True(t, clone.TracksHistory())
}

// Scenario (e) (sanity portion): repeated identical points never produce a
// NaN marginal, and the marginal shrinks toward 0 as duplicates accumulate
// (classic diminishing returns of a log-det over an increasingly redundant
// Gram matrix), matching the FreeDisposal rejection behavior the spec
// describes.
func TestDuplicatePointsShrinkingMarginalNoNaN(t *testing.T) {
	o, err := gaussian.New(1, gaussian.WithTrackHistory(), gaussian.WithCapacity(50))
	require.NoError(t, err)
	var summary []element.Element
	require.NoError(t, o.Apply(&summary, numeric(t, 0, 1.0), 0))

	prev := math.Inf(1)
	for id := 1; id <= 10; id++ {
		delta, err := o.PeekDeltaA(numeric(t, id, 1.0))
		require.NoError(t, err)
		assert.False(t, math.IsNaN(delta))
		assert.LessOrEqual(t, delta, prev+1e-9, "marginal of another duplicate must not increase")
		prev = delta
		require.NoError(t, o.Apply(&summary, numeric(t, id, 1.0), len(summary)))
	}
}
