package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle/gaussian"
	"github.com/arvensic/submodsel/selector"
)

func numeric(t *testing.T, id int, coords ...float64) element.Element {
	t.Helper()
	e, err := element.NewNumeric(id, coords)
	require.NoError(t, err)

	return e
}

// Scenario (b): GK, k=2, offline-greedy over the unit-square corners picks
// id=0 (first-best tie-break among equal corners) then the diagonally
// opposite corner id=3.
func TestOfflineGreedyUnitSquare(t *testing.T) {
	o, err := gaussian.New(2, gaussian.WithCapacity(2))
	require.NoError(t, err)
	g, err := selector.NewOfflineGreedy(2, o)
	require.NoError(t, err)

	dataset := []element.Element{
		numeric(t, 0, 0, 0),
		numeric(t, 1, 1, 0),
		numeric(t, 2, 0, 1),
		numeric(t, 3, 1, 1),
	}
	require.NoError(t, g.Run(dataset))

	summary := g.Summary()
	require.Len(t, summary, 2)
	assert.Equal(t, 0, summary[0].ID)
	assert.Equal(t, 3, summary[1].ID)
}

// Scenario (f): OfflineGreedy.Feed is fatal — it never supports streaming.
func TestOfflineGreedyFeedUnsupported(t *testing.T) {
	o, err := gaussian.New(2)
	require.NoError(t, err)
	g, err := selector.NewOfflineGreedy(2, o)
	require.NoError(t, err)

	err = g.Feed(numeric(t, 0, 0, 0))
	assert.ErrorIs(t, err, selector.ErrUnsupportedStreaming)
}

func TestOfflineGreedyBadK(t *testing.T) {
	o, err := gaussian.New(2)
	require.NoError(t, err)
	_, err = selector.NewOfflineGreedy(0, o)
	assert.ErrorIs(t, err, selector.ErrBadK)
}

// Scenario (a): empty dataset leaves S empty with value 0 and no queries
// against the caller's own oracle handle (the selector clones it).
func TestOfflineGreedyEmptyDataset(t *testing.T) {
	o, err := gaussian.New(3, gaussian.WithCapacity(10))
	require.NoError(t, err)
	g, err := selector.NewOfflineGreedy(10, o)
	require.NoError(t, err)

	require.NoError(t, g.Run(nil))
	assert.Equal(t, 0.0, g.ValueS())
	assert.Empty(t, g.Summary())
	assert.Equal(t, int64(0), o.QueryCount(), "selector must operate on its own clone")
}
