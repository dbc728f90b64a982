package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvensic/submodsel/element"
	"github.com/arvensic/submodsel/oracle/coverage"
	"github.com/arvensic/submodsel/selector"
)

func tokens(t *testing.T, id int, weight float64, words ...string) element.Element {
	t.Helper()
	e, err := element.NewTokens(id, weight, words)
	require.NoError(t, err)

	return e
}

func TestStreamingGreedyRequiresHistory(t *testing.T) {
	o := coverage.New()
	_, err := selector.NewStreamingGreedy(2, o)
	assert.ErrorIs(t, err, selector.ErrHistoryRequired)
}

func TestStreamingGreedyFillsThenReplaces(t *testing.T) {
	o := coverage.New(coverage.WithTrackHistory())
	g, err := selector.NewStreamingGreedy(2, o)
	require.NoError(t, err)

	require.NoError(t, g.Feed(tokens(t, 0, 1, "a", "b")))
	require.NoError(t, g.Feed(tokens(t, 1, 1, "c", "d")))
	assert.Len(t, g.Summary(), 2)

	// A near-duplicate of an existing member carries little new coverage
	// and should not clear the 2x-of-minimum-contribution bar.
	require.NoError(t, g.Feed(tokens(t, 2, 1, "a", "b")))
	assert.Equal(t, 0, g.Summary()[0].ID)
	assert.Equal(t, 1, g.Summary()[1].ID)

	// A point covering entirely fresh, heavily-weighted tokens should win.
	require.NoError(t, g.Feed(tokens(t, 3, 50, "x", "y")))
	ids := []int{g.Summary()[0].ID, g.Summary()[1].ID}
	assert.Contains(t, ids, 3)
}
