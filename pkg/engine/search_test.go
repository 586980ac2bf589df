package engine

import (
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(EngineOptions{})
	require.NoError(t, err)
	return e
}

func TestNewEngine(t *testing.T) {
	e := testEngine(t)
	assert.Equal(t, DefaultBoardSize, e.BoardSize())
	assert.Equal(t, DefaultLimits(), e.Limits())
	assert.Equal(t, DefaultBoardSize, e.NewBoard().Size())

	e, err := NewEngine(EngineOptions{BoardSize: 10, Limits: &Limits{MaxLeaves: 5}})
	require.NoError(t, err)
	assert.Equal(t, 10, e.BoardSize())
	assert.Equal(t, Limits{MaxLeaves: 5}, e.Limits())

	_, err = NewEngine(EngineOptions{BoardSize: 9})
	assert.ErrorIs(t, err, ErrInvalidBoardSize)

	_, err = NewEngine(EngineOptions{Limits: &Limits{MaxMoves: -1}})
	assert.Error(t, err)
}

func TestSearchOpeningScenario(t *testing.T) {
	e := testEngine(t)
	b := openingBoard(t)

	result, err := e.Search(b, Material, Light, 1)
	require.NoError(t, err)
	require.Len(t, result.Leaves, 4)

	for i, m := range LegalMoves(b, Light) {
		assert.Equal(t, m, result.Leaves[i].Move)
		assert.Equal(t, EvaluationAfter(b, Material, m), result.Leaves[i].Eval)
	}
}

func TestSearchDepthZero(t *testing.T) {
	e := testEngine(t)

	for _, b := range []Board{openingBoard(t), captureBoard(t), e.NewBoard()} {
		result, err := e.Search(b, nil, Light, 0)
		require.NoError(t, err)
		assert.Empty(t, result.Leaves)
		assert.Empty(t, e.Rank(result, 3))
	}
}

func TestSearchBoardSizeMismatch(t *testing.T) {
	e, err := NewEngine(EngineOptions{BoardSize: 10})
	require.NoError(t, err)

	_, err = e.Search(openingBoard(t), nil, Light, 1)
	assert.ErrorIs(t, err, ErrInvalidBoardSize)
}

func TestSearchCapacityExceeded(t *testing.T) {
	e, err := NewEngine(EngineOptions{Limits: &Limits{MaxLeaves: 10}})
	require.NoError(t, err)

	_, err = e.Search(openingBoard(t), nil, Light, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Contains(t, err.Error(), "extracting leaves")
}

func TestRank(t *testing.T) {
	e := testEngine(t)

	result, err := e.Search(captureBoard(t), nil, Light, 2)
	require.NoError(t, err)

	ranked := e.Rank(result, 2)
	require.Len(t, ranked, 2)
	for _, seq := range ranked {
		first, ok := seq.First()
		require.True(t, ok)
		assert.Equal(t, Move{From: Coord{5, 1}, To: Coord{3, 2}}, first)
		assert.Equal(t, 20, seq.Eval)
	}

	assert.Nil(t, e.Rank(nil, 3))
}

func TestBestMove(t *testing.T) {
	e := testEngine(t)

	m, ok, err := e.BestMove(captureBoard(t), nil, Light, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Move{From: Coord{5, 1}, To: Coord{3, 2}}, m)

	// dark avoids the square where the light man could jump it
	b := testBoard(t, map[Coord]Piece{
		{2, 1}: darkMan,
		{4, 0}: lightMan,
	})
	m, ok, err = e.BestMove(b, nil, Dark, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Move{From: Coord{2, 1}, To: Coord{3, 2}}, m)
}

func TestBestMoveNothingToPlay(t *testing.T) {
	e := testEngine(t)

	_, ok, err := e.BestMove(openingBoard(t), nil, Light, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = e.BestMove(e.NewBoard(), nil, Dark, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateSearch(t *testing.T) {
	assert.NoError(t, ValidateSearch(1, Light, 1))
	assert.NoError(t, ValidateSearch(7, Dark, 0))

	err := ValidateSearch(0, Color(3), -1)
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 3)
	assert.Contains(t, err.Error(), "depth")
	assert.Contains(t, err.Error(), "side")
}

func TestSummarize(t *testing.T) {
	e := testEngine(t)

	result, err := e.Search(openingBoard(t), nil, Light, 2)
	require.NoError(t, err)
	s := Summarize(result)
	assert.Equal(t, 20, s.Nodes)
	assert.Equal(t, 16, s.Leaves)
	assert.Equal(t, 0, s.MinEval)
	assert.Equal(t, 0, s.MaxEval)
	assert.Zero(t, s.StdDevEval)

	result, err = e.Search(captureBoard(t), nil, Light, 1)
	require.NoError(t, err)
	s = Summarize(result)
	assert.Equal(t, Stats{Nodes: 1, Leaves: 1, MinEval: 20, MaxEval: 20, MeanEval: 20}, s)

	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestSummarizeSpread(t *testing.T) {
	result := &SearchResult{
		Tree:   buildTree(t, openingBoard(t), Light, 1),
		Leaves: leavesWithEvals(-10, 0, 10, 20),
	}
	s := Summarize(result)
	assert.Equal(t, -10, s.MinEval)
	assert.Equal(t, 20, s.MaxEval)
	assert.InDelta(t, 5.0, s.MeanEval, 1e-9)
	assert.InDelta(t, 12.9099, s.StdDevEval, 1e-4)
}

func TestTreeDOT(t *testing.T) {
	tree := buildTree(t, captureBoard(t), Light, 2)

	dot, err := TreeDOT(tree, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(dot), "digraph movetree"))
	for i := 0; i < tree.Len(); i++ {
		assert.Contains(t, dot, dotNodeName(NodeID(i)))
	}
	assert.Contains(t, dot, "[5][1] -> [3][2]")
	assert.Contains(t, dot, "box")
}
