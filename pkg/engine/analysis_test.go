package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leavesWithEvals(evals ...int) LeafList {
	leaves := make(LeafList, len(evals))
	for i, e := range evals {
		leaves[i] = Leaf{Node: NodeID(i + 1), Eval: e}
	}
	return leaves
}

// advancement rewards light men for moving up and dark men for moving down,
// so sibling sequences get different scores
func advancement(b Board) int {
	score := Material(b)
	for _, c := range b.Coords() {
		tile := b.At(c)
		if !tile.Occupied {
			continue
		}
		if tile.Piece.Color == Light {
			score += b.Size() - c.Row + c.Col
		} else {
			score -= c.Row + 1
		}
	}
	return score
}

func TestExtractLeavesDepthFirst(t *testing.T) {
	tree := buildTree(t, openingBoard(t), Light, 2)

	leaves, err := ExtractLeaves(tree, 0)
	require.NoError(t, err)
	require.Len(t, leaves, 16)

	// leaves follow the tree: all replies to the first move, then the second...
	var want []NodeID
	for _, first := range tree.Node(tree.Root()).Children {
		want = append(want, tree.Node(first).Children...)
	}
	for i, l := range leaves {
		assert.Equal(t, want[i], l.Node)
		assert.Equal(t, tree.Node(l.Node).Move, l.Move)
		assert.Equal(t, tree.Node(l.Node).Eval, l.Eval)
	}
}

func TestExtractLeavesCountsTerminalNodes(t *testing.T) {
	for _, b := range []Board{openingBoard(t), captureBoard(t)} {
		tree := buildTree(t, b, Light, 3)
		leaves, err := ExtractLeaves(tree, 0)
		require.NoError(t, err)

		terminal := 0
		for i := 0; i < tree.Len(); i++ {
			if tree.IsLeaf(NodeID(i)) {
				terminal++
			}
		}
		assert.Equal(t, terminal, len(leaves))
	}
}

func TestExtractLeavesDepthZero(t *testing.T) {
	tree := buildTree(t, openingBoard(t), Light, 0)
	leaves, err := ExtractLeaves(tree, 0)
	require.NoError(t, err)
	assert.Empty(t, leaves)
}

func TestExtractLeavesCapacity(t *testing.T) {
	tree := buildTree(t, openingBoard(t), Light, 2)
	_, err := ExtractLeaves(tree, 15)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	leaves, err := ExtractLeaves(tree, 16)
	require.NoError(t, err)
	assert.Len(t, leaves, 16)
}

func TestBestIndex(t *testing.T) {
	leaves := leavesWithEvals(5, 7, 7, 3, 3)

	tests := []struct {
		name   string
		side   Color
		chosen []int
		want   int
	}{
		{"light maximizes", Light, nil, 1},
		{"dark minimizes", Dark, nil, 3},
		{"light skips chosen", Light, []int{1}, 2},
		{"dark skips chosen", Dark, []int{3}, 4},
		{"first leaf chosen", Light, []int{0, 1, 2}, 3},
		{"everything chosen", Light, []int{0, 1, 2, 3, 4}, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BestIndex(leaves, tc.side, tc.chosen))
		})
	}

	assert.Equal(t, -1, BestIndex(nil, Light, nil))
}

func TestTopKReturnsEveryLeafOnce(t *testing.T) {
	for _, side := range []Color{Light, Dark} {
		tree, err := BuildTree(openingBoard(t), advancement, side, 3, DefaultLimits())
		require.NoError(t, err)
		leaves, err := ExtractLeaves(tree, 0)
		require.NoError(t, err)

		ranked := TopK(tree, leaves, side, len(leaves))
		require.Len(t, ranked, len(leaves))

		seen := make(map[NodeID]bool)
		for i, seq := range ranked {
			require.Len(t, seq.Steps, 3)
			last := seq.Steps[len(seq.Steps)-1]
			assert.Equal(t, seq.Eval, last.Eval)
			assert.Equal(t, side, seq.Steps[0].Mover)

			// identify the leaf through its path
			id := findLeaf(t, tree, seq.Steps)
			assert.False(t, seen[id], "leaf %d ranked twice", id)
			seen[id] = true

			if i > 0 {
				prev := ranked[i-1].Eval
				if side == Light {
					assert.GreaterOrEqual(t, prev, seq.Eval)
				} else {
					assert.LessOrEqual(t, prev, seq.Eval)
				}
			}
		}
	}
}

// findLeaf follows a sequence of steps down from the root
func findLeaf(t *testing.T, tree *MoveTree, steps []Step) NodeID {
	t.Helper()
	id := tree.Root()
	for _, s := range steps {
		found := NoNode
		for _, child := range tree.Node(id).Children {
			if tree.Node(child).Move == s.Move {
				found = child
				break
			}
		}
		require.NotEqual(t, NoNode, found, "step %v not in tree", s.Move)
		id = found
	}
	return id
}

func TestTopKClampsCount(t *testing.T) {
	tree := buildTree(t, openingBoard(t), Light, 1)
	leaves, err := ExtractLeaves(tree, 0)
	require.NoError(t, err)

	assert.Len(t, TopK(tree, leaves, Light, 10), 4)
	assert.Nil(t, TopK(tree, leaves, Light, 0))
	assert.Nil(t, TopK(tree, leaves, Light, -3))
	assert.Nil(t, TopK(tree, leaves, Color(5), 2))
}

func TestTopKTiesKeepDiscoveryOrder(t *testing.T) {
	tree := buildTree(t, openingBoard(t), Light, 1)
	leaves, err := ExtractLeaves(tree, 0)
	require.NoError(t, err)

	ranked := TopK(tree, leaves, Light, 4)
	legal := LegalMoves(openingBoard(t), Light)
	for i, seq := range ranked {
		first, ok := seq.First()
		require.True(t, ok)
		assert.Equal(t, legal[i], first)
	}
}

func TestFormatPath(t *testing.T) {
	steps := []Step{
		{Mover: Light, Move: Move{From: Coord{5, 1}, To: Coord{3, 2}}},
		{Mover: Light, Move: Move{From: Coord{3, 2}, To: Coord{2, 1}}},
		{Mover: Dark, Move: Move{From: Coord{0, 0}, To: Coord{1, 0}}},
	}

	got := FormatPath(steps, nil)
	assert.Equal(t, "{White; [5][1] -> [3][2]}, {White; [3][2] -> [2][1]}, {Black; [0][0] -> [1][0]}", got)

	upper := FormatPath(steps[:1], func(c Coord) string {
		return strings.Repeat("*", c.Row)
	})
	assert.Equal(t, "{White; ***** -> ***}", upper)
}
