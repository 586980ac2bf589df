package engine

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Leaf is the last node of an explored move sequence
type Leaf struct {
	Node NodeID
	Move Move
	Eval int
}

// LeafList contains every leaf of a move tree in depth-first order
type LeafList []Leaf

// Sequence is a ranked move sequence from the first ply to a leaf
type Sequence struct {
	Steps []Step
	Eval  int
}

// First returns the opening move of the sequence
func (s Sequence) First() (Move, bool) {
	if len(s.Steps) == 0 {
		return Move{}, false
	}
	return s.Steps[0].Move, true
}

// ExtractLeaves collects every non-root node without children, depth first.
// Nodes cut off by the search depth and nodes with no legal replies are
// both leaves. maxLeaves <= 0 means unbounded.
func ExtractLeaves(t *MoveTree, maxLeaves int) (LeafList, error) {
	var leaves LeafList
	var walk func(id NodeID) error
	walk = func(id NodeID) error {
		node := t.Node(id)
		if t.IsLeaf(id) {
			if maxLeaves > 0 && len(leaves) >= maxLeaves {
				return errors.Wrapf(ErrCapacityExceeded, "move tree has more than %d leaves", maxLeaves)
			}
			leaves = append(leaves, Leaf{Node: id, Move: node.Move, Eval: node.Eval})
			return nil
		}
		for _, child := range node.Children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(t.Root()); err != nil {
		return nil, err
	}
	return leaves, nil
}

// better reports whether a strictly improves on b for side
func better(a, b int, side Color) bool {
	if side == Light {
		return a > b
	}
	return a < b
}

// BestIndex returns the index of the best leaf for side that is not in chosen.
// Light maximizes and Dark minimizes the evaluation. On ties the first index
// wins. Returns -1 when no index is left.
func BestIndex(leaves LeafList, side Color, chosen []int) int {
	bestIndex := -1
	for i := range leaves {
		if slices.Contains(chosen, i) {
			continue
		}
		if bestIndex < 0 || better(leaves[i].Eval, leaves[bestIndex].Eval, side) {
			bestIndex = i
		}
	}
	return bestIndex
}

// TopK returns the k best sequences for side, best first.
// k is clamped to the number of leaves; k < 1 returns nil.
func TopK(t *MoveTree, leaves LeafList, side Color, k int) []Sequence {
	if k < 1 || !side.Valid() {
		return nil
	}
	if k > len(leaves) {
		k = len(leaves)
	}

	chosen := make([]int, 0, k)
	sequences := make([]Sequence, 0, k)
	for i := 0; i < k; i++ {
		idx := BestIndex(leaves, side, chosen)
		if idx < 0 {
			break
		}
		chosen = append(chosen, idx)
		sequences = append(sequences, Sequence{
			Steps: t.Path(leaves[idx].Node),
			Eval:  leaves[idx].Eval,
		})
	}
	return sequences
}

// DescribeCoord is the default coordinate description, [row][col]
func DescribeCoord(c Coord) string {
	return fmt.Sprintf("[%d][%d]", c.Row, c.Col)
}

// FormatMove writes a move as "from -> to"
func FormatMove(m Move, describe func(Coord) string) string {
	if describe == nil {
		describe = DescribeCoord
	}
	return describe(m.From) + " -> " + describe(m.To)
}

// FormatPath writes every step as {Side; from -> to}
func FormatPath(steps []Step, describe func(Coord) string) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = fmt.Sprintf("{%s; %s}", s.Mover, FormatMove(s.Move, describe))
	}
	return strings.Join(parts, ", ")
}
