package engine

import (
	"github.com/pkg/errors"
)

// UnsetEval marks the evaluation of the root node, which has no move
const UnsetEval = -999

// NodeID addresses a node inside a MoveTree
type NodeID int32

// NoNode is the parent of the root
const NoNode NodeID = -1

// rootMove is the placeholder move stored on the root
var rootMove = Move{From: Coord{0, 0}, To: Coord{-1, -1}}

// Node is one ply of an explored move sequence
type Node struct {
	Move     Move
	Eval     int   // evaluation after Move
	Mover    Color // side that made Move
	Depth    int   // plies from the root
	Parent   NodeID
	Children []NodeID // in discovery order
}

// MoveTree holds every move sequence explored by one search.
// Nodes live in a single arena and are addressed by index; the root is node 0.
type MoveTree struct {
	nodes  []Node
	side   Color
	depth  int
	limits Limits
}

// Root returns the id of the sentinel root
func (t *MoveTree) Root() NodeID {
	return 0
}

// Node returns the node with the given id
func (t *MoveTree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Len returns the number of nodes, root included
func (t *MoveTree) Len() int {
	return len(t.nodes)
}

// Side returns the side the tree was built for
func (t *MoveTree) Side() Color {
	return t.side
}

// Depth returns the requested search depth
func (t *MoveTree) Depth() int {
	return t.depth
}

// IsLeaf reports whether a non-root node has no expanded children
func (t *MoveTree) IsLeaf(id NodeID) bool {
	return id != t.Root() && len(t.nodes[id].Children) == 0
}

func (t *MoveTree) add(parent NodeID, m Move, eval int, mover Color) (NodeID, error) {
	if t.limits.MaxNodes > 0 && len(t.nodes) >= t.limits.MaxNodes {
		return NoNode, errors.Wrapf(ErrCapacityExceeded, "move tree holds more than %d nodes", t.limits.MaxNodes)
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		Move:   m,
		Eval:   eval,
		Mover:  mover,
		Depth:  t.nodes[parent].Depth + 1,
		Parent: parent,
	})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id, nil
}

// BuildTree explores every legal move sequence of up to depth plies for side.
// A depth below 1 or an invalid side yields a tree holding only the root.
func BuildTree(b Board, eval EvalFunc, side Color, depth int, limits Limits) (*MoveTree, error) {
	if eval == nil {
		eval = Material
	}
	t := &MoveTree{
		nodes:  make([]Node, 1, 64),
		side:   side,
		depth:  depth,
		limits: limits,
	}
	t.nodes[0] = Node{
		Move:   rootMove,
		Eval:   UnsetEval,
		Mover:  side.Opponent(),
		Parent: NoNode,
	}

	if depth <= 0 || !side.Valid() {
		return t, nil
	}
	if err := t.expand(t.Root(), b, eval, side, depth); err != nil {
		return nil, err
	}
	return t, nil
}

// expand builds the children of parent from the position on b.
// A side that had a capture available keeps the move for the next ply.
func (t *MoveTree) expand(parent NodeID, b Board, eval EvalFunc, color Color, depth int) error {
	if depth == 0 {
		return nil
	}

	capture := HasCapture(b, color)
	nextColor := color.Opponent()
	if capture {
		nextColor = color
	}

	moves := MovesFor(b, color, capture)
	if t.limits.MaxMoves > 0 && len(moves) > t.limits.MaxMoves {
		return errors.Wrapf(ErrCapacityExceeded, "position has %d moves, limit is %d", len(moves), t.limits.MaxMoves)
	}

	for _, m := range moves {
		// every sibling starts from a fresh copy of the parent position
		next := b.Clone()
		next.ApplyMove(m)

		id, err := t.add(parent, m, eval(next), color)
		if err != nil {
			return err
		}
		if err := t.expand(id, next, eval, nextColor, depth-1); err != nil {
			return err
		}
	}
	return nil
}

// Step is one ply of a move sequence
type Step struct {
	Mover Color
	Move  Move
	Eval  int
}

// Path returns the plies leading from the root to id, first ply first.
// The root itself is not part of any path.
func (t *MoveTree) Path(id NodeID) []Step {
	if id <= t.Root() || int(id) >= len(t.nodes) {
		return nil
	}
	steps := make([]Step, t.nodes[id].Depth)
	for n := id; n != t.Root(); n = t.nodes[n].Parent {
		node := &t.nodes[n]
		steps[node.Depth-1] = Step{Mover: node.Mover, Move: node.Move, Eval: node.Eval}
	}
	return steps
}
