package engine

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

const dotGraphName = "movetree"

// TreeDOT renders a move tree in Graphviz DOT format.
// Each node is labelled with its mover, move and evaluation.
func TreeDOT(t *MoveTree, describe func(Coord) string) (string, error) {
	if describe == nil {
		describe = DescribeCoord
	}

	g := gographviz.NewGraph()
	if err := g.SetName(dotGraphName); err != nil {
		return "", errors.Wrap(err, "naming graph")
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.Wrap(err, "setting graph direction")
	}

	for i := 0; i < t.Len(); i++ {
		id := NodeID(i)
		node := t.Node(id)
		label := fmt.Sprintf("start (%s to move)", t.Side())
		if id != t.Root() {
			label = fmt.Sprintf("%s %s\\neval %d", node.Mover, FormatMove(node.Move, describe), node.Eval)
		}
		attrs := map[string]string{"label": `"` + label + `"`}
		if t.IsLeaf(id) {
			attrs["shape"] = "box"
		}
		if err := g.AddNode(dotGraphName, dotNodeName(id), attrs); err != nil {
			return "", errors.Wrapf(err, "adding node %d", id)
		}
		if node.Parent != NoNode {
			if err := g.AddEdge(dotNodeName(node.Parent), dotNodeName(id), true, nil); err != nil {
				return "", errors.Wrapf(err, "adding edge to node %d", id)
			}
		}
	}
	return g.String(), nil
}

func dotNodeName(id NodeID) string {
	return "n" + strconv.Itoa(int(id))
}
