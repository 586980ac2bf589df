package engine

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// SearchResult contains the explored move tree and its leaves
type SearchResult struct {
	Tree   *MoveTree
	Leaves LeafList
	Side   Color
	Depth  int
}

// ValidateSearch reports every problem with the search parameters at once.
// k is ignored when it is 0.
func ValidateSearch(depth int, side Color, k int) error {
	var errs *multierror.Error
	if depth < 1 {
		errs = multierror.Append(errs, fmt.Errorf("depth must be at least 1, got %d", depth))
	}
	if !side.Valid() {
		errs = multierror.Append(errs, fmt.Errorf("side must be 0 or 1, got %d", int(side)))
	}
	if k < 0 {
		errs = multierror.Append(errs, fmt.Errorf("count must be at least 1, got %d", k))
	}
	return errs.ErrorOrNil()
}

// Search builds the move tree for side to the given depth and extracts its leaves.
// A nil eval uses Material. Invalid parameters produce an empty result.
func (e *Engine) Search(b Board, eval EvalFunc, side Color, depth int) (*SearchResult, error) {
	if b.Size() != e.boardSize {
		return nil, errors.Wrapf(ErrInvalidBoardSize, "engine searches %dx%d boards, got %d", e.boardSize, e.boardSize, b.Size())
	}

	tree, err := BuildTree(b, eval, side, depth, e.limits)
	if err != nil {
		return nil, errors.Wrap(err, "building move tree")
	}
	leaves, err := ExtractLeaves(tree, e.limits.MaxLeaves)
	if err != nil {
		return nil, errors.Wrap(err, "extracting leaves")
	}

	return &SearchResult{
		Tree:   tree,
		Leaves: leaves,
		Side:   side,
		Depth:  depth,
	}, nil
}

// Rank returns the k best sequences of a search result, best first
func (e *Engine) Rank(result *SearchResult, k int) []Sequence {
	if result == nil {
		return nil
	}
	return TopK(result.Tree, result.Leaves, result.Side, k)
}

// BestMove returns the first move of the best sequence for side.
// The boolean is false when there is nothing to play.
func (e *Engine) BestMove(b Board, eval EvalFunc, side Color, depth int) (Move, bool, error) {
	result, err := e.Search(b, eval, side, depth)
	if err != nil {
		return Move{}, false, err
	}

	best := BestIndex(result.Leaves, side, nil)
	if best < 0 {
		return Move{}, false, nil
	}
	steps := result.Tree.Path(result.Leaves[best].Node)
	if len(steps) == 0 {
		return Move{}, false, nil
	}
	return steps[0].Move, true, nil
}
