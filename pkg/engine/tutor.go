package engine

import (
	"github.com/pkg/errors"
)

// ErrIllegalMove is returned when a reviewed move is not legal in the position.
var ErrIllegalMove = errors.New("move is not legal in this position")

// SkillType rates a played move against the best one found by the search.
type SkillType int

const (
	SkillVeryBad  SkillType = iota // Blunder: loses a king or more
	SkillBad                       // Error: loses two men or more
	SkillDoubtful                  // Doubtful: loses a man
	SkillNone                      // Good or best move
)

// String returns the display name of the skill type.
func (s SkillType) String() string {
	return [...]string{"Very Bad", "Bad", "Doubtful", "None"}[s]
}

// Abbr returns the abbreviated notation (??, ?, ?!).
func (s SkillType) Abbr() string {
	return [...]string{"??", "?", "?!", ""}[s]
}

// SkillThresholds are the evaluation losses, in material units, at which a
// move drops to the next skill rating.
var SkillThresholds = [4]int{
	int(King), // very bad
	2 * int(Man),
	int(Man),
	0,
}

// ClassifySkill returns the skill rating for an evaluation loss.
// loss is positive for moves worse than the best.
func ClassifySkill(loss int) SkillType {
	if loss >= SkillThresholds[0] {
		return SkillVeryBad
	} else if loss >= SkillThresholds[1] {
		return SkillBad
	} else if loss >= SkillThresholds[2] {
		return SkillDoubtful
	}
	return SkillNone
}

// FirstMoveValue is the best leaf evaluation reachable after one first move.
type FirstMoveValue struct {
	Move Move
	Eval int
}

// MoveReview compares a played move with the best first move of a search.
type MoveReview struct {
	Move     Move             // The move that was played
	BestMove Move             // First move of the best sequence
	Eval     int              // Best leaf evaluation reachable after Move
	BestEval int              // Best leaf evaluation overall
	Loss     int              // Evaluation given up, from the mover's point of view
	Skill    SkillType        // Skill rating
	IsForced bool             // True if only one legal move
	Moves    []FirstMoveValue // Every legal first move, best first
}

// FirstMoveValues groups the leaves of a search by the first move leading to
// them and keeps the best evaluation of each group. Moves are returned best
// first; ties keep discovery order.
func FirstMoveValues(result *SearchResult) []FirstMoveValue {
	if result == nil || result.Tree == nil {
		return nil
	}
	t := result.Tree

	children := t.Node(t.Root()).Children
	index := make(map[NodeID]int, len(children))
	values := make([]FirstMoveValue, 0, len(children))
	seen := make([]bool, len(children))
	for i, id := range children {
		index[id] = i
		values = append(values, FirstMoveValue{Move: t.Node(id).Move})
	}

	for _, leaf := range result.Leaves {
		first := leaf.Node
		for t.Node(first).Parent != t.Root() {
			first = t.Node(first).Parent
		}
		i := index[first]
		if !seen[i] || better(leaf.Eval, values[i].Eval, result.Side) {
			values[i].Eval = leaf.Eval
			seen[i] = true
		}
	}

	// stable insertion sort keeps discovery order among equal values
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && better(values[j].Eval, values[j-1].Eval, result.Side); j-- {
			values[j], values[j-1] = values[j-1], values[j]
		}
	}
	return values
}

// ReviewMove searches the position and rates the played move by how much
// of the best reachable evaluation it gives up.
func (e *Engine) ReviewMove(b Board, eval EvalFunc, side Color, depth int, played Move) (*MoveReview, error) {
	if err := ValidateSearch(depth, side, 0); err != nil {
		return nil, err
	}

	legal := LegalMoves(b, side)
	found := false
	for _, m := range legal {
		if m == played {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.Wrapf(ErrIllegalMove, "%s for %s", FormatMove(played, nil), side)
	}

	result, err := e.Search(b, eval, side, depth)
	if err != nil {
		return nil, errors.Wrap(err, "reviewing move")
	}

	values := FirstMoveValues(result)
	review := &MoveReview{
		Move:     played,
		BestMove: values[0].Move,
		BestEval: values[0].Eval,
		IsForced: len(legal) == 1,
		Moves:    values,
	}
	for _, v := range values {
		if v.Move == played {
			review.Eval = v.Eval
			break
		}
	}

	review.Loss = review.BestEval - review.Eval
	if side == Dark {
		review.Loss = -review.Loss
	}
	review.Skill = ClassifySkill(review.Loss)
	return review, nil
}
