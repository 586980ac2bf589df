package engine

// Move is a single hop of one piece from one tile to another
type Move struct {
	From Coord
	To   Coord
}

// ScoredMove is a legal move together with the evaluation after it
type ScoredMove struct {
	Move    Move
	Capture bool
	Eval    int
}

// MovesFrom generates every move the piece at from can make.
// Destinations are tried in row-major order. With mustCapture set only
// captures are kept.
func MovesFrom(b Board, from Coord, mustCapture bool) []Move {
	var moves []Move
	color := b.At(from).Piece.Color

	for _, to := range b.Coords() {
		if !MovePossible(b, from, to) {
			continue
		}
		if mustCapture && !IsCaptureAt(b, color, from, to) {
			continue
		}
		moves = append(moves, Move{From: from, To: to})
	}
	return moves
}

// MovesFor generates the moves of every piece of the given color
func MovesFor(b Board, color Color, mustCapture bool) []Move {
	var moves []Move
	// checking for moves from all tiles holding a piece of color
	for _, from := range b.Pieces(color) {
		moves = append(moves, MovesFrom(b, from, mustCapture)...)
	}
	return moves
}

// HasCapture returns true if color has at least one capture available
func HasCapture(b Board, color Color) bool {
	for _, m := range MovesFor(b, color, false) {
		if IsCaptureAt(b, color, m.From, m.To) {
			return true
		}
	}
	return false
}

// LegalMoves generates all legal moves for color, enforcing mandatory capture:
// when any capture exists, only captures are returned.
func LegalMoves(b Board, color Color) []Move {
	return MovesFor(b, color, HasCapture(b, color))
}

// EvaluationAfter returns the evaluation of the board after m.
// The board itself is not modified.
func EvaluationAfter(b Board, eval EvalFunc, m Move) int {
	next := b.Clone()
	next.ApplyMove(m)
	return eval(next)
}

// ScoredMoves lists the legal moves for color with their resulting evaluation
func ScoredMoves(b Board, eval EvalFunc, color Color) []ScoredMove {
	if eval == nil {
		eval = Material
	}
	moves := LegalMoves(b, color)
	scored := make([]ScoredMove, len(moves))
	for i, m := range moves {
		scored[i] = ScoredMove{
			Move:    m,
			Capture: IsCaptureAt(b, color, m.From, m.To),
			Eval:    EvaluationAfter(b, eval, m),
		}
	}
	return scored
}
