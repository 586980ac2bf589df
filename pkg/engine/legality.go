package engine

// DiagonalStatus describes the tiles strictly between two coordinates
type DiagonalStatus int

const (
	DiagonalEmpty        DiagonalStatus = iota // no pieces in between
	DiagonalOpponentOnly                       // only opponent pieces in between
	DiagonalBlocked                            // at least one own piece in between
)

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// trueCol maps a packed column to its column on the full board.
// Playable squares on even rows sit one square to the right of those on odd rows.
func trueCol(c Coord) int {
	if c.Row%2 == 0 {
		return c.Col*2 + 1
	}
	return c.Col * 2
}

// IsDiagonal returns true if c1 and c2 lie on a shared diagonal.
// A coordinate is not diagonal to itself.
func IsDiagonal(c1, c2 Coord) bool {
	if c1 == c2 {
		return false
	}
	return abs(c1.Row-c2.Row) == abs(trueCol(c1)-trueCol(c2))
}

// isBetween reports whether c lies strictly between c1 and c2 on their diagonal
func isBetween(c, c1, c2 Coord) bool {
	rowBetween := (c1.Row > c.Row && c2.Row < c.Row) || (c1.Row < c.Row && c2.Row > c.Row)
	return rowBetween && IsDiagonal(c, c1) && IsDiagonal(c, c2)
}

// between returns the coordinates strictly between from and to, row-major
func between(b Board, from, to Coord) []Coord {
	lo, hi := from.Row, to.Row
	if lo > hi {
		lo, hi = hi, lo
	}
	var coords []Coord
	for row := lo + 1; row < hi; row++ {
		for col := 0; col < b.Width(); col++ {
			c := Coord{Row: row, Col: col}
			if isBetween(c, from, to) {
				coords = append(coords, c)
			}
		}
	}
	return coords
}

// GetDiagonalStatus scans the tiles strictly between from and to.
// The endpoints themselves are never inspected.
func GetDiagonalStatus(b Board, color Color, from, to Coord) DiagonalStatus {
	status := DiagonalEmpty
	for _, c := range between(b, from, to) {
		t := b.At(c)
		if !t.Occupied {
			continue
		}
		if t.Piece.Color == color {
			return DiagonalBlocked
		}
		status = DiagonalOpponentOnly
	}
	return status
}

// PawnMovePossible checks a single forward diagonal step.
// Light men move toward row 0, dark men toward the last row.
func PawnMovePossible(b Board, from, to Coord) bool {
	rowDifference := 1
	if b.At(from).Piece.Color == Dark {
		rowDifference = -1
	}
	return from.Row == to.Row+rowDifference && IsDiagonal(from, to)
}

// PawnCapturePossible checks a two-row diagonal jump over opponent pieces only.
// Men may capture in either row direction.
func PawnCapturePossible(b Board, from, to Coord) bool {
	color := b.At(from).Piece.Color
	return abs(from.Row-to.Row) == 2 &&
		IsDiagonal(from, to) &&
		GetDiagonalStatus(b, color, from, to) == DiagonalOpponentOnly
}

// KingMovePossible checks a move or jump of any distance along a diagonal
// that holds none of the king's own pieces
func KingMovePossible(b Board, from, to Coord) bool {
	color := b.At(from).Piece.Color
	return IsDiagonal(from, to) && GetDiagonalStatus(b, color, from, to) != DiagonalBlocked
}

// MovePossible determines whether the piece at from may legally reach to
func MovePossible(b Board, from, to Coord) bool {
	if !b.InBounds(from) || !b.InBounds(to) {
		return false
	}
	// from must be occupied and to must be empty
	if !b.At(from).Occupied || b.At(to).Occupied {
		return false
	}

	switch b.At(from).Piece.Rank {
	case Man:
		return PawnMovePossible(b, from, to) || PawnCapturePossible(b, from, to)
	case King:
		return KingMovePossible(b, from, to)
	default:
		return false
	}
}

// IsCaptureAt reports whether moving from -> to jumps only opponent pieces of color
func IsCaptureAt(b Board, color Color, from, to Coord) bool {
	return GetDiagonalStatus(b, color, from, to) == DiagonalOpponentOnly
}

// IsCapture reports whether m jumps over opponent pieces for the piece at m.From
func IsCapture(b Board, m Move) bool {
	t := b.At(m.From)
	if !t.Occupied {
		return false
	}
	return IsCaptureAt(b, t.Piece.Color, m.From, m.To)
}

// ApplyMove makes a move on the board in place.
// Returns false and leaves the board untouched if the move is not possible.
// Every piece between the endpoints is removed, which only matters for
// long king jumps over several pieces.
func (b Board) ApplyMove(m Move) bool {
	if !MovePossible(b, m.From, m.To) {
		return false
	}

	p := b.At(m.From).Piece
	for _, c := range between(b, m.From, m.To) {
		b.Clear(c)
	}
	b.Clear(m.From)
	b.Place(m.To, p)
	return true
}
