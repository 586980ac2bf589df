// Package notation converts checkers boards to and from their text form.
//
// A position is written as one token per row separated by '/'. Each token
// lists the playable tiles of the row from left to right:
//
//	X  light man    K  light king
//	x  dark man     k  dark king
//
// Any other character is an empty tile, and a short token is padded with
// empty tiles. Format writes empty tiles as '-'.
package notation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/yourusername/ccengine/pkg/engine"
)

const (
	// RowSeparator separates row tokens
	RowSeparator = "/"
	// EmptyTile is written for unoccupied tiles
	EmptyTile = '-'
)

// StartPosition is the standard 8x8 opening position
const StartPosition = "xxxx/xxxx/xxxx/----/----/XXXX/XXXX/XXXX"

// ErrInvalidPosition is returned for malformed position strings
var ErrInvalidPosition = errors.New("invalid position")

// pieceFromCode converts a notation character to a piece
func pieceFromCode(code rune) (engine.Piece, bool) {
	switch code {
	case 'X':
		return engine.Piece{Color: engine.Light, Rank: engine.Man}, true
	case 'K':
		return engine.Piece{Color: engine.Light, Rank: engine.King}, true
	case 'x':
		return engine.Piece{Color: engine.Dark, Rank: engine.Man}, true
	case 'k':
		return engine.Piece{Color: engine.Dark, Rank: engine.King}, true
	default:
		return engine.Piece{}, false
	}
}

// codeFromPiece converts a piece to its notation character
func codeFromPiece(p engine.Piece) byte {
	code := byte('x')
	if p.Rank == engine.King {
		code = 'k'
	}
	if p.Color == engine.Light {
		code -= 'a' - 'A'
	}
	return code
}

// Parse decodes a position string into a board.
// size 0 takes the board size from the number of rows.
func Parse(position string, size int) (engine.Board, error) {
	position = strings.TrimSpace(position)
	if position == "" {
		return engine.Board{}, errors.Wrap(ErrInvalidPosition, "empty position")
	}

	rows := strings.Split(position, RowSeparator)
	if size == 0 {
		size = len(rows)
	}
	if len(rows) != size {
		return engine.Board{}, errors.Wrapf(ErrInvalidPosition, "got %d rows, want %d", len(rows), size)
	}

	board, err := engine.NewBoard(size)
	if err != nil {
		return engine.Board{}, errors.Wrap(err, "creating board")
	}

	for row, token := range rows {
		token = strings.TrimSpace(token)
		if len(token) > board.Width() {
			return engine.Board{}, errors.Wrapf(ErrInvalidPosition, "row %d has %d tiles, want at most %d", row, len(token), board.Width())
		}
		for col, code := range token {
			if p, ok := pieceFromCode(code); ok {
				board.Place(engine.Coord{Row: row, Col: col}, p)
			}
		}
	}
	return board, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(position string) engine.Board {
	b, err := Parse(position, 0)
	if err != nil {
		panic(err)
	}
	return b
}

// Format encodes a board as a position string
func Format(b engine.Board) string {
	rows := make([]string, b.Size())
	for row := 0; row < b.Size(); row++ {
		token := make([]byte, b.Width())
		for col := 0; col < b.Width(); col++ {
			t := b.At(engine.Coord{Row: row, Col: col})
			if t.Occupied {
				token[col] = codeFromPiece(t.Piece)
			} else {
				token[col] = EmptyTile
			}
		}
		rows[row] = string(token)
	}
	return strings.Join(rows, RowSeparator)
}

// Describe returns the [row][col] description of a coordinate
func Describe(c engine.Coord) string {
	return engine.DescribeCoord(c)
}

// ParseMove reads a move written as "[r][c] -> [r][c]". Whitespace is ignored.
func ParseMove(s string) (engine.Move, error) {
	compact := strings.Join(strings.Fields(s), "")

	var m engine.Move
	n, err := fmt.Sscanf(compact, "[%d][%d]->[%d][%d]", &m.From.Row, &m.From.Col, &m.To.Row, &m.To.Col)
	if err != nil || n != 4 {
		return engine.Move{}, errors.Errorf("invalid move %q: want [row][col] -> [row][col]", s)
	}
	if canonical := strings.Join(strings.Fields(engine.FormatMove(m, nil)), ""); canonical != compact {
		return engine.Move{}, errors.Errorf("invalid move %q: unexpected trailing text", s)
	}
	return m, nil
}

// ParseMoveList reads moves separated by ';' or ','. Empty entries are skipped.
func ParseMoveList(s string) ([]engine.Move, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
	moves := make([]engine.Move, 0, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f) == "" {
			continue
		}
		m, err := ParseMove(f)
		if err != nil {
			return nil, errors.Wrapf(err, "move %d", i+1)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// Render draws the full board with light pieces as w/W and dark pieces as b/B
func Render(b engine.Board) string {
	var sb strings.Builder
	line := strings.Repeat("----", b.Size()) + "\n"

	sb.WriteString("GAME BOARD\n")
	for row := 0; row < b.Size(); row++ {
		sb.WriteString(line)
		for col := 0; col < b.Size(); col++ {
			cell := byte(' ')
			// playable squares are those where row and column parity differ
			if row%2 != col%2 {
				t := b.At(engine.Coord{Row: row, Col: col / 2})
				if t.Occupied {
					cell = renderPiece(t.Piece)
				}
			}
			sb.WriteByte(cell)
			sb.WriteString(" | ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderPiece(p engine.Piece) byte {
	code := byte('w')
	if p.Color == engine.Dark {
		code = 'b'
	}
	if p.Rank == engine.King {
		code -= 'a' - 'A'
	}
	return code
}
