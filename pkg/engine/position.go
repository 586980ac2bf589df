// Package engine provides the public API for the checkers move-search engine.
package engine

import (
	"github.com/pkg/errors"
)

// DefaultBoardSize is the standard 8x8 draughts board
const DefaultBoardSize = 8

// MaxBoardSize bounds the board so coordinates stay printable with two digits
const MaxBoardSize = 26

// ErrInvalidBoardSize is returned when a board size is odd or out of range
var ErrInvalidBoardSize = errors.New("invalid board size")

// Color identifies a side. Light (0) benefits from positive evaluations,
// Dark (1) from negative ones.
type Color int

const (
	Light Color = iota
	Dark
)

// Opponent returns the other side
func (c Color) Opponent() Color {
	return 1 - c
}

// Valid reports whether c is one of the two sides
func (c Color) Valid() bool {
	return c == Light || c == Dark
}

func (c Color) String() string {
	switch c {
	case Light:
		return "White"
	case Dark:
		return "Black"
	default:
		return "Unknown"
	}
}

// Rank is the piece type. The numeric value doubles as the material weight.
type Rank int

const (
	Man  Rank = 10
	King Rank = 100
)

// Piece is a checker of a given color and rank
type Piece struct {
	Color Color
	Rank  Rank
}

// Value returns the material weight of the piece
func (p Piece) Value() int {
	return int(p.Rank)
}

// Coord addresses a playable tile. Col indexes only the playable half of
// the row, so it ranges over [0, size/2).
type Coord struct {
	Row int
	Col int
}

// Tile is a playable square; Piece is meaningful only when Occupied is set
type Tile struct {
	Occupied bool
	Piece    Piece
}

// Board is a packed size x size/2 grid of playable tiles.
// The zero value is not usable; create boards with NewBoard.
type Board struct {
	size  int
	tiles []Tile
}

// NewBoard creates an empty board with the given dimension
func NewBoard(size int) (Board, error) {
	if size < 2 || size > MaxBoardSize || size%2 != 0 {
		return Board{}, errors.Wrapf(ErrInvalidBoardSize, "size %d", size)
	}
	return Board{
		size:  size,
		tiles: make([]Tile, size*size/2),
	}, nil
}

// Size returns the number of rows (and full columns) of the board
func (b Board) Size() int {
	return b.size
}

// Width returns the number of playable tiles per row
func (b Board) Width() int {
	return b.size / 2
}

// InBounds reports whether c addresses a playable tile
func (b Board) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < b.size && c.Col >= 0 && c.Col < b.size/2
}

func (b Board) index(c Coord) int {
	return c.Row*(b.size/2) + c.Col
}

// At returns the tile at c. Out-of-board coordinates read as empty tiles.
func (b Board) At(c Coord) Tile {
	if !b.InBounds(c) {
		return Tile{}
	}
	return b.tiles[b.index(c)]
}

// Place puts p on the tile at c, replacing whatever was there
func (b Board) Place(c Coord, p Piece) {
	if b.InBounds(c) {
		b.tiles[b.index(c)] = Tile{Occupied: true, Piece: p}
	}
}

// Clear empties the tile at c
func (b Board) Clear(c Coord) {
	if b.InBounds(c) {
		b.tiles[b.index(c)].Occupied = false
	}
}

// Clone returns an independent copy of the board
func (b Board) Clone() Board {
	tiles := make([]Tile, len(b.tiles))
	copy(tiles, b.tiles)
	return Board{size: b.size, tiles: tiles}
}

// Coords returns every playable coordinate in row-major order
func (b Board) Coords() []Coord {
	coords := make([]Coord, 0, len(b.tiles))
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size/2; col++ {
			coords = append(coords, Coord{Row: row, Col: col})
		}
	}
	return coords
}

// Pieces returns the coordinates of every piece of the given color, row-major
func (b Board) Pieces(color Color) []Coord {
	var coords []Coord
	for _, c := range b.Coords() {
		t := b.At(c)
		if t.Occupied && t.Piece.Color == color {
			coords = append(coords, c)
		}
	}
	return coords
}

// EqualBoards returns true if two boards have the same size and contents.
// Pieces on empty tiles are ignored.
func EqualBoards(b1, b2 Board) bool {
	if b1.size != b2.size || len(b1.tiles) != len(b2.tiles) {
		return false
	}
	for i := range b1.tiles {
		t1, t2 := b1.tiles[i], b2.tiles[i]
		if t1.Occupied != t2.Occupied {
			return false
		}
		if t1.Occupied && t1.Piece != t2.Piece {
			return false
		}
	}
	return true
}
