package engine

import (
	"github.com/pkg/errors"
)

// EvalFunc scores a position. It must be pure and deterministic.
// Positive values favor Light, negative values favor Dark.
type EvalFunc func(Board) int

// Default capacity limits
const (
	DefaultMaxMoves  = 100     // moves generated for a single position
	DefaultMaxNodes  = 1 << 23 // nodes in one move tree
	DefaultMaxLeaves = 1 << 22 // leaves extracted from one move tree
)

// ErrCapacityExceeded is returned when a search outgrows its configured limits
var ErrCapacityExceeded = errors.New("capacity exceeded")

// Limits bounds the memory used by a single search. Zero means unbounded.
type Limits struct {
	MaxMoves  int
	MaxNodes  int
	MaxLeaves int
}

// DefaultLimits returns the limits used when EngineOptions leaves them unset
func DefaultLimits() Limits {
	return Limits{
		MaxMoves:  DefaultMaxMoves,
		MaxNodes:  DefaultMaxNodes,
		MaxLeaves: DefaultMaxLeaves,
	}
}

// Engine runs move searches for boards of one size
type Engine struct {
	boardSize int
	limits    Limits
}

// EngineOptions configures the engine
type EngineOptions struct {
	BoardSize int     // Board dimension (0 = DefaultBoardSize)
	Limits    *Limits // Capacity limits (nil = DefaultLimits)
}

// NewEngine creates a new search engine with the given options
func NewEngine(opts EngineOptions) (*Engine, error) {
	size := opts.BoardSize
	if size == 0 {
		size = DefaultBoardSize
	}
	if _, err := NewBoard(size); err != nil {
		return nil, errors.Wrap(err, "failed to create engine")
	}

	limits := DefaultLimits()
	if opts.Limits != nil {
		limits = *opts.Limits
	}
	if limits.MaxMoves < 0 || limits.MaxNodes < 0 || limits.MaxLeaves < 0 {
		return nil, errors.Errorf("negative limits: %+v", limits)
	}

	return &Engine{
		boardSize: size,
		limits:    limits,
	}, nil
}

// BoardSize returns the board dimension this engine searches
func (e *Engine) BoardSize() int {
	return e.boardSize
}

// Limits returns the capacity limits applied to every search
func (e *Engine) Limits() Limits {
	return e.limits
}

// NewBoard returns an empty board of the engine's size
func (e *Engine) NewBoard() Board {
	b, _ := NewBoard(e.boardSize)
	return b
}

// Material is a strict evaluation purely based on existing pieces:
// >0 Light has an advantage, 0 equal position, <0 Dark has an advantage
func Material(b Board) int {
	materialDist := 0
	for _, c := range b.Coords() {
		t := b.At(c)
		if !t.Occupied {
			continue
		}
		if t.Piece.Color == Light {
			materialDist += t.Piece.Value()
		} else {
			materialDist -= t.Piece.Value()
		}
	}
	return materialDist
}
