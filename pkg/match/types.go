// Package match provides game record import/export for checkers games.
// A record holds match metadata and one or more games, each with its own
// starting position and the moves played from it.
package match

import (
	"github.com/pkg/errors"

	"github.com/yourusername/ccengine/internal/notation"
	"github.com/yourusername/ccengine/pkg/engine"
)

// Match represents a recorded set of games between two players.
type Match struct {
	White     string  // Name of the light player
	Black     string  // Name of the dark player
	Date      string  // Match date (YYYY-MM-DD format)
	Event     string  // Event name
	Round     string  // Round number
	Place     string  // Location
	Annotator string  // Who analyzed the match
	Games     []*Game // List of games in the match
}

// Game represents a single game within a match.
type Game struct {
	Number   int           // Game number (1-indexed)
	Position string        // Starting position string
	Side     engine.Color  // Side that moves first
	Moves    []engine.Move // Moves in playing order
	Result   string        // Free text result, empty while unfinished
}

// NewMatch creates a new empty match.
func NewMatch(white, black string) *Match {
	return &Match{
		White: white,
		Black: black,
		Games: make([]*Game, 0),
	}
}

// NewGame creates a new game from the standard starting position with light to move.
func NewGame(number int) *Game {
	return &Game{
		Number:   number,
		Position: notation.StartPosition,
		Side:     engine.Light,
		Moves:    make([]engine.Move, 0),
	}
}

// AddGame appends a game numbered after the existing ones.
func (m *Match) AddGame() *Game {
	g := NewGame(len(m.Games) + 1)
	m.Games = append(m.Games, g)
	return g
}

// AddMove adds a move to the game.
func (g *Game) AddMove(move engine.Move) {
	g.Moves = append(g.Moves, move)
}

// Start parses the starting position of the game.
func (g *Game) Start() (engine.Board, error) {
	b, err := notation.Parse(g.Position, 0)
	if err != nil {
		return engine.Board{}, errors.Wrapf(err, "game %d", g.Number)
	}
	return b, nil
}

// Replay plays the moves from the starting position and returns the final
// position with the side to move in it. Every move must be legal for the
// side whose turn it is.
func (g *Game) Replay() (engine.Board, engine.Color, error) {
	b, err := g.Start()
	if err != nil {
		return engine.Board{}, 0, err
	}

	side := g.Side
	for i, m := range g.Moves {
		legal := false
		for _, lm := range engine.LegalMoves(b, side) {
			if lm == m {
				legal = true
				break
			}
		}
		if !legal {
			return engine.Board{}, 0, errors.Wrapf(engine.ErrIllegalMove, "game %d move %d: %s for %s",
				g.Number, i+1, engine.FormatMove(m, notation.Describe), side)
		}
		next := engine.NextMover(b, side)
		b.ApplyMove(m)
		side = next
	}
	return b, side, nil
}
