package engine

import (
	"github.com/pkg/errors"
)

// GameAnalysis contains the review of every ply of a recorded game.
type GameAnalysis struct {
	TotalMoves  int               `json:"total_moves"`  // Plies played by both sides
	PlayerStats [2]PlayerAnalysis `json:"player_stats"` // Indexed by Color
	Errors      []MoveErrorDetail `json:"errors"`       // Moves rated below SkillNone
	Final       Board             `json:"-"`            // Position after the last move
	NextSide    Color             `json:"next_side"`    // Side to move in Final
}

// PlayerAnalysis contains review statistics for one side across a game.
type PlayerAnalysis struct {
	Name        string  `json:"name"`
	MoveCount   int     `json:"move_count"`    // All plies, forced included
	TotalMoves  int     `json:"total_moves"`   // Unforced plies
	TotalLoss   int     `json:"total_loss"`    // Sum of evaluation given up
	LossPerMove float64 `json:"loss_per_move"` // Over unforced plies
	VeryBad     int     `json:"very_bad"`
	Bad         int     `json:"bad"`
	Doubtful    int     `json:"doubtful"`
}

// MoveErrorDetail describes one reviewed move that lost evaluation.
type MoveErrorDetail struct {
	MoveNumber int       `json:"move_number"` // 1-based ply
	Side       Color     `json:"side"`
	Board      Board     `json:"-"` // Position before the move
	Played     Move      `json:"played"`
	Best       Move      `json:"best"`
	Loss       int       `json:"loss"`
	Skill      SkillType `json:"skill"`
}

// GameAnalysisOptions configures game analysis.
type GameAnalysisOptions struct {
	Depth          int    // Search depth for every ply
	ErrorThreshold int    // Smallest loss added to the totals
	LightName      string // Display name for Light
	DarkName       string // Display name for Dark
}

// DefaultGameAnalysisOptions returns sensible defaults.
func DefaultGameAnalysisOptions() GameAnalysisOptions {
	return GameAnalysisOptions{
		Depth:     3,
		LightName: Light.String(),
		DarkName:  Dark.String(),
	}
}

// NextMover returns the side that moves after color plays on b.
// A side with a capture available at the start of its ply moves again,
// the same rule the move tree follows.
func NextMover(b Board, color Color) Color {
	if HasCapture(b, color) {
		return color
	}
	return color.Opponent()
}

// AnalyzeGame replays moves from start, reviewing each one with a search
// of opts.Depth plies. side moves first.
func (e *Engine) AnalyzeGame(start Board, side Color, moves []Move, opts GameAnalysisOptions) (*GameAnalysis, error) {
	if err := ValidateSearch(opts.Depth, side, 0); err != nil {
		return nil, err
	}

	result := &GameAnalysis{
		PlayerStats: [2]PlayerAnalysis{
			{Name: opts.LightName},
			{Name: opts.DarkName},
		},
		Errors: make([]MoveErrorDetail, 0),
	}

	board := start.Clone()
	for i, m := range moves {
		review, err := e.ReviewMove(board, Material, side, opts.Depth, m)
		if err != nil {
			return nil, errors.Wrapf(err, "move %d", i+1)
		}

		result.TotalMoves++
		stats := &result.PlayerStats[side]
		stats.MoveCount++

		if !review.IsForced {
			stats.TotalMoves++

			if review.Loss > 0 && review.Loss >= opts.ErrorThreshold {
				stats.TotalLoss += review.Loss

				switch review.Skill {
				case SkillVeryBad:
					stats.VeryBad++
				case SkillBad:
					stats.Bad++
				case SkillDoubtful:
					stats.Doubtful++
				}

				if review.Skill != SkillNone {
					result.Errors = append(result.Errors, MoveErrorDetail{
						MoveNumber: i + 1,
						Side:       side,
						Board:      board.Clone(),
						Played:     m,
						Best:       review.BestMove,
						Loss:       review.Loss,
						Skill:      review.Skill,
					})
				}
			}
		}

		next := NextMover(board, side)
		board.ApplyMove(m)
		side = next
	}

	for c := range result.PlayerStats {
		p := &result.PlayerStats[c]
		if p.TotalMoves > 0 {
			p.LossPerMove = float64(p.TotalLoss) / float64(p.TotalMoves)
		}
	}
	result.Final = board
	result.NextSide = side
	return result, nil
}
