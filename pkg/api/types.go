// Package api provides HTTP/JSON REST API for the checkers move-search engine.
package api

import (
	"github.com/yourusername/ccengine/internal/notation"
	"github.com/yourusername/ccengine/pkg/engine"
)

// ============================================================================
// Request Types
// ============================================================================

// MovesRequest is the request body for listing legal moves.
type MovesRequest struct {
	Position string `json:"position"` // Position string (rows separated by '/')
	Side     int    `json:"side"`     // 0 = light, 1 = dark
}

// SearchRequest is the request body for a full-width search.
type SearchRequest struct {
	Position string `json:"position"`        // Position string
	Side     int    `json:"side"`            // Side to move first
	Depth    int    `json:"depth"`           // Plies to search
	Count    int    `json:"count,omitempty"` // Sequences to return (default 5)
	Stats    bool   `json:"stats,omitempty"` // Include leaf statistics
}

// BestRequest is the request body for the single best first move.
type BestRequest struct {
	Position string `json:"position"` // Position string
	Side     int    `json:"side"`     // Side to move
	Depth    int    `json:"depth"`    // Plies to search
}

// ReviewRequest is the request body for rating a played move.
type ReviewRequest struct {
	Position string `json:"position"` // Position before the move
	Side     int    `json:"side"`     // Side that played
	Depth    int    `json:"depth"`    // Plies to search
	Move     string `json:"move"`     // Move played, e.g. "[5][1] -> [4][0]"
}

// AnalyzeRequest is the request body for reviewing a whole game.
type AnalyzeRequest struct {
	Position string   `json:"position"` // Starting position
	Side     int      `json:"side"`     // Side that moves first
	Depth    int      `json:"depth"`    // Plies searched for every move
	Moves    []string `json:"moves"`    // Moves in playing order
}

// ============================================================================
// Response Types
// ============================================================================

// MoveResponse describes one move.
type MoveResponse struct {
	Move    string `json:"move"`              // "[r][c] -> [r][c]"
	From    [2]int `json:"from"`              // [row, col]
	To      [2]int `json:"to"`                // [row, col]
	Capture bool   `json:"capture,omitempty"` // Move removes opponent pieces
	Eval    int    `json:"eval"`              // Evaluation after the move
}

// MovesResponse is the response for legal move listing.
type MovesResponse struct {
	Position string         `json:"position"`
	Side     string         `json:"side"`
	Eval     int            `json:"eval"` // Evaluation of the position itself
	Moves    []MoveResponse `json:"moves"`
	NumLegal int            `json:"num_legal"`
}

// StepResponse is one ply of a ranked sequence.
type StepResponse struct {
	Side string       `json:"side"`
	Move MoveResponse `json:"move"`
}

// SequenceResponse is one ranked line of play.
type SequenceResponse struct {
	Rank  int            `json:"rank"`  // 1-based rank
	Eval  int            `json:"eval"`  // Leaf evaluation
	Line  string         `json:"line"`  // "{White; [5][1] -> [4][0]}, ..."
	Steps []StepResponse `json:"steps"` // Plies from the first move to the leaf
}

// StatsResponse summarizes the leaf evaluations of a search.
type StatsResponse struct {
	Nodes  int     `json:"nodes"`
	Leaves int     `json:"leaves"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// SearchResponse is the response for a search.
type SearchResponse struct {
	SearchID  string             `json:"search_id"`
	Position  string             `json:"position"`
	Side      string             `json:"side"`
	Depth     int                `json:"depth"`
	NumLeaves int                `json:"num_leaves"`
	Sequences []SequenceResponse `json:"sequences"`
	Stats     *StatsResponse     `json:"stats,omitempty"`
}

// BestResponse is the response for a best-move query.
type BestResponse struct {
	SearchID string        `json:"search_id"`
	Found    bool          `json:"found"`          // False when the side has nothing to play
	Move     *MoveResponse `json:"move,omitempty"` // First move of the best sequence
}

// ReviewResponse rates a played move.
type ReviewResponse struct {
	Move      MoveResponse   `json:"move"`      // Played move, eval = best leaf after it
	BestMove  MoveResponse   `json:"best_move"` // Best first move, eval = best leaf overall
	Loss      int            `json:"loss"`      // Evaluation given up
	Skill     string         `json:"skill"`     // "None", "Doubtful", "Bad", "Very Bad"
	SkillAbbr string         `json:"skill_abbr,omitempty"`
	IsForced  bool           `json:"is_forced"`
	Moves     []MoveResponse `json:"moves"` // Every legal first move, best first
}

// PlayerResponse summarizes one side of an analyzed game.
type PlayerResponse struct {
	Name        string  `json:"name"`
	MoveCount   int     `json:"move_count"`
	Unforced    int     `json:"unforced"`
	TotalLoss   int     `json:"total_loss"`
	LossPerMove float64 `json:"loss_per_move"`
	VeryBad     int     `json:"very_bad"`
	Bad         int     `json:"bad"`
	Doubtful    int     `json:"doubtful"`
}

// MoveErrorResponse is one rated mistake in an analyzed game.
type MoveErrorResponse struct {
	MoveNumber int    `json:"move_number"`
	Side       string `json:"side"`
	Position   string `json:"position"` // Position before the move
	Played     string `json:"played"`
	Best       string `json:"best"`
	Loss       int    `json:"loss"`
	Skill      string `json:"skill"`
}

// AnalyzeResponse is the response for a game analysis.
type AnalyzeResponse struct {
	TotalMoves    int                 `json:"total_moves"`
	Players       []PlayerResponse    `json:"players"` // White first
	Errors        []MoveErrorResponse `json:"errors"`
	FinalPosition string              `json:"final_position"`
	NextSide      string              `json:"next_side"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status    string     `json:"status"`
	Version   string     `json:"version"`
	Ready     bool       `json:"ready"`
	BoardSize int        `json:"board_size"`
	MaxDepth  int        `json:"max_depth"`
	Pool      *PoolStats `json:"pool,omitempty"`
}

// ErrorResponse is the response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ============================================================================
// Conversion helpers
// ============================================================================

// MoveToResponse converts an engine move to its JSON form.
func MoveToResponse(m engine.Move, capture bool, eval int) MoveResponse {
	return MoveResponse{
		Move:    engine.FormatMove(m, notation.Describe),
		From:    [2]int{m.From.Row, m.From.Col},
		To:      [2]int{m.To.Row, m.To.Col},
		Capture: capture,
		Eval:    eval,
	}
}

// SequenceToResponse converts a ranked sequence. Capture flags are not
// known from the tree alone and are left unset.
func SequenceToResponse(rank int, seq engine.Sequence) SequenceResponse {
	steps := make([]StepResponse, len(seq.Steps))
	for i, s := range seq.Steps {
		steps[i] = StepResponse{
			Side: s.Mover.String(),
			Move: MoveToResponse(s.Move, false, s.Eval),
		}
	}
	return SequenceResponse{
		Rank:  rank,
		Eval:  seq.Eval,
		Line:  engine.FormatPath(seq.Steps, notation.Describe),
		Steps: steps,
	}
}

// StatsToResponse converts search statistics.
func StatsToResponse(s engine.Stats) *StatsResponse {
	return &StatsResponse{
		Nodes:  s.Nodes,
		Leaves: s.Leaves,
		Min:    s.MinEval,
		Max:    s.MaxEval,
		Mean:   s.MeanEval,
		StdDev: s.StdDevEval,
	}
}

// GameAnalysisToResponse converts a game analysis.
func GameAnalysisToResponse(ga *engine.GameAnalysis) *AnalyzeResponse {
	resp := &AnalyzeResponse{
		TotalMoves:    ga.TotalMoves,
		Players:       make([]PlayerResponse, len(ga.PlayerStats)),
		Errors:        make([]MoveErrorResponse, len(ga.Errors)),
		FinalPosition: notation.Format(ga.Final),
		NextSide:      ga.NextSide.String(),
	}
	for i, p := range ga.PlayerStats {
		resp.Players[i] = PlayerResponse{
			Name:        p.Name,
			MoveCount:   p.MoveCount,
			Unforced:    p.TotalMoves,
			TotalLoss:   p.TotalLoss,
			LossPerMove: p.LossPerMove,
			VeryBad:     p.VeryBad,
			Bad:         p.Bad,
			Doubtful:    p.Doubtful,
		}
	}
	for i, e := range ga.Errors {
		resp.Errors[i] = MoveErrorResponse{
			MoveNumber: e.MoveNumber,
			Side:       e.Side.String(),
			Position:   notation.Format(e.Board),
			Played:     engine.FormatMove(e.Played, notation.Describe),
			Best:       engine.FormatMove(e.Best, notation.Describe),
			Loss:       e.Loss,
			Skill:      e.Skill.String(),
		}
	}
	return resp
}
