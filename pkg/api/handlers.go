package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/yourusername/ccengine/internal/notation"
	"github.com/yourusername/ccengine/pkg/engine"
)

const (
	// DefaultMaxDepth bounds request depth; full-width trees grow exponentially.
	DefaultMaxDepth = 7
	// DefaultCount is the number of sequences returned when a request omits it.
	DefaultCount = 5
)

// Handlers holds the HTTP handlers and engine reference.
type Handlers struct {
	engine   *engine.Engine
	version  string
	pool     *WorkerPool
	maxDepth int
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(e *engine.Engine, version string) *Handlers {
	return &Handlers{
		engine:   e,
		version:  version,
		pool:     nil,
		maxDepth: DefaultMaxDepth,
	}
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
func NewHandlersWithPool(e *engine.Engine, version string, pool *WorkerPool) *Handlers {
	h := NewHandlers(e, version)
	h.pool = pool
	return h
}

// apiError carries the HTTP status and error code of a failed request.
type apiError struct {
	status int
	msg    string
	code   string
}

func (e *apiError) Error() string {
	return e.msg
}

func badRequest(msg, code string) *apiError {
	return &apiError{status: http.StatusBadRequest, msg: msg, code: code}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

func writeAPIError(w http.ResponseWriter, err *apiError) {
	writeError(w, err.status, err.msg, err.code)
}

// parseBoard reads a position string at the engine's board size.
func (h *Handlers) parseBoard(position string) (engine.Board, *apiError) {
	if position == "" {
		return engine.Board{}, badRequest("position is required", "MISSING_POSITION")
	}
	b, err := notation.Parse(position, h.engine.BoardSize())
	if err != nil {
		return engine.Board{}, badRequest(err.Error(), "INVALID_POSITION")
	}
	return b, nil
}

// checkSearch validates search parameters before any tree is built.
func (h *Handlers) checkSearch(depth int, side engine.Color, count int) *apiError {
	if err := engine.ValidateSearch(depth, side, count); err != nil {
		return badRequest(err.Error(), "INVALID_PARAMS")
	}
	if depth > h.maxDepth {
		return badRequest(
			errors.Errorf("depth %d exceeds server maximum %d", depth, h.maxDepth).Error(),
			"DEPTH_TOO_LARGE")
	}
	return nil
}

func searchFailure(err error) *apiError {
	if errors.Is(err, engine.ErrCapacityExceeded) {
		return &apiError{status: http.StatusUnprocessableEntity, msg: err.Error(), code: "CAPACITY_EXCEEDED"}
	}
	return &apiError{status: http.StatusInternalServerError, msg: err.Error(), code: "SEARCH_ERROR"}
}

// moves lists the legal moves for a request.
func (h *Handlers) moves(req MovesRequest) (*MovesResponse, *apiError) {
	b, apiErr := h.parseBoard(req.Position)
	if apiErr != nil {
		return nil, apiErr
	}
	side := engine.Color(req.Side)
	if !side.Valid() {
		return nil, badRequest("side must be 0 or 1", "INVALID_SIDE")
	}

	scored := engine.ScoredMoves(b, engine.Material, side)
	moves := make([]MoveResponse, len(scored))
	for i, sm := range scored {
		moves[i] = MoveToResponse(sm.Move, sm.Capture, sm.Eval)
	}

	return &MovesResponse{
		Position: notation.Format(b),
		Side:     side.String(),
		Eval:     engine.Material(b),
		Moves:    moves,
		NumLegal: len(moves),
	}, nil
}

// search runs a full-width search and ranks its sequences.
func (h *Handlers) search(req SearchRequest) (*SearchResponse, *apiError) {
	b, apiErr := h.parseBoard(req.Position)
	if apiErr != nil {
		return nil, apiErr
	}
	side := engine.Color(req.Side)
	count := req.Count
	if count == 0 {
		count = DefaultCount
	}
	if apiErr := h.checkSearch(req.Depth, side, count); apiErr != nil {
		return nil, apiErr
	}

	result, err := h.engine.Search(b, engine.Material, side, req.Depth)
	if err != nil {
		return nil, searchFailure(err)
	}

	ranked := h.engine.Rank(result, count)
	sequences := make([]SequenceResponse, len(ranked))
	for i, seq := range ranked {
		sequences[i] = SequenceToResponse(i+1, seq)
	}

	resp := &SearchResponse{
		SearchID:  uuid.NewString(),
		Position:  notation.Format(b),
		Side:      side.String(),
		Depth:     req.Depth,
		NumLeaves: len(result.Leaves),
		Sequences: sequences,
	}
	if req.Stats {
		resp.Stats = StatsToResponse(engine.Summarize(result))
	}
	return resp, nil
}

// best finds the first move of the best sequence.
func (h *Handlers) best(req BestRequest) (*BestResponse, *apiError) {
	b, apiErr := h.parseBoard(req.Position)
	if apiErr != nil {
		return nil, apiErr
	}
	side := engine.Color(req.Side)
	if apiErr := h.checkSearch(req.Depth, side, 1); apiErr != nil {
		return nil, apiErr
	}

	m, ok, err := h.engine.BestMove(b, engine.Material, side, req.Depth)
	if err != nil {
		return nil, searchFailure(err)
	}

	resp := &BestResponse{SearchID: uuid.NewString(), Found: ok}
	if ok {
		mr := MoveToResponse(m, engine.IsCapture(b, m), engine.EvaluationAfter(b, engine.Material, m))
		resp.Move = &mr
	}
	return resp, nil
}

// review rates a played move against the search's best first move.
func (h *Handlers) review(req ReviewRequest) (*ReviewResponse, *apiError) {
	b, apiErr := h.parseBoard(req.Position)
	if apiErr != nil {
		return nil, apiErr
	}
	if req.Move == "" {
		return nil, badRequest("move is required", "MISSING_MOVE")
	}
	played, err := notation.ParseMove(req.Move)
	if err != nil {
		return nil, badRequest(err.Error(), "INVALID_MOVE")
	}
	side := engine.Color(req.Side)
	if apiErr := h.checkSearch(req.Depth, side, 0); apiErr != nil {
		return nil, apiErr
	}

	rv, err := h.engine.ReviewMove(b, engine.Material, side, req.Depth, played)
	if errors.Is(err, engine.ErrIllegalMove) {
		return nil, badRequest(err.Error(), "ILLEGAL_MOVE")
	}
	if err != nil {
		return nil, searchFailure(err)
	}

	moves := make([]MoveResponse, len(rv.Moves))
	for i, v := range rv.Moves {
		moves[i] = MoveToResponse(v.Move, engine.IsCapture(b, v.Move), v.Eval)
	}
	return &ReviewResponse{
		Move:      MoveToResponse(rv.Move, engine.IsCapture(b, rv.Move), rv.Eval),
		BestMove:  MoveToResponse(rv.BestMove, engine.IsCapture(b, rv.BestMove), rv.BestEval),
		Loss:      rv.Loss,
		Skill:     rv.Skill.String(),
		SkillAbbr: rv.Skill.Abbr(),
		IsForced:  rv.IsForced,
		Moves:     moves,
	}, nil
}

// analyze reviews every move of a recorded game.
func (h *Handlers) analyze(req AnalyzeRequest) (*AnalyzeResponse, *apiError) {
	b, apiErr := h.parseBoard(req.Position)
	if apiErr != nil {
		return nil, apiErr
	}
	if len(req.Moves) == 0 {
		return nil, badRequest("moves are required", "MISSING_MOVE")
	}
	moves := make([]engine.Move, len(req.Moves))
	for i, s := range req.Moves {
		m, err := notation.ParseMove(s)
		if err != nil {
			return nil, badRequest(errors.Wrapf(err, "move %d", i+1).Error(), "INVALID_MOVE")
		}
		moves[i] = m
	}
	side := engine.Color(req.Side)
	if apiErr := h.checkSearch(req.Depth, side, 0); apiErr != nil {
		return nil, apiErr
	}

	opts := engine.DefaultGameAnalysisOptions()
	opts.Depth = req.Depth
	ga, err := h.engine.AnalyzeGame(b, side, moves, opts)
	if errors.Is(err, engine.ErrIllegalMove) {
		return nil, badRequest(err.Error(), "ILLEGAL_MOVE")
	}
	if err != nil {
		return nil, searchFailure(err)
	}
	return GameAnalysisToResponse(ga), nil
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Ready:    h.engine != nil,
		MaxDepth: h.maxDepth,
	}
	if h.engine != nil {
		resp.BoardSize = h.engine.BoardSize()
	}

	// Include pool stats if available
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}

	writeJSON(w, http.StatusOK, resp)
}

// Moves handles POST /api/moves
func (h *Handlers) Moves(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireFast(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseFast()
	}

	var req MovesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	resp, apiErr := h.moves(req)
	if apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Search handles POST /api/search
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	// Searches build whole trees, so they share the small slow pool
	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	resp, apiErr := h.search(req)
	if apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Best handles POST /api/best
func (h *Handlers) Best(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	var req BestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	resp, apiErr := h.best(req)
	if apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Review handles POST /api/review
func (h *Handlers) Review(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	resp, apiErr := h.review(req)
	if apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Analyze handles POST /api/analyze
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	resp, apiErr := h.analyze(req)
	if apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
