package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/yourusername/ccengine/pkg/engine"
)

// SSEStarted is the first event of a streamed search.
type SSEStarted struct {
	SearchID  string `json:"search_id"`
	Side      string `json:"side"`
	Depth     int    `json:"depth"`
	NumLeaves int    `json:"num_leaves"`
}

// SearchSSE streams ranked sequences as Server-Sent Events.
// GET /api/search/stream?position=...&side=0&depth=3&count=5
//
// Events: "started", one "sequence" per ranked line, "stats", then "done".
func (h *Handlers) SearchSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported", "NO_STREAMING")
		return
	}

	query := r.URL.Query()
	b, apiErr := h.parseBoard(query.Get("position"))
	if apiErr != nil {
		writeSSEError(w, apiErr.msg, apiErr.code)
		return
	}
	side := engine.Color(parseIntParam(query.Get("side"), 0))
	depth := parseIntParam(query.Get("depth"), 1)
	count := parseIntParam(query.Get("count"), DefaultCount)
	if apiErr := h.checkSearch(depth, side, count); apiErr != nil {
		writeSSEError(w, apiErr.msg, apiErr.code)
		return
	}

	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeSSEError(w, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	result, err := h.engine.Search(b, engine.Material, side, depth)
	if err != nil {
		failure := searchFailure(err)
		writeSSEError(w, failure.msg, failure.code)
		return
	}

	writeSSEEvent(w, "started", SSEStarted{
		SearchID:  uuid.NewString(),
		Side:      side.String(),
		Depth:     depth,
		NumLeaves: len(result.Leaves),
	})
	flusher.Flush()

	for i, seq := range h.engine.Rank(result, count) {
		if r.Context().Err() != nil {
			return
		}
		writeSSEEvent(w, "sequence", SequenceToResponse(i+1, seq))
		flusher.Flush()
	}

	writeSSEEvent(w, "stats", StatsToResponse(engine.Summarize(result)))
	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message, code string) {
	writeSSEEvent(w, "error", ErrorResponse{Error: message, Code: code})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer from a string with a default value.
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
