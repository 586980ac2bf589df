// Package main provides C-compatible functions for building a shared library.
// Build with: go build -buildmode=c-shared -o libccengine.so ./pkg/capi
package main

/*
#include <stdlib.h>
#include <stdint.h>
*/
import "C"
import (
	"encoding/json"
	"sync"
	"unsafe"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/yourusername/ccengine/internal/notation"
	"github.com/yourusername/ccengine/pkg/api"
	"github.com/yourusername/ccengine/pkg/engine"
)

const version = "0.1.0"

var (
	globalEngine *engine.Engine
	engineMutex  sync.RWMutex
	lastError    string
	errorMutex   sync.Mutex
)

// setError stores an error message for later retrieval.
func setError(err error) {
	errorMutex.Lock()
	defer errorMutex.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

// currentEngine returns the initialized engine, creating a default one on
// first use so callers may skip ccengine_init.
func currentEngine() (*engine.Engine, error) {
	engineMutex.RLock()
	eng := globalEngine
	engineMutex.RUnlock()
	if eng != nil {
		return eng, nil
	}

	engineMutex.Lock()
	defer engineMutex.Unlock()
	if globalEngine == nil {
		e, err := engine.NewEngine(engine.EngineOptions{})
		if err != nil {
			return nil, err
		}
		globalEngine = e
	}
	return globalEngine, nil
}

// prepareSearch validates the C arguments and parses the position.
func prepareSearch(position *C.char, depth, side, count C.int) (*engine.Engine, engine.Board, error) {
	if position == nil {
		return nil, engine.Board{}, errors.New("position is required")
	}
	if err := engine.ValidateSearch(int(depth), engine.Color(side), int(count)); err != nil {
		return nil, engine.Board{}, err
	}
	eng, err := currentEngine()
	if err != nil {
		return nil, engine.Board{}, err
	}
	b, err := notation.Parse(C.GoString(position), eng.BoardSize())
	if err != nil {
		return nil, engine.Board{}, err
	}
	return eng, b, nil
}

//export ccengine_version
func ccengine_version() *C.char {
	return C.CString(version)
}

//export ccengine_last_error
func ccengine_last_error() *C.char {
	errorMutex.Lock()
	defer errorMutex.Unlock()
	if lastError == "" {
		return nil
	}
	return C.CString(lastError)
}

// ccengine_init replaces the engine with one for the given board size.
// A size of 0 selects the default 8x8 board.
//
//export ccengine_init
func ccengine_init(boardSize C.int) C.int {
	engineMutex.Lock()
	defer engineMutex.Unlock()

	eng, err := engine.NewEngine(engine.EngineOptions{BoardSize: int(boardSize)})
	if err != nil {
		setError(err)
		return -1
	}

	globalEngine = eng
	setError(nil)
	return 0
}

//export ccengine_shutdown
func ccengine_shutdown() {
	engineMutex.Lock()
	defer engineMutex.Unlock()
	globalEngine = nil
}

// ccengine_get_best returns the first move of the best sequence as
// "[r][c] -> [r][c]", or NULL when the parameters are invalid or the side
// has nothing to play. The caller frees the result with ccengine_free_string.
//
//export ccengine_get_best
func ccengine_get_best(position *C.char, depth, side C.int) *C.char {
	eng, b, err := prepareSearch(position, depth, side, 0)
	if err != nil {
		setError(err)
		return nil
	}

	m, ok, err := eng.BestMove(b, engine.Material, engine.Color(side), int(depth))
	if err != nil {
		setError(err)
		return nil
	}
	if !ok {
		setError(errors.New("no legal move"))
		return nil
	}

	setError(nil)
	return C.CString(engine.FormatMove(m, notation.Describe))
}

// ccengine_search ranks the best count sequences and writes them to
// resultJSON in the same shape as the HTTP search response.
//
//export ccengine_search
func ccengine_search(position *C.char, depth, side, count C.int, resultJSON **C.char) C.int {
	eng, b, err := prepareSearch(position, depth, side, count)
	if err != nil {
		setError(err)
		*resultJSON = C.CString(`{"error": "invalid parameters"}`)
		return -1
	}

	result, err := eng.Search(b, engine.Material, engine.Color(side), int(depth))
	if err != nil {
		setError(err)
		*resultJSON = C.CString(`{"error": "search failed"}`)
		return -1
	}

	k := int(count)
	if k == 0 {
		k = api.DefaultCount
	}
	ranked := eng.Rank(result, k)
	sequences := make([]api.SequenceResponse, len(ranked))
	for i, seq := range ranked {
		sequences[i] = api.SequenceToResponse(i+1, seq)
	}

	data, err := json.Marshal(api.SearchResponse{
		SearchID:  uuid.NewString(),
		Position:  notation.Format(b),
		Side:      engine.Color(side).String(),
		Depth:     int(depth),
		NumLeaves: len(result.Leaves),
		Sequences: sequences,
		Stats:     api.StatsToResponse(engine.Summarize(result)),
	})
	if err != nil {
		setError(err)
		*resultJSON = C.CString(`{"error": "encoding failed"}`)
		return -1
	}

	setError(nil)
	*resultJSON = C.CString(string(data))
	return 0
}

//export ccengine_free_string
func ccengine_free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func main() {}
