// Package external implements a line-based text protocol so other programs
// can drive the engine over a TCP socket.
//
// Protocol overview:
// - Server listens on a TCP port
// - Client connects and sends one command per line
// - Each connection keeps its own position, side, depth and count
// - Commands include: position, best, search, moves, set, version, exit
// - Positions use the '/'-separated row notation
package external

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/yourusername/ccengine/internal/notation"
	"github.com/yourusername/ccengine/pkg/engine"
)

// ProtocolVersion is reported by the version command.
const ProtocolVersion = "ccengine external protocol 1.0"

// Server implements the external protocol server.
type Server struct {
	engine   *engine.Engine
	listener net.Listener
	mu       sync.Mutex
	running  bool
	options  ServerOptions
}

// ServerOptions configures the external protocol server.
type ServerOptions struct {
	Addr          string // TCP address to listen on
	Depth         int    // Default search depth of a new session
	Count         int    // Default number of sequences returned by search
	MaxDepth      int    // Deepest search a client may set
	PromptEnabled bool   // Send prompts after responses
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Addr:          ":1234",
		Depth:         3,
		Count:         5,
		MaxDepth:      7,
		PromptEnabled: true,
	}
}

// NewServer creates a new external protocol server.
func NewServer(eng *engine.Engine, opts ServerOptions) *Server {
	return &Server{
		engine:  eng,
		options: opts,
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	listener, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.options.Addr)
	}

	s.listener = listener
	s.running = true

	go s.acceptLoop()

	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// acceptLoop accepts incoming connections.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return // Server stopped
			}
			continue
		}

		go s.handleConnection(conn)
	}
}

// session is the per-connection state.
type session struct {
	board engine.Board
	side  engine.Color
	depth int
	count int
}

func (s *Server) newSession() *session {
	b, err := notation.Parse(notation.StartPosition, s.engine.BoardSize())
	if err != nil {
		// the start position only fits 8x8 boards
		b = s.engine.NewBoard()
	}
	return &session{
		board: b,
		side:  engine.Light,
		depth: s.options.Depth,
		count: s.options.Count,
	}
}

// handleConnection handles a single client connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	sess := s.newSession()
	reader := bufio.NewReader(conn)

	if s.options.PromptEnabled {
		conn.Write([]byte("> "))
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		response := s.processCommand(sess, line)
		if _, err := conn.Write([]byte(response)); err != nil {
			log.Printf("external: write to %s failed: %v", conn.RemoteAddr(), err)
			return
		}

		if s.options.PromptEnabled {
			conn.Write([]byte("> "))
		}

		if cmd := strings.ToLower(line); cmd == "exit" || cmd == "quit" {
			return
		}
	}
}

// processCommand processes a single command and returns the response.
func (s *Server) processCommand(sess *session, cmd string) string {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "Error: empty command\n"
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "version":
		return ProtocolVersion + "\n"

	case "help":
		return helpResponse

	case "exit", "quit":
		return "Goodbye\n"

	case "set":
		return s.handleSet(sess, args)

	case "position", "pos":
		return s.handlePosition(sess, args)

	case "show":
		return notation.Render(sess.board)

	case "moves":
		return s.handleMoves(sess)

	case "best":
		return s.handleBest(sess)

	case "search":
		return s.handleSearch(sess)

	default:
		return fmt.Sprintf("Error: unknown command '%s'\n", command)
	}
}

const helpResponse = `Available commands:
  version          - Show version information
  help             - Show this help
  position <pos>   - Set the position (rows separated by '/')
  show             - Render the current position
  set <opt> <val>  - Set option (side, depth, count)
  moves            - List legal moves for the side to move
  best             - Best first move for the side to move
  search           - Ranked sequences for the side to move
  exit             - Close connection
`

// handleSet handles the set command.
func (s *Server) handleSet(sess *session, args []string) string {
	if len(args) < 2 {
		return "Error: set requires option and value\n"
	}

	option := strings.ToLower(args[0])
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Sprintf("Error: %s must be a number\n", option)
	}

	switch option {
	case "side":
		side := engine.Color(value)
		if !side.Valid() {
			return "Error: side must be 0 or 1\n"
		}
		sess.side = side
		return fmt.Sprintf("side set to %s\n", side)

	case "depth":
		if value < 1 || value > s.options.MaxDepth {
			return fmt.Sprintf("Error: depth must be 1-%d\n", s.options.MaxDepth)
		}
		sess.depth = value
		return fmt.Sprintf("depth set to %d\n", value)

	case "count":
		if value < 1 {
			return "Error: count must be at least 1\n"
		}
		sess.count = value
		return fmt.Sprintf("count set to %d\n", value)

	default:
		return fmt.Sprintf("Error: unknown option '%s'\n", option)
	}
}

// handlePosition replaces the session's position.
func (s *Server) handlePosition(sess *session, args []string) string {
	if len(args) != 1 {
		return "Error: position requires one argument\n"
	}
	b, err := notation.Parse(args[0], s.engine.BoardSize())
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	sess.board = b
	return fmt.Sprintf("position %s\n", notation.Format(b))
}

// handleMoves lists the legal moves, one per line, then "ok".
func (s *Server) handleMoves(sess *session) string {
	var sb strings.Builder
	for _, sm := range engine.ScoredMoves(sess.board, engine.Material, sess.side) {
		fmt.Fprintf(&sb, "%s %+d\n", engine.FormatMove(sm.Move, notation.Describe), sm.Eval)
	}
	sb.WriteString("ok\n")
	return sb.String()
}

// handleBest returns the best first move or "cannot move".
func (s *Server) handleBest(sess *session) string {
	m, ok, err := s.engine.BestMove(sess.board, engine.Material, sess.side, sess.depth)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	if !ok {
		return "cannot move\n"
	}
	return engine.FormatMove(m, notation.Describe) + "\n"
}

// handleSearch returns one ranked sequence per line, then "ok".
func (s *Server) handleSearch(sess *session) string {
	result, err := s.engine.Search(sess.board, engine.Material, sess.side, sess.depth)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}

	var sb strings.Builder
	for i, seq := range s.engine.Rank(result, sess.count) {
		fmt.Fprintf(&sb, "%d %+d %s\n", i+1, seq.Eval, engine.FormatPath(seq.Steps, notation.Describe))
	}
	sb.WriteString("ok\n")
	return sb.String()
}
