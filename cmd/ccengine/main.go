// ccengine - full-width move search for checkers positions
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/yourusername/ccengine/internal/notation"
	"github.com/yourusername/ccengine/pkg/engine"
	"github.com/yourusername/ccengine/pkg/match"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "search":
		cmdSearch(args)
	case "best":
		cmdBest(args)
	case "moves":
		cmdMoves(args)
	case "board":
		cmdBoard(args)
	case "review":
		cmdReview(args)
	case "analyze":
		cmdAnalyze(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ccengine - Checkers Move Search Engine

Usage: ccengine <command> [options]

Commands:
  search    Rank the best move sequences to a fixed depth
  best      Print only the best first move
  moves     List legal moves with their evaluations
  board     Render a position
  review    Rate a played move against the best one
  analyze   Review every move of a game

Use "ccengine <command> -h" for command-specific help.

Position Format:
  Rows from 0 to N-1 separated by '/', one character per playable tile:
  X light man, K light king, x dark man, k dark king, '-' empty.
  Default: the standard 8x8 starting position
  "xxxx/xxxx/xxxx/----/----/XXXX/XXXX/XXXX"

Sides:
  0 = White (light, moves toward row 0), 1 = Black (dark)`)
}

// positionFlags registers the flags every command shares.
type positionFlags struct {
	position *string
	short    *string
	size     *int
}

func addPositionFlags(fs *flag.FlagSet) positionFlags {
	return positionFlags{
		position: fs.String("position", notation.StartPosition, "Position string"),
		short:    fs.String("p", "", "Position string (short form)"),
		size:     fs.Int("size", 0, "Board size (0 = infer from the position)"),
	}
}

// load parses the position and creates an engine for its board size.
func (pf positionFlags) load() (*engine.Engine, engine.Board, error) {
	pos := *pf.position
	if *pf.short != "" {
		pos = *pf.short
	}

	b, err := notation.Parse(pos, *pf.size)
	if err != nil {
		return nil, engine.Board{}, errors.Wrap(err, "invalid position")
	}

	e, err := engine.NewEngine(engine.EngineOptions{BoardSize: b.Size()})
	if err != nil {
		return nil, engine.Board{}, errors.Wrap(err, "failed to create engine")
	}
	return e, b, nil
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func cmdSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	pf := addPositionFlags(fs)
	side := fs.Int("side", 0, "Side to move first (0 = White, 1 = Black)")
	depth := fs.Int("depth", 3, "Plies to search (1-7 is practical)")
	count := fs.Int("n", 5, "Number of sequences to show")
	dotFile := fs.String("dot", "", "Write the move tree in Graphviz format to this file")
	showBoard := fs.Bool("board", false, "Render the board before searching")
	showStats := fs.Bool("stats", false, "Print leaf evaluation statistics")
	fs.Parse(args)

	color := engine.Color(*side)
	if err := engine.ValidateSearch(*depth, color, *count); err != nil {
		fail("%v", err)
	}

	e, b, err := pf.load()
	if err != nil {
		fail("%v", err)
	}

	if *showBoard {
		fmt.Print(notation.Render(b))
	}
	fmt.Printf("Current evaluation: %d\n", engine.Material(b))

	start := time.Now()
	result, err := e.Search(b, engine.Material, color, *depth)
	elapsed := time.Since(start)
	if err != nil {
		fail("search failed: %v", err)
	}

	fmt.Printf("Explored %d sequences (%d nodes, %.2fs)\n",
		len(result.Leaves), result.Tree.Len()-1, elapsed.Seconds())

	ranked := e.Rank(result, *count)
	if len(ranked) == 0 {
		fmt.Printf("%s has no legal moves\n", color)
	}
	for i, seq := range ranked {
		fmt.Printf("  %d. [%+d] %s\n", i+1, seq.Eval, engine.FormatPath(seq.Steps, notation.Describe))
	}

	if *showStats {
		s := engine.Summarize(result)
		fmt.Printf("Leaf evaluations: min %d, max %d, mean %.2f, stddev %.2f\n",
			s.MinEval, s.MaxEval, s.MeanEval, s.StdDevEval)
	}

	if *dotFile != "" {
		dot, err := engine.TreeDOT(result.Tree, notation.Describe)
		if err != nil {
			fail("rendering tree: %v", err)
		}
		if err := os.WriteFile(*dotFile, []byte(dot), 0o644); err != nil {
			fail("writing %s: %v", *dotFile, err)
		}
		fmt.Printf("Move tree written to %s\n", *dotFile)
	}
}

func cmdBest(args []string) {
	fs := flag.NewFlagSet("best", flag.ExitOnError)
	pf := addPositionFlags(fs)
	side := fs.Int("side", 0, "Side to move (0 = White, 1 = Black)")
	depth := fs.Int("depth", 3, "Plies to search")
	fs.Parse(args)

	color := engine.Color(*side)
	if err := engine.ValidateSearch(*depth, color, 0); err != nil {
		fail("%v", err)
	}

	e, b, err := pf.load()
	if err != nil {
		fail("%v", err)
	}

	m, ok, err := e.BestMove(b, engine.Material, color, *depth)
	if err != nil {
		fail("search failed: %v", err)
	}
	if !ok {
		fmt.Printf("%s has no legal moves\n", color)
		os.Exit(1)
	}
	fmt.Println(engine.FormatMove(m, notation.Describe))
}

func cmdMoves(args []string) {
	fs := flag.NewFlagSet("moves", flag.ExitOnError)
	pf := addPositionFlags(fs)
	side := fs.Int("side", 0, "Side to move (0 = White, 1 = Black)")
	fs.Parse(args)

	color := engine.Color(*side)
	if !color.Valid() {
		fail("side must be 0 or 1")
	}

	_, b, err := pf.load()
	if err != nil {
		fail("%v", err)
	}

	scored := engine.ScoredMoves(b, engine.Material, color)
	if len(scored) == 0 {
		fmt.Printf("%s has no legal moves\n", color)
		return
	}

	fmt.Printf("Legal moves for %s (current evaluation %d):\n", color, engine.Material(b))
	for i, sm := range scored {
		note := ""
		if sm.Capture {
			note = "  capture"
		}
		fmt.Printf("  %d. %-20s  Eval: %+d%s\n", i+1, engine.FormatMove(sm.Move, notation.Describe), sm.Eval, note)
	}
}

func cmdBoard(args []string) {
	fs := flag.NewFlagSet("board", flag.ExitOnError)
	pf := addPositionFlags(fs)
	fs.Parse(args)

	_, b, err := pf.load()
	if err != nil {
		fail("%v", err)
	}

	fmt.Print(notation.Render(b))
	fmt.Printf("Position: %s\n", notation.Format(b))
	fmt.Printf("Evaluation: %d\n", engine.Material(b))
}

func cmdReview(args []string) {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	pf := addPositionFlags(fs)
	side := fs.Int("side", 0, "Side that played (0 = White, 1 = Black)")
	depth := fs.Int("depth", 3, "Plies to search")
	moveFlag := fs.String("move", "", "Move played, e.g. \"[5][1] -> [4][0]\"")
	fs.Parse(args)

	if *moveFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: move required")
		fmt.Fprintln(os.Stderr, "Usage: ccengine review -p <position> -side 0 -move \"[5][1] -> [4][0]\"")
		os.Exit(1)
	}
	played, err := notation.ParseMove(*moveFlag)
	if err != nil {
		fail("%v", err)
	}

	e, b, err := pf.load()
	if err != nil {
		fail("%v", err)
	}

	review, err := e.ReviewMove(b, engine.Material, engine.Color(*side), *depth, played)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Played: %s%s  (best reachable %+d)\n",
		engine.FormatMove(review.Move, notation.Describe), review.Skill.Abbr(), review.Eval)
	if review.IsForced {
		fmt.Println("Forced move")
		return
	}
	fmt.Printf("Best:   %s  (best reachable %+d)\n", engine.FormatMove(review.BestMove, notation.Describe), review.BestEval)
	fmt.Printf("Skill:  %s (gives up %d)\n", review.Skill, review.Loss)
	for i, v := range review.Moves {
		fmt.Printf("  %d. %-20s  %+d\n", i+1, engine.FormatMove(v.Move, notation.Describe), v.Eval)
	}
}

func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	pf := addPositionFlags(fs)
	side := fs.Int("side", 0, "Side that moves first (0 = White, 1 = Black)")
	depth := fs.Int("depth", 3, "Plies to search for every move")
	movesFlag := fs.String("moves", "", "Moves in playing order, separated by ';'")
	file := fs.String("file", "", "Game record to analyze instead of -moves")
	threshold := fs.Int("threshold", 0, "Smallest loss counted as an error")
	fs.Parse(args)

	opts := engine.DefaultGameAnalysisOptions()
	opts.Depth = *depth
	opts.ErrorThreshold = *threshold

	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fail("%v", err)
		}
		defer f.Close()
		m, err := match.ImportRecord(f)
		if err != nil {
			fail("%s: %v", *file, err)
		}
		if m.White != "" {
			opts.LightName = m.White
		}
		if m.Black != "" {
			opts.DarkName = m.Black
		}
		for _, g := range m.Games {
			b, err := g.Start()
			if err != nil {
				fail("%v", err)
			}
			e, err := engine.NewEngine(engine.EngineOptions{BoardSize: b.Size()})
			if err != nil {
				fail("%v", err)
			}
			ga, err := e.AnalyzeGame(b, g.Side, g.Moves, opts)
			if err != nil {
				fail("game %d: %v", g.Number, err)
			}
			fmt.Printf("Game %d\n", g.Number)
			printGameAnalysis(ga, *depth)
		}
		return
	}

	moves, err := notation.ParseMoveList(*movesFlag)
	if err != nil {
		fail("%v", err)
	}
	if len(moves) == 0 {
		fail("moves required (-moves or -file)")
	}

	e, b, err := pf.load()
	if err != nil {
		fail("%v", err)
	}

	ga, err := e.AnalyzeGame(b, engine.Color(*side), moves, opts)
	if err != nil {
		fail("%v", err)
	}
	printGameAnalysis(ga, *depth)
}

func printGameAnalysis(ga *engine.GameAnalysis, depth int) {
	fmt.Printf("Analyzed %d moves at depth %d\n", ga.TotalMoves, depth)
	for _, p := range ga.PlayerStats {
		fmt.Printf("  %-6s moves %d (unforced %d)  lost %d  per move %.2f  ??%d ?%d ?!%d\n",
			p.Name, p.MoveCount, p.TotalMoves, p.TotalLoss, p.LossPerMove, p.VeryBad, p.Bad, p.Doubtful)
	}
	for _, me := range ga.Errors {
		fmt.Printf("  %d. %s played %s%s, best %s (gives up %d)\n",
			me.MoveNumber, me.Side, engine.FormatMove(me.Played, notation.Describe), me.Skill.Abbr(),
			engine.FormatMove(me.Best, notation.Describe), me.Loss)
	}
	fmt.Printf("Final position: %s (%s to move)\n", notation.Format(ga.Final), ga.NextSide)
}
