package match

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/yourusername/ccengine/internal/notation"
	"github.com/yourusername/ccengine/pkg/engine"
)

// Record format example:
//
//	[Event "Club night"]
//	[White "name1"]
//	[Black "name2"]
//
//	Game 1
//	[Position "xxxx/xxxx/xxxx/----/----/XXXX/XXXX/XXXX"]
//	[Side "0"]
//	1. [5][0] -> [4][0]
//	2. [2][1] -> [3][1]
//	[Result "White wins"]

var (
	gameHeaderRE = regexp.MustCompile(`^Game\s+(\d+)$`)
	moveLineRE   = regexp.MustCompile(`^(\d+)\.\s*(.+)$`)
	tagRE        = regexp.MustCompile(`^\[(\w+)\s+"([^"]*)"\]$`)
)

// ImportRecord reads a match from the record format.
func ImportRecord(r io.Reader) (*Match, error) {
	scanner := bufio.NewScanner(r)
	match := &Match{
		Games: make([]*Game, 0),
	}

	var currentGame *Game
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if m := gameHeaderRE.FindStringSubmatch(line); m != nil {
			gameNum, _ := strconv.Atoi(m[1])
			currentGame = NewGame(gameNum)
			match.Games = append(match.Games, currentGame)
			continue
		}

		if m := tagRE.FindStringSubmatch(line); m != nil {
			if err := applyTag(match, currentGame, m[1], m[2]); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNum)
			}
			continue
		}

		if m := moveLineRE.FindStringSubmatch(line); m != nil {
			if currentGame == nil {
				return nil, errors.Errorf("line %d: move outside of a game", lineNum)
			}
			move, err := notation.ParseMove(m[2])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNum)
			}
			currentGame.AddMove(move)
			continue
		}

		return nil, errors.Errorf("line %d: unrecognized %q", lineNum, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading record")
	}

	return match, nil
}

// applyTag stores a tag on the current game, or on the match before the first game.
func applyTag(match *Match, game *Game, key, value string) error {
	key = strings.ToLower(key)

	if game != nil {
		switch key {
		case "position":
			if _, err := notation.Parse(value, 0); err != nil {
				return err
			}
			game.Position = value
			return nil
		case "side":
			side, err := strconv.Atoi(value)
			if err != nil || !engine.Color(side).Valid() {
				return errors.Errorf("side must be 0 or 1, got %q", value)
			}
			game.Side = engine.Color(side)
			return nil
		case "result":
			game.Result = value
			return nil
		}
	}

	switch key {
	case "white":
		match.White = value
	case "black":
		match.Black = value
	case "event":
		match.Event = value
	case "date":
		match.Date = value
	case "round":
		match.Round = value
	case "site", "place":
		match.Place = value
	case "annotator":
		match.Annotator = value
	}
	return nil
}

// ExportRecord writes a match in the record format.
func ExportRecord(w io.Writer, match *Match) error {
	bw := bufio.NewWriter(w)

	writeTag(bw, "Event", match.Event)
	writeTag(bw, "Site", match.Place)
	writeTag(bw, "Date", match.Date)
	writeTag(bw, "Round", match.Round)
	fmt.Fprintf(bw, "[White %q]\n", match.White)
	fmt.Fprintf(bw, "[Black %q]\n", match.Black)
	writeTag(bw, "Annotator", match.Annotator)

	for _, game := range match.Games {
		fmt.Fprintf(bw, "\nGame %d\n", game.Number)
		fmt.Fprintf(bw, "[Position %q]\n", game.Position)
		fmt.Fprintf(bw, "[Side \"%d\"]\n", int(game.Side))
		for i, m := range game.Moves {
			fmt.Fprintf(bw, "%d. %s\n", i+1, engine.FormatMove(m, notation.Describe))
		}
		writeTag(bw, "Result", game.Result)
	}

	return errors.Wrap(bw.Flush(), "writing record")
}

func writeTag(w io.Writer, key, value string) {
	if value != "" {
		fmt.Fprintf(w, "[%s %q]\n", key, value)
	}
}
