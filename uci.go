package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dylhunn/dragontoothmg"

	"heron/engine"
	"heron/eval"
)

func main() {
	uciLoop()
}

func uciLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	searcher := engine.NewSearcher(eval.PstEval{})
	searcher.Verbose = true
	state := engine.NewGameStateFromStart()

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name Heron")
			fmt.Println("id author heron contributors")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			state = engine.NewGameStateFromStart()
			searcher.ClearSearchState()
		case "position":
			next, ok := parsePosition(line)
			if !ok {
				continue
			}
			state = next
		case "go":
			info, depth := parseGo(line)
			searcher.MaxDepth = depth
			mv, ok, err := searcher.NextMove(state, info)
			if err != nil {
				fmt.Println("info string search failed:", err)
				fmt.Println("bestmove 0000")
				continue
			}
			if !ok {
				fmt.Println("bestmove 0000")
				continue
			}
			fmt.Println("bestmove", mv.String())
		case "stop":
			// Search runs synchronously; nothing to interrupt.
		case "quit":
			return
		}
	}
}

func parsePosition(line string) (*engine.GameState, bool) {
	posScanner := bufio.NewScanner(strings.NewReader(line))
	posScanner.Split(bufio.ScanWords)
	posScanner.Scan() // skip the first token
	if !posScanner.Scan() {
		fmt.Println("info string Malformed position command")
		return nil, false
	}

	var state *engine.GameState
	switch strings.ToLower(posScanner.Text()) {
	case "startpos":
		state = engine.NewGameStateFromStart()
		posScanner.Scan() // advance the scanner to leave it in a consistent state
	case "fen":
		fenstr := ""
		for posScanner.Scan() && strings.ToLower(posScanner.Text()) != "moves" {
			fenstr += posScanner.Text() + " "
		}
		parsed, err := engine.NewGameState(strings.TrimSpace(fenstr))
		if err != nil {
			fmt.Println("info string Invalid fen position")
			return nil, false
		}
		state = parsed
	default:
		fmt.Println("info string Invalid position subcommand")
		return nil, false
	}

	if strings.ToLower(posScanner.Text()) != "moves" {
		return state, true
	}
	for posScanner.Scan() { // for each move
		moveStr := strings.ToLower(posScanner.Text())
		var nextMove dragontoothmg.Move
		found := false
		for _, mv := range state.Board().GenerateLegalMoves() {
			if mv.String() == moveStr {
				nextMove = mv
				found = true
				break
			}
		}
		if !found {
			fmt.Println("info string Move", moveStr, "not found for position", state.Fen())
			return nil, false
		}
		state.MakeMove(nextMove)
	}
	return state, true
}

// parseGo reads the clock fields of a go command. A depth limit of 0 leaves
// the searcher's default in place.
func parseGo(line string) (engine.TimeInfo, int8) {
	goScanner := bufio.NewScanner(strings.NewReader(line))
	goScanner.Split(bufio.ScanWords)
	goScanner.Scan() // skip the first token

	var info engine.TimeInfo
	var depth int8

	readMillis := func(name string) (time.Duration, bool) {
		if !goScanner.Scan() {
			fmt.Println("info string Malformed go command option", name)
			return 0, false
		}
		n, err := strconv.Atoi(goScanner.Text())
		if err != nil {
			fmt.Println("info string Malformed go command option; could not convert", name)
			return 0, false
		}
		return time.Duration(n) * time.Millisecond, true
	}

	for goScanner.Scan() {
		switch strings.ToLower(goScanner.Text()) {
		case "infinite":
			continue
		case "wtime":
			if d, ok := readMillis("wtime"); ok {
				info.WhiteTime = d
			}
		case "btime":
			if d, ok := readMillis("btime"); ok {
				info.BlackTime = d
			}
		case "winc":
			if d, ok := readMillis("winc"); ok {
				info.WhiteIncrement = d
			}
		case "binc":
			if d, ok := readMillis("binc"); ok {
				info.BlackIncrement = d
			}
		case "movetime":
			if d, ok := readMillis("movetime"); ok {
				info.MoveTime = d
			}
		case "movestogo":
			if goScanner.Scan() {
				if n, err := strconv.Atoi(goScanner.Text()); err == nil {
					info.MovesToGo = n
				}
			}
		case "depth":
			if goScanner.Scan() {
				if n, err := strconv.Atoi(goScanner.Text()); err == nil && n > 0 && n < 128 {
					depth = int8(n)
				}
			}
		}
	}
	return info, depth
}
