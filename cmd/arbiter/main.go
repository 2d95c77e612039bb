// Command arbiter plays two built-in engines against each other and prints
// the game as PGN.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/dylhunn/dragontoothmg"

	"heron/arbiter"
	"heron/engine"
	"heron/eval"
)

func main() {
	fen := flag.String("fen", dragontoothmg.Startpos, "starting position in FEN")
	maxMoves := flag.Int("max-moves", 200, "ply limit before the game is declared drawn")
	depth := flag.Int("depth", 4, "search depth for both engines")
	flag.Parse()

	white := engine.NewSearcher(eval.PstEval{})
	black := engine.NewSearcher(eval.CountMaterial{})
	white.MaxDepth = int8(*depth)
	black.MaxDepth = int8(*depth)

	result, state, pgn, err := arbiter.PlayMatch(white, black, *fen, *maxMoves)
	if err != nil {
		log.Fatalf("match aborted: %v", err)
	}

	pgn.AddTag("Event", "heron arbiter match")
	pgn.AddTag("White", "heron pst")
	pgn.AddTag("Black", "heron material")

	log.Printf("result %s after %d plies, final position %s", result, state.Ply(), state.Fen())
	fmt.Println(pgn)
}
