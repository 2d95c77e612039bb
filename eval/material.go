// Package eval provides position evaluators for the search engine.
package eval

import (
	"math/bits"

	"heron/engine"
)

// Material values in centipawns.
const (
	PawnValue   int16 = 100
	KnightValue int16 = 320
	BishopValue int16 = 330
	RookValue   int16 = 500
	QueenValue  int16 = 900
)

// CountMaterial is the simplest possible evaluator: a signed material sum.
type CountMaterial struct{}

func (CountMaterial) Evaluate(state *engine.GameState) (int16, error) {
	if state.IsDraw() {
		return engine.DrawScore, nil
	}
	if state.Status() == engine.Checkmate {
		return -engine.MateValue + int16(state.Ply()), nil
	}

	board := state.Board()
	diff := func(white, black uint64) int16 {
		return int16(bits.OnesCount64(white)) - int16(bits.OnesCount64(black))
	}

	var score int16
	score += PawnValue * diff(board.White.Pawns, board.Black.Pawns)
	score += KnightValue * diff(board.White.Knights, board.Black.Knights)
	score += BishopValue * diff(board.White.Bishops, board.Black.Bishops)
	score += RookValue * diff(board.White.Rooks, board.Black.Rooks)
	score += QueenValue * diff(board.White.Queens, board.Black.Queens)

	if !board.Wtomove {
		score = -score
	}
	return score, nil
}
