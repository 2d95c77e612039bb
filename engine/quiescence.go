package engine

import (
	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"
)

const (
	// seeQuiescenceFloor discards captures the exchange evaluation scores
	// worse than a minor-for-pawn trade.
	seeQuiescenceFloor int16 = -100

	// deltaPruningMargin is the positional swing a capture is granted on top
	// of its material gain before it is pruned as hopeless.
	deltaPruningMargin int16 = 200

	// Low-material positions get a short burst of quiet checks and king
	// moves so that elementary mates are not missed at the horizon.
	endgameMenLimit       = 6
	endgameQuietPlyBudget = 2
)

// quiescence resolves captures until the position is quiet, so the static
// evaluation is never taken in the middle of an exchange.
func (s *Searcher) quiescence(state *GameState, alpha, beta int16, ply, qply int8) (int16, error) {
	board := state.Board()

	if state.RepetitionCount() >= 3 || board.Halfmoveclock >= 100 {
		return DrawScore, nil
	}

	standPat, err := s.Eval.Evaluate(state)
	if err != nil {
		return 0, err
	}
	if standPat >= beta {
		return standPat, nil
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := s.quiescenceMoves(state, standPat, alpha, qply)
	bestScore := standPat
	for _, mv := range moves {
		score, err := s.quiescenceMove(state, mv, alpha, beta, ply, qply)
		if err != nil {
			return 0, err
		}
		if score > bestScore {
			bestScore = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}
	return bestScore, nil
}

func (s *Searcher) quiescenceMove(state *GameState, mv dragontoothmg.Move, alpha, beta int16, ply, qply int8) (int16, error) {
	repetitions := state.MakeMove(mv)
	defer state.UndoLastMove()

	if repetitions >= 3 || state.Board().Halfmoveclock >= 100 {
		return DrawScore, nil
	}
	score, err := s.quiescence(state, -beta, -alpha, ply+1, qply+1)
	return -score, err
}

// quiescenceMoves selects the captures worth trying, MVV-LVA ordered, plus
// checking moves and king moves in sparse endgames.
func (s *Searcher) quiescenceMoves(state *GameState, standPat, alpha int16, qply int8) []dragontoothmg.Move {
	board := state.Board()
	legal := board.GenerateLegalMoves()

	extendQuiets := totalMen(board) <= endgameMenLimit && qply <= endgameQuietPlyBudget

	var picked []dragontoothmg.Move
	for _, mv := range legal {
		if dragontoothmg.IsCapture(mv, board) {
			// Even winning the piece outright cannot reach alpha.
			if standPat+PieceValue[victimPiece(board, mv)]+deltaPruningMargin <= alpha {
				continue
			}
			if see(board, mv) < seeQuiescenceFloor {
				continue
			}
			picked = append(picked, mv)
			continue
		}
		if extendQuiets && (movingPiece(board, mv) == dragontoothmg.King || givesCheck(state, mv)) {
			picked = append(picked, mv)
		}
	}

	slices.SortStableFunc(picked, func(a, b dragontoothmg.Move) bool {
		return mvvLvaScore(board, a) > mvvLvaScore(board, b)
	})
	return picked
}

func givesCheck(state *GameState, mv dragontoothmg.Move) bool {
	state.MakeMove(mv)
	inCheck := state.Board().OurKingInCheck()
	state.UndoLastMove()
	return inCheck
}
