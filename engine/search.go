package engine

import (
	"fmt"
	"time"

	"github.com/dylhunn/dragontoothmg"
)

const (
	// aspirationWindow is the initial half-width around the previous
	// iteration's score; it doubles on every failed re-search.
	aspirationWindow int16 = 32

	// aspirationMaxRetries bounds the re-searches before giving up on the
	// window and searching the full score range.
	aspirationMaxRetries = 4

	// untimedDepth is the iteration limit when the caller supplies neither a
	// clock nor an explicit depth.
	untimedDepth int8 = 6

	absoluteMaxDepth int8 = 64
)

// Searcher is a negamax alpha-beta engine with iterative deepening,
// aspiration windows, principal variation search, a transposition table and
// staged move ordering. It is not safe for concurrent use.
type Searcher struct {
	// Eval scores leaf and terminal positions. Required.
	Eval Evaluator

	// MaxDepth caps iterative deepening when positive.
	MaxDepth int8

	// Verbose enables UCI-style "info" lines per completed depth.
	Verbose bool

	tt       *transpositionTable
	killers  killerTable
	history  historyTable
	counters counterTable
}

func NewSearcher(eval Evaluator) *Searcher {
	return &Searcher{
		Eval: eval,
		tt:   newTranspositionTable(defaultTTSize),
	}
}

// ClearSearchState wipes everything remembered from earlier searches.
func (s *Searcher) ClearSearchState() {
	if s.tt != nil {
		s.tt.clear()
	}
	s.killers.clear()
	s.history.clear()
	s.counters.clear()
}

func (s *Searcher) Ponder() {}

// NextMove runs iterative deepening until the clock or the depth limit runs
// out and returns the best move of the last completed iteration. The clock
// is only consulted between iterations, so the move of a finished depth is
// never discarded.
func (s *Searcher) NextMove(state *GameState, info TimeInfo) (dragontoothmg.Move, bool, error) {
	if s.tt == nil {
		s.tt = newTranspositionTable(defaultTTSize)
	}
	s.killers.clear()

	board := state.Board()
	if len(board.GenerateLegalMoves()) == 0 {
		return EmptyMove, false, nil
	}

	start := time.Now()
	deadline := info.deadline(board.Wtomove, start)

	maxDepth := s.MaxDepth
	if maxDepth <= 0 {
		if deadline.IsZero() {
			maxDepth = untimedDepth
		} else {
			maxDepth = absoluteMaxDepth
		}
	}

	// Resume past the depth a previous search of this position completed.
	startDepth := int8(1)
	var center int16
	haveCenter := false
	if entry, ok := s.tt.probe(state.Hash()); ok && entry.kind == boundExact {
		center, haveCenter = entry.score, true
		startDepth = resumeDepth(entry.depth, maxDepth)
	}

	var bestMove dragontoothmg.Move
	for depth := startDepth; depth <= maxDepth; depth++ {
		score, move, err := s.aspirationSearch(state, depth, center, haveCenter)
		if err != nil {
			return EmptyMove, false, err
		}
		bestMove = move
		center, haveCenter = score, true

		if s.Verbose {
			elapsed := time.Since(start)
			fmt.Printf("info depth %d score cp %d time %d pv %s\n",
				depth, score, elapsed.Milliseconds(), move.String())
		}
		if score >= MateThreshold || score <= -MateThreshold {
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}
	}
	return bestMove, bestMove != EmptyMove, nil
}

// resumeDepth picks the first iterative-deepening depth given the depth a
// cached exact entry was searched to. Completed depths are skipped, but at
// least one iteration always runs.
func resumeDepth(entryDepth, maxDepth int8) int8 {
	if entryDepth < 1 {
		return 1
	}
	return min(entryDepth+1, maxDepth)
}

// aspirationSearch wraps rootSearch in a window around the previous score,
// widening exponentially on failure and falling back to the full window
// after too many retries.
func (s *Searcher) aspirationSearch(state *GameState, depth int8, center int16, haveCenter bool) (int16, dragontoothmg.Move, error) {
	alpha, beta := -Infinity, Infinity
	window := int32(aspirationWindow)
	if haveCenter && depth > 1 {
		alpha = clampScore(int32(center) - window)
		beta = clampScore(int32(center) + window)
	}

	for attempt := 0; ; attempt++ {
		score, move, err := s.rootSearch(state, depth, alpha, beta)
		if err != nil {
			return 0, EmptyMove, err
		}
		if score > alpha && score < beta {
			return score, move, nil
		}
		if attempt >= aspirationMaxRetries {
			alpha, beta = -Infinity, Infinity
			continue
		}
		window *= 2
		if score <= alpha {
			alpha = clampScore(int32(score) - window)
		} else {
			beta = clampScore(int32(score) + window)
		}
	}
}

func clampScore(v int32) int16 {
	if v > int32(Infinity) {
		return Infinity
	}
	if v < int32(-Infinity) {
		return -Infinity
	}
	return int16(v)
}

// rootSearch is one fixed-depth search of the root position.
func (s *Searcher) rootSearch(state *GameState, depth int8, alpha, beta int16) (int16, dragontoothmg.Move, error) {
	board := state.Board()

	var hashMove dragontoothmg.Move
	if entry, ok := s.tt.probe(state.Hash()); ok {
		hashMove = entry.move
	}
	killer1, killer2 := s.killers.probe(0)
	counter := s.counters.probe(board.Wtomove, state.LastMove())
	picker := newMovePicker(board, hashMove, killer1, killer2, counter, &s.history)

	origAlpha := alpha
	bestScore := -Infinity
	var bestMove dragontoothmg.Move
	first := true

	for mv := picker.next(); mv != EmptyMove; mv = picker.next() {
		score, err := s.searchMove(state, mv, depth, 0, alpha, beta, first)
		if err != nil {
			return 0, EmptyMove, err
		}
		first = false

		if score > bestScore {
			bestScore, bestMove = score, mv
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	s.storeBounded(state.Hash(), depth, bestMove, bestScore, origAlpha, beta)
	return bestScore, bestMove, nil
}

// searchEval is the negamax recursion. alpha/beta are from the side to
// move's perspective; prevMove is the move that produced this position.
func (s *Searcher) searchEval(state *GameState, alpha, beta int16, depth, ply int8, prevMove dragontoothmg.Move) (int16, error) {
	board := state.Board()

	if state.RepetitionCount() >= 3 || board.Halfmoveclock >= 100 {
		return DrawScore, nil
	}

	var hashMove dragontoothmg.Move
	if entry, ok := s.tt.probe(state.Hash()); ok {
		hashMove = entry.move
		if entry.depth >= depth {
			switch entry.kind {
			case boundExact:
				return entry.score, nil
			case boundLower:
				if entry.score > alpha {
					alpha = entry.score
				}
			case boundUpper:
				if entry.score < beta {
					beta = entry.score
				}
			}
			if alpha >= beta {
				return entry.score, nil
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(state, alpha, beta, ply, 0)
	}

	killer1, killer2 := s.killers.probe(ply)
	counter := s.counters.probe(board.Wtomove, prevMove)
	picker := newMovePicker(board, hashMove, killer1, killer2, counter, &s.history)

	origAlpha := alpha
	bestScore := -Infinity
	var bestMove dragontoothmg.Move
	first := true

	for mv := picker.next(); mv != EmptyMove; mv = picker.next() {
		score, err := s.searchMove(state, mv, depth, ply, alpha, beta, first)
		if err != nil {
			return 0, err
		}
		first = false

		if score > bestScore {
			bestScore, bestMove = score, mv
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if !dragontoothmg.IsCapture(mv, board) {
				s.killers.add(ply, mv)
				s.history.add(board.Wtomove, mv, depth)
				s.counters.add(board.Wtomove, prevMove, mv)
			}
			break
		}
	}

	// No legal moves: checkmate or stalemate, scored by the evaluator.
	if first {
		return s.Eval.Evaluate(state)
	}

	s.storeBounded(state.Hash(), depth, bestMove, bestScore, origAlpha, beta)
	return bestScore, nil
}

// searchMove applies one move and searches the child. The first move of a
// node gets the full window; later moves are probed with a null window and
// re-searched only when they beat alpha.
func (s *Searcher) searchMove(state *GameState, mv dragontoothmg.Move, depth, ply int8, alpha, beta int16, first bool) (int16, error) {
	repetitions := state.MakeMove(mv)
	defer state.UndoLastMove()

	if repetitions >= 3 || state.Board().Halfmoveclock >= 100 {
		return DrawScore, nil
	}
	if first {
		score, err := s.searchEval(state, -beta, -alpha, depth-1, ply+1, mv)
		return -score, err
	}

	score, err := s.searchEval(state, -alpha-1, -alpha, depth-1, ply+1, mv)
	if err != nil {
		return 0, err
	}
	score = -score
	if score > alpha && score < beta {
		score, err = s.searchEval(state, -beta, -alpha, depth-1, ply+1, mv)
		return -score, err
	}
	return score, nil
}

// storeBounded classifies the score against the original window and caches
// it. Mate-range scores are ply-dependent and are never cached.
func (s *Searcher) storeBounded(hash uint64, depth int8, move dragontoothmg.Move, score, origAlpha, beta int16) {
	if score >= MateThreshold || score <= -MateThreshold {
		return
	}
	kind := boundExact
	if score <= origAlpha {
		kind = boundUpper
	} else if score >= beta {
		kind = boundLower
	}
	s.tt.store(hash, depth, move, score, kind)
}
