package engine

import (
	"errors"
	"fmt"
	"math/bits"
	"testing"
	"time"
)

// plainMaterial is a minimal evaluator for search tests.
type plainMaterial struct{}

func (plainMaterial) Evaluate(state *GameState) (int16, error) {
	if state.IsDraw() {
		return DrawScore, nil
	}
	if state.Status() == Checkmate {
		return -MateValue + int16(state.Ply()), nil
	}
	b := state.Board()
	var score int16
	diff := func(white, black uint64, value int16) {
		score += value * int16(bits.OnesCount64(white)-bits.OnesCount64(black))
	}
	diff(b.White.Pawns, b.Black.Pawns, 100)
	diff(b.White.Knights, b.Black.Knights, 300)
	diff(b.White.Bishops, b.Black.Bishops, 300)
	diff(b.White.Rooks, b.Black.Rooks, 500)
	diff(b.White.Queens, b.Black.Queens, 900)
	if !b.Wtomove {
		score = -score
	}
	return score, nil
}

type brokenEval struct{}

func (brokenEval) Evaluate(*GameState) (int16, error) {
	return 0, fmt.Errorf("onnx session: %w", ErrEvalFailed)
}

func newTestState(t *testing.T, fen string) *GameState {
	t.Helper()
	state, err := NewGameState(fen)
	if err != nil {
		t.Fatal(err)
	}
	return state
}

func TestFindsMateInOne(t *testing.T) {
	state := newTestState(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1")

	s := NewSearcher(plainMaterial{})
	score, move, err := s.rootSearch(state, 3, -Infinity, Infinity)
	if err != nil {
		t.Fatal(err)
	}
	if move.String() != "a1a8" {
		t.Errorf("best move = %s, want a1a8", move.String())
	}
	if score < MateThreshold {
		t.Errorf("score = %d, want a mate score above %d", score, MateThreshold)
	}

	s.MaxDepth = 3
	mv, ok, err := s.NextMove(state, TimeInfo{})
	if err != nil || !ok {
		t.Fatalf("NextMove: ok=%v err=%v", ok, err)
	}
	if mv.String() != "a1a8" {
		t.Errorf("NextMove = %s, want a1a8", mv.String())
	}
}

// plainNegamax searches the same tree as Searcher with no windows, no
// ordering and no table: a correctness reference.
func plainNegamax(s *Searcher, state *GameState, depth, ply int8) (int16, error) {
	if state.RepetitionCount() >= 3 || state.Board().Halfmoveclock >= 100 {
		return DrawScore, nil
	}
	if depth <= 0 {
		return s.quiescence(state, -Infinity, Infinity, ply, 0)
	}
	moves := state.Board().GenerateLegalMoves()
	if len(moves) == 0 {
		return s.Eval.Evaluate(state)
	}

	best := -Infinity
	for _, mv := range moves {
		repetitions := state.MakeMove(mv)
		var score int16
		var err error
		if repetitions >= 3 || state.Board().Halfmoveclock >= 100 {
			score = DrawScore
		} else {
			score, err = plainNegamax(s, state, depth-1, ply+1)
			score = -score
		}
		state.UndoLastMove()
		if err != nil {
			return 0, err
		}
		if score > best {
			best = score
		}
	}
	return best, nil
}

func TestSearchMatchesPlainNegamax(t *testing.T) {
	fens := []string{
		"8/8/8/8/4k3/8/P7/K7 w - - 0 1",
		"8/8/8/8/8/4k3/8/R3K3 w - - 0 1",
		"6k1/5ppp/8/8/8/8/8/R6K w - - 0 1",
	}
	for _, fen := range fens {
		for depth := int8(2); depth <= 3; depth++ {
			want, err := plainNegamax(NewSearcher(plainMaterial{}), newTestState(t, fen), depth, 0)
			if err != nil {
				t.Fatal(err)
			}

			s := NewSearcher(plainMaterial{})
			got, _, err := s.rootSearch(newTestState(t, fen), depth, -Infinity, Infinity)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("%s: rootSearch depth %d = %d, plain negamax = %d", fen, depth, got, want)
			}
		}
	}
}

// Searching the same position again with a warm table must not change the
// fixed-depth score.
func TestWarmTableDoesNotChangeScore(t *testing.T) {
	fen := "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"
	s := NewSearcher(plainMaterial{})

	first, _, err := s.rootSearch(newTestState(t, fen), 3, -Infinity, Infinity)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := s.rootSearch(newTestState(t, fen), 3, -Infinity, Infinity)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("scores diverged with warm table: %d then %d", first, second)
	}
}

func TestResumeDepthSkipsCompletedDepths(t *testing.T) {
	cases := []struct {
		entryDepth, maxDepth, want int8
	}{
		{0, 6, 1},
		{1, 6, 2},
		{3, 6, 4},
		{5, 6, 6},
		{6, 6, 6},
		{9, 6, 6},
	}
	for _, tc := range cases {
		if got := resumeDepth(tc.entryDepth, tc.maxDepth); got != tc.want {
			t.Errorf("resumeDepth(%d, %d) = %d, want %d", tc.entryDepth, tc.maxDepth, got, tc.want)
		}
	}
}

// A repeated search resumes from the cached depth and must land on the same
// move.
func TestRepeatedSearchResumesConsistently(t *testing.T) {
	state := newTestState(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	s := NewSearcher(plainMaterial{})
	s.MaxDepth = 3

	first, ok, err := s.NextMove(state, TimeInfo{})
	if err != nil || !ok {
		t.Fatalf("first NextMove: ok=%v err=%v", ok, err)
	}
	second, ok, err := s.NextMove(state, TimeInfo{})
	if err != nil || !ok {
		t.Fatalf("second NextMove: ok=%v err=%v", ok, err)
	}
	if first != second {
		t.Errorf("moves diverged on a warm table: %s then %s", first.String(), second.String())
	}
}

func TestStartposMoveIsLegal(t *testing.T) {
	state := NewGameStateFromStart()
	s := NewSearcher(plainMaterial{})
	s.MaxDepth = 4

	mv, ok, err := s.NextMove(state, TimeInfo{})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("no move from the starting position")
	}
	for _, legal := range state.Board().GenerateLegalMoves() {
		if legal == mv {
			return
		}
	}
	t.Errorf("NextMove returned illegal move %s", mv.String())
}

func TestNoMoveWhenMated(t *testing.T) {
	state := newTestState(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	s := NewSearcher(plainMaterial{})
	s.MaxDepth = 2

	mv, ok, err := s.NextMove(state, TimeInfo{})
	if err != nil {
		t.Fatal(err)
	}
	if ok || mv != EmptyMove {
		t.Errorf("NextMove on a mated position: move=%s ok=%v", mv.String(), ok)
	}
}

func TestEvaluatorFailurePropagates(t *testing.T) {
	state := NewGameStateFromStart()
	s := NewSearcher(brokenEval{})
	s.MaxDepth = 2

	_, _, err := s.NextMove(state, TimeInfo{})
	if !errors.Is(err, ErrEvalFailed) {
		t.Errorf("err = %v, want wrapped ErrEvalFailed", err)
	}
}

func TestMoveTimeIsHonored(t *testing.T) {
	state := NewGameStateFromStart()
	s := NewSearcher(plainMaterial{})

	start := time.Now()
	mv, ok, err := s.NextMove(state, TimeInfo{MoveTime: 10 * time.Millisecond})
	if err != nil || !ok {
		t.Fatalf("NextMove: ok=%v err=%v", ok, err)
	}
	if mv == EmptyMove {
		t.Error("no move under time control")
	}
	// Depth 1 must always finish; the clock is checked between depths, so
	// the overall time can exceed the budget but not absurdly.
	if elapsed := time.Since(start); elapsed > 30*time.Second {
		t.Errorf("search ran %v on a 10ms budget", elapsed)
	}
}

func TestClearSearchStateEmptiesTables(t *testing.T) {
	s := NewSearcher(plainMaterial{})
	state := NewGameStateFromStart()
	if _, _, err := s.rootSearch(state, 3, -Infinity, Infinity); err != nil {
		t.Fatal(err)
	}

	s.ClearSearchState()
	if _, ok := s.tt.probe(state.Hash()); ok {
		t.Error("transposition entry survived ClearSearchState")
	}
	var zeroHist historyTable
	if s.history != zeroHist {
		t.Error("history table survived ClearSearchState")
	}
}
