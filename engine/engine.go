package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/dylhunn/dragontoothmg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	// Infinity bounds every reachable score, mate scores included.
	Infinity int16 = 31000

	// MateValue is the score of a delivered checkmate at ply 0; actual mate
	// scores are MateValue minus the ply at which the mate occurs.
	MateValue int16 = 30000

	// MateThreshold separates mate scores from positional ones. Scores beyond
	// it are ply-dependent and must never be cached in the transposition table.
	MateThreshold int16 = 29000

	DrawScore int16 = 0
)

// EmptyMove is the zero move, used as the "no move" sentinel throughout.
var EmptyMove dragontoothmg.Move

// ErrEvalFailed marks evaluator backend failures (e.g. a learned-model
// backend that cannot load or run). It is propagated out of the search
// rather than substituted with a fabricated score.
var ErrEvalFailed = errors.New("evaluation backend failed")

// Evaluator scores a position in centipawns from the side to move's
// perspective (positive = side to move is better). Implementations must
// return 0 for drawn positions and -MateValue+ply for checkmates, and must
// never exceed Infinity in magnitude.
type Evaluator interface {
	Evaluate(state *GameState) (int16, error)
}

// SearchEngine is the capability surface consumed by the protocol adapter
// and the arbiter.
type SearchEngine interface {
	// NextMove finds the move to play. ok is false when no legal move exists
	// (or the engine resigns); err reports evaluator backend failures.
	NextMove(state *GameState, info TimeInfo) (mv dragontoothmg.Move, ok bool, err error)

	// ClearSearchState invalidates the transposition table and the
	// killer/history/counter tables. Must be called whenever an unrelated
	// position is set (new game, externally supplied position).
	ClearSearchState()

	// Ponder may do speculative work on the opponent's time. No-op by default.
	Ponder()
}

// TimeInfo carries the clock state for one move. Zero values mean the field
// was absent ("infinite"/untimed semantics); the engine must cope with any
// combination of missing fields.
type TimeInfo struct {
	MoveTime       time.Duration
	WhiteTime      time.Duration
	BlackTime      time.Duration
	WhiteIncrement time.Duration
	BlackIncrement time.Duration
	MovesToGo      int
}

// deadline converts the clock state into a wall-clock stop time for the
// iterative-deepening loop. The zero time means "no deadline".
func (info TimeInfo) deadline(whiteToMove bool, now time.Time) time.Time {
	if info.MoveTime > 0 {
		return now.Add(info.MoveTime)
	}

	remaining := info.BlackTime
	increment := info.BlackIncrement
	if whiteToMove {
		remaining = info.WhiteTime
		increment = info.WhiteIncrement
	}
	if remaining <= 0 {
		return time.Time{}
	}

	movesLeft := info.MovesToGo
	if movesLeft <= 0 {
		movesLeft = 30
	}

	budget := remaining/time.Duration(movesLeft) + increment

	// Never spend more than 70% of the remaining clock on a single move.
	if limit := remaining * 7 / 10; budget > limit {
		budget = limit
	}
	if budget < time.Millisecond {
		budget = time.Millisecond
	}
	return now.Add(budget)
}

// Status is the terminal state of a position.
type Status int8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return fmt.Sprintf("Status(%d)", int8(s))
	}
}

// AnyMove plays the first available legal move. Debugging engine.
type AnyMove struct{}

func (AnyMove) NextMove(state *GameState, _ TimeInfo) (dragontoothmg.Move, bool, error) {
	board := state.Board()
	moves := board.GenerateLegalMoves()
	if len(moves) == 0 {
		return EmptyMove, false, nil
	}
	return moves[0], true, nil
}

func (AnyMove) ClearSearchState() {}

func (AnyMove) Ponder() {}
