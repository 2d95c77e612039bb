package engine

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// undoInfo remembers enough to reverse one MakeMove. Storing the full prior
// board is cheap (the board is a fixed-size value) and sidesteps the
// bookkeeping of incremental unmake.
type undoInfo struct {
	move  dragontoothmg.Move
	prior dragontoothmg.Board
}

// GameState is a board plus the game history needed for repetition and
// fifty-move rule detection. It is not safe for concurrent use.
type GameState struct {
	board dragontoothmg.Board
	stack []undoInfo

	// seen counts how many times each Zobrist hash has occurred in the game,
	// the current position included.
	seen map[uint64]int
}

// NewGameState parses a FEN position. The starting position's hash is
// counted as seen once.
func NewGameState(fen string) (state *GameState, err error) {
	if err := checkFen(fen); err != nil {
		return nil, err
	}
	// The board library panics rather than erroring on inputs its parser
	// cannot handle.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse fen %q: %v", fen, r)
		}
	}()
	board := dragontoothmg.ParseFen(fen)
	return &GameState{
		board: board,
		seen:  map[uint64]int{board.Hash(): 1},
	}, nil
}

// checkFen rejects strings the board library would choke on: wrong field or
// rank counts, bad piece characters, over- or under-full ranks.
func checkFen(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return fmt.Errorf("parse fen %q: have %d fields, want 6", fen, len(fields))
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("parse fen %q: have %d ranks, want 8", fen, len(ranks))
	}
	for _, rank := range ranks {
		squares := 0
		for _, c := range rank {
			switch {
			case c >= '1' && c <= '8':
				squares += int(c - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", c):
				squares++
			default:
				return fmt.Errorf("parse fen %q: bad piece character %q", fen, c)
			}
		}
		if squares != 8 {
			return fmt.Errorf("parse fen %q: rank %q does not cover 8 squares", fen, rank)
		}
	}
	if fields[1] != "w" && fields[1] != "b" {
		return fmt.Errorf("parse fen %q: bad side to move %q", fen, fields[1])
	}
	return nil
}

// NewGameStateFromStart returns the standard starting position.
func NewGameStateFromStart() *GameState {
	state, err := NewGameState(dragontoothmg.Startpos)
	if err != nil {
		panic(err)
	}
	return state
}

// Board returns a pointer to the current position. Callers must not hold it
// across MakeMove/UndoLastMove.
func (g *GameState) Board() *dragontoothmg.Board {
	return &g.board
}

// Hash returns the Zobrist hash of the current position.
func (g *GameState) Hash() uint64 {
	return g.board.Hash()
}

// Fen returns the current position in FEN notation.
func (g *GameState) Fen() string {
	return g.board.ToFen()
}

// Ply reports how many moves have been made on this state.
func (g *GameState) Ply() int {
	return len(g.stack)
}

// LastMove returns the most recently made move, or EmptyMove at the root.
func (g *GameState) LastMove() dragontoothmg.Move {
	if len(g.stack) == 0 {
		return EmptyMove
	}
	return g.stack[len(g.stack)-1].move
}

// MakeMove applies mv, which must be legal in the current position, and
// returns how many times the resulting position has now occurred.
func (g *GameState) MakeMove(mv dragontoothmg.Move) int {
	g.stack = append(g.stack, undoInfo{move: mv, prior: g.board})
	g.board.Apply(mv)
	count := g.seen[g.board.Hash()] + 1
	g.seen[g.board.Hash()] = count
	return count
}

// UndoLastMove reverses the most recent MakeMove. Panics if no move has
// been made.
func (g *GameState) UndoLastMove() {
	if len(g.stack) == 0 {
		panic("UndoLastMove: no move to undo")
	}
	hash := g.board.Hash()
	if n := g.seen[hash]; n <= 1 {
		delete(g.seen, hash)
	} else {
		g.seen[hash] = n - 1
	}
	top := g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
	g.board = top.prior
}

// RepetitionCount reports how many times the current position has occurred.
func (g *GameState) RepetitionCount() int {
	return g.seen[g.board.Hash()]
}

// Status classifies the current position as ongoing, checkmate or
// stalemate.
func (g *GameState) Status() Status {
	if len(g.board.GenerateLegalMoves()) > 0 {
		return Ongoing
	}
	if g.board.OurKingInCheck() {
		return Checkmate
	}
	return Stalemate
}

// IsDraw reports whether the position is drawn by stalemate, threefold
// repetition or the fifty-move rule.
func (g *GameState) IsDraw() bool {
	if g.RepetitionCount() >= 3 || g.board.Halfmoveclock >= 100 {
		return true
	}
	return g.Status() == Stalemate
}

// Clone returns an independent copy sharing no mutable structure.
func (g *GameState) Clone() *GameState {
	return &GameState{
		board: g.board,
		stack: slices.Clone(g.stack),
		seen:  maps.Clone(g.seen),
	}
}
