package engine

import (
	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"
)

// Picker stages, tried in order. Later stages are only materialized when an
// earlier stage fails to produce a cutoff.
const (
	stageHashMove = iota
	stageGoodCaptures
	stageKiller1
	stageKiller2
	stageCounter
	stageQuiets
	stageBadCaptures
	stageDone
)

// movePicker yields the legal moves of a position one at a time, best
// guess first. Every legal move is yielded exactly once.
type movePicker struct {
	board   *dragontoothmg.Board
	history *historyTable

	hashMove dragontoothmg.Move
	killer1  dragontoothmg.Move
	killer2  dragontoothmg.Move
	counter  dragontoothmg.Move

	legal       []dragontoothmg.Move
	stage       int
	partitioned bool

	goodCaptures []dragontoothmg.Move
	badCaptures  []dragontoothmg.Move
	quiets       []dragontoothmg.Move
	index        int
}

func newMovePicker(b *dragontoothmg.Board, hashMove, killer1, killer2, counter dragontoothmg.Move, history *historyTable) *movePicker {
	return &movePicker{
		board:    b,
		history:  history,
		hashMove: hashMove,
		killer1:  killer1,
		killer2:  killer2,
		counter:  counter,
		legal:    b.GenerateLegalMoves(),
	}
}

// next returns the following move, or EmptyMove when exhausted.
func (p *movePicker) next() dragontoothmg.Move {
	for {
		switch p.stage {
		case stageHashMove:
			p.stage = stageGoodCaptures
			if p.hashMove != EmptyMove && slices.Contains(p.legal, p.hashMove) {
				return p.hashMove
			}

		case stageGoodCaptures:
			p.partition()
			if p.index < len(p.goodCaptures) {
				p.index++
				return p.goodCaptures[p.index-1]
			}
			p.stage = stageKiller1
			p.index = 0

		case stageKiller1:
			p.stage = stageKiller2
			if p.isPendingQuiet(p.killer1) {
				return p.killer1
			}

		case stageKiller2:
			p.stage = stageCounter
			if p.killer2 != p.killer1 && p.isPendingQuiet(p.killer2) {
				return p.killer2
			}

		case stageCounter:
			p.stage = stageQuiets
			if p.counter != p.killer1 && p.counter != p.killer2 && p.isPendingQuiet(p.counter) {
				return p.counter
			}

		case stageQuiets:
			for p.index < len(p.quiets) {
				mv := p.quiets[p.index]
				p.index++
				if mv == p.killer1 || mv == p.killer2 || mv == p.counter {
					continue
				}
				return mv
			}
			p.stage = stageBadCaptures
			p.index = 0

		case stageBadCaptures:
			if p.index < len(p.badCaptures) {
				p.index++
				return p.badCaptures[p.index-1]
			}
			p.stage = stageDone

		default:
			return EmptyMove
		}
	}
}

// isPendingQuiet reports whether mv is a legal quiet move that has not been
// yielded by an earlier stage.
func (p *movePicker) isPendingQuiet(mv dragontoothmg.Move) bool {
	return mv != EmptyMove && mv != p.hashMove && slices.Contains(p.quiets, mv)
}

// partition splits the legal moves into scored capture and quiet lists,
// leaving the hash move out since it was already tried.
func (p *movePicker) partition() {
	if p.partitioned {
		return
	}
	p.partitioned = true

	for _, mv := range p.legal {
		if mv == p.hashMove {
			continue
		}
		if dragontoothmg.IsCapture(mv, p.board) {
			if see(p.board, mv) >= 0 {
				p.goodCaptures = append(p.goodCaptures, mv)
			} else {
				p.badCaptures = append(p.badCaptures, mv)
			}
		} else {
			p.quiets = append(p.quiets, mv)
		}
	}

	byMvvLva := func(a, b dragontoothmg.Move) bool {
		return mvvLvaScore(p.board, a) > mvvLvaScore(p.board, b)
	}
	slices.SortStableFunc(p.goodCaptures, byMvvLva)
	slices.SortStableFunc(p.badCaptures, byMvvLva)

	white := p.board.Wtomove
	slices.SortStableFunc(p.quiets, func(a, b dragontoothmg.Move) bool {
		return p.history.get(white, a) > p.history.get(white, b)
	})
}
