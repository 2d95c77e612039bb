package engine

import (
	"github.com/dylhunn/dragontoothmg"
)

const maxSearchPly = 128

// mvvLvaScore ranks captures by most-valuable-victim, least-valuable-
// attacker. Promotions get the promoted piece's value on top so that e.g.
// a queening capture outranks a plain queen trade.
func mvvLvaScore(b *dragontoothmg.Board, mv dragontoothmg.Move) int16 {
	score := PieceValue[victimPiece(b, mv)]*16 - PieceValue[movingPiece(b, mv)]
	if promo := mv.Promote(); promo != 0 {
		score += PieceValue[promo]
	}
	return score
}

// killerTable keeps two quiet refutation moves per ply, FIFO.
type killerTable struct {
	moves [maxSearchPly][2]dragontoothmg.Move
}

func (k *killerTable) add(ply int8, mv dragontoothmg.Move) {
	slot := &k.moves[ply]
	if slot[0] == mv {
		return
	}
	slot[1] = slot[0]
	slot[0] = mv
}

func (k *killerTable) probe(ply int8) (dragontoothmg.Move, dragontoothmg.Move) {
	return k.moves[ply][0], k.moves[ply][1]
}

func (k *killerTable) clear() {
	*k = killerTable{}
}

// historyAgingInterval is how many cutoff updates pass between halvings of
// the whole history table, keeping scores from saturating in long searches.
const historyAgingInterval = 1024

// historyTable accumulates from/to cutoff statistics per side for ordering
// quiet moves.
type historyTable struct {
	scores  [2][64][64]int32
	updates int
}

func sideIndex(whiteToMove bool) int {
	if whiteToMove {
		return 0
	}
	return 1
}

func (h *historyTable) add(whiteToMove bool, mv dragontoothmg.Move, depth int8) {
	h.scores[sideIndex(whiteToMove)][mv.From()][mv.To()] += int32(depth) * int32(depth)
	h.updates++
	if h.updates >= historyAgingInterval {
		h.age()
	}
}

func (h *historyTable) age() {
	for side := range h.scores {
		for from := range h.scores[side] {
			for to := range h.scores[side][from] {
				h.scores[side][from][to] /= 2
			}
		}
	}
	h.updates = 0
}

func (h *historyTable) get(whiteToMove bool, mv dragontoothmg.Move) int32 {
	return h.scores[sideIndex(whiteToMove)][mv.From()][mv.To()]
}

func (h *historyTable) clear() {
	*h = historyTable{}
}

// counterTable remembers, per side and per destination square of the
// opponent's last move, the quiet move that refuted it.
type counterTable struct {
	moves [2][64]dragontoothmg.Move
}

func (c *counterTable) add(whiteToMove bool, prevMove, mv dragontoothmg.Move) {
	if prevMove == EmptyMove {
		return
	}
	c.moves[sideIndex(whiteToMove)][prevMove.To()] = mv
}

func (c *counterTable) probe(whiteToMove bool, prevMove dragontoothmg.Move) dragontoothmg.Move {
	if prevMove == EmptyMove {
		return EmptyMove
	}
	return c.moves[sideIndex(whiteToMove)][prevMove.To()]
}

func (c *counterTable) clear() {
	*c = counterTable{}
}
