package eval

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"

	"heron/engine"
)

const (
	bishopPairBonus       int16 = 50
	rookOpenFileBonus     int16 = 25
	rookSemiOpenFileBonus int16 = 15
	doubledPawnPenalty    int16 = -15
	isolatedPawnPenalty   int16 = -20
	kingSafetyPawnShield  int16 = 10

	// Mating-endgame shaping, active only once most material is gone.
	kingProximityBonusPerSquare       int16 = 10
	edgeRestrictionBonusPerSquare     int16 = 30
	mobilityRestrictionBonusPerSquare int16 = 5
	endgameActivationPhase            int16 = 200
	pureEndgamePhase                  int16 = 210
)

// passedPawnBonus is indexed by the pawn's rank from its own side.
var passedPawnBonus = [8]int16{0, 10, 20, 40, 70, 120, 200, 0}

// Piece-square tables, written board-visually: the first row is rank 8.
// White indexes with sq^56, black with sq.

var pawnPstMG = [64]int16{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pawnPstEG = [64]int16{
	0, 0, 0, 0, 0, 0, 0, 0,
	80, 80, 80, 80, 80, 80, 80, 80,
	50, 50, 50, 50, 50, 50, 50, 50,
	30, 30, 30, 30, 30, 30, 30, 30,
	20, 20, 20, 20, 20, 20, 20, 20,
	10, 10, 10, 10, 10, 10, 10, 10,
	10, 10, 10, 10, 10, 10, 10, 10,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPst = [64]int16{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPst = [64]int16{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPst = [64]int16{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPstMG = [64]int16{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var queenPstEG = [64]int16{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingPstMG = [64]int16{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingPstEG = [64]int16{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var fileMask [8]uint64

func init() {
	for f := 0; f < 8; f++ {
		fileMask[f] = 0x0101010101010101 << f
	}
}

// PstEval is a hand-crafted evaluator: tapered material and piece-square
// tables plus pawn structure, rook files, bishop pair, king safety and
// mating-endgame shaping.
type PstEval struct{}

func (PstEval) Evaluate(state *engine.GameState) (int16, error) {
	if state.IsDraw() {
		return engine.DrawScore, nil
	}
	if state.Status() == engine.Checkmate {
		return -engine.MateValue + int16(state.Ply()), nil
	}

	board := state.Board()
	phase := gamePhase(board)

	score := materialPst(board, phase)
	score += pawnStructure(board)
	score += bishopPair(board)
	score += rookFiles(board)
	score += kingSafety(board, phase)

	whiteWinning, blackWinning := analyzeEndgame(board)
	score += kingProximity(board, phase, whiteWinning, blackWinning)
	score += kingEdgeRestriction(board, phase, whiteWinning, blackWinning)
	score += mateProgress(board, phase, whiteWinning, blackWinning)

	if !board.Wtomove {
		score = -score
	}
	return score, nil
}

// gamePhase maps remaining material onto 0 (opening) .. 256 (bare endgame).
func gamePhase(b *dragontoothmg.Board) int16 {
	const totalPhase = 1*4 + 1*4 + 2*4 + 4*2

	phase := int16(totalPhase)
	phase -= int16(bits.OnesCount64(b.White.Knights|b.Black.Knights)) * 1
	phase -= int16(bits.OnesCount64(b.White.Bishops|b.Black.Bishops)) * 1
	phase -= int16(bits.OnesCount64(b.White.Rooks|b.Black.Rooks)) * 2
	phase -= int16(bits.OnesCount64(b.White.Queens|b.Black.Queens)) * 4
	return (phase*256 + totalPhase/2) / totalPhase
}

func interpolate(mg, eg, phase int16) int16 {
	return (mg*(256-phase) + eg*phase) / 256
}

// pstValue reads a board-visual table for the given side.
func pstValue(sq int, white bool, mg, eg *[64]int16, phase int16) int16 {
	idx := sq
	if white {
		idx = sq ^ 56
	}
	return interpolate(mg[idx], eg[idx], phase)
}

func materialPst(b *dragontoothmg.Board, phase int16) int16 {
	var score int16

	side := func(pieces uint64, white bool, value int16, mg, eg *[64]int16) {
		for x := pieces; x != 0; x &= x - 1 {
			sq := bits.TrailingZeros64(x)
			term := value + pstValue(sq, white, mg, eg, phase)
			if white {
				score += term
			} else {
				score -= term
			}
		}
	}

	side(b.White.Pawns, true, PawnValue, &pawnPstMG, &pawnPstEG)
	side(b.Black.Pawns, false, PawnValue, &pawnPstMG, &pawnPstEG)
	side(b.White.Knights, true, KnightValue, &knightPst, &knightPst)
	side(b.Black.Knights, false, KnightValue, &knightPst, &knightPst)
	side(b.White.Bishops, true, BishopValue, &bishopPst, &bishopPst)
	side(b.Black.Bishops, false, BishopValue, &bishopPst, &bishopPst)
	side(b.White.Rooks, true, RookValue, &rookPst, &rookPst)
	side(b.Black.Rooks, false, RookValue, &rookPst, &rookPst)
	side(b.White.Queens, true, QueenValue, &queenPstMG, &queenPstEG)
	side(b.Black.Queens, false, QueenValue, &queenPstMG, &queenPstEG)
	side(b.White.Kings, true, 0, &kingPstMG, &kingPstEG)
	side(b.Black.Kings, false, 0, &kingPstMG, &kingPstEG)

	return score
}

// isPassedPawn reports whether no enemy pawn stands in front of the pawn on
// its own or an adjacent file.
func isPassedPawn(sq int, white bool, enemyPawns uint64) bool {
	file := sq % 8
	rank := sq / 8

	files := fileMask[file]
	if file > 0 {
		files |= fileMask[file-1]
	}
	if file < 7 {
		files |= fileMask[file+1]
	}

	var ahead uint64
	if white {
		ahead = ^(uint64(1)<<((rank+1)*8) - 1)
	} else {
		ahead = uint64(1)<<(rank*8) - 1
	}
	return enemyPawns&files&ahead == 0
}

func pawnStructure(b *dragontoothmg.Board) int16 {
	var score int16

	eachPawn := func(pawns, enemyPawns uint64, white bool) int16 {
		var s int16
		for x := pawns; x != 0; x &= x - 1 {
			sq := bits.TrailingZeros64(x)
			file := sq % 8
			rank := sq / 8
			if !white {
				rank = 7 - rank
			}

			if isPassedPawn(sq, white, enemyPawns) {
				s += passedPawnBonus[rank]
			}
			if bits.OnesCount64(pawns&fileMask[file]) > 1 {
				s += doubledPawnPenalty
			}

			var adjacent uint64
			if file > 0 {
				adjacent |= fileMask[file-1]
			}
			if file < 7 {
				adjacent |= fileMask[file+1]
			}
			if pawns&adjacent == 0 {
				s += isolatedPawnPenalty
			}
		}
		return s
	}

	score += eachPawn(b.White.Pawns, b.Black.Pawns, true)
	score -= eachPawn(b.Black.Pawns, b.White.Pawns, false)
	return score
}

func bishopPair(b *dragontoothmg.Board) int16 {
	var score int16
	if bits.OnesCount64(b.White.Bishops) >= 2 {
		score += bishopPairBonus
	}
	if bits.OnesCount64(b.Black.Bishops) >= 2 {
		score -= bishopPairBonus
	}
	return score
}

func rookFiles(b *dragontoothmg.Board) int16 {
	var score int16

	eachRook := func(rooks, ownPawns, enemyPawns uint64) int16 {
		var s int16
		for x := rooks; x != 0; x &= x - 1 {
			file := fileMask[bits.TrailingZeros64(x)%8]
			switch {
			case ownPawns&file == 0 && enemyPawns&file == 0:
				s += rookOpenFileBonus
			case ownPawns&file == 0:
				s += rookSemiOpenFileBonus
			}
		}
		return s
	}

	score += eachRook(b.White.Rooks, b.White.Pawns, b.Black.Pawns)
	score -= eachRook(b.Black.Rooks, b.Black.Pawns, b.White.Pawns)
	return score
}

// kingSafety rewards friendly pawns adjacent to the king, fading out as the
// game empties.
func kingSafety(b *dragontoothmg.Board, phase int16) int16 {
	if phase > 180 {
		return 0
	}

	whiteKing := bits.TrailingZeros64(b.White.Kings)
	blackKing := bits.TrailingZeros64(b.Black.Kings)

	var score int16
	score += int16(bits.OnesCount64(engine.KingMoves[whiteKing]&b.White.Pawns)) * kingSafetyPawnShield
	score -= int16(bits.OnesCount64(engine.KingMoves[blackKing]&b.Black.Pawns)) * kingSafetyPawnShield

	return score * (256 - phase) / 256
}

func hasMatingMaterial(side *dragontoothmg.Bitboards) bool {
	return side.Queens != 0 || side.Rooks != 0 || side.Pawns != 0 ||
		bits.OnesCount64(side.Knights|side.Bishops) >= 2
}

func hasDefensiveMaterial(side *dragontoothmg.Bitboards) bool {
	return side.All&^side.Kings != 0
}

func analyzeEndgame(b *dragontoothmg.Board) (whiteWinning, blackWinning bool) {
	whiteWinning = hasMatingMaterial(&b.White) && !hasDefensiveMaterial(&b.Black)
	blackWinning = hasMatingMaterial(&b.Black) && !hasDefensiveMaterial(&b.White)
	return whiteWinning, blackWinning
}

func manhattanDistance(sq1, sq2 int) int16 {
	fileDist := abs(sq1%8 - sq2%8)
	rankDist := abs(sq1/8 - sq2/8)
	return int16(fileDist + rankDist)
}

func edgeDistance(sq int) int16 {
	file := sq % 8
	rank := sq / 8
	return int16(min(min(file, 7-file), min(rank, 7-rank)))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// kingProximity pulls the attacking king toward the defending one when a
// mate has to be delivered.
func kingProximity(b *dragontoothmg.Board, phase int16, whiteWinning, blackWinning bool) int16 {
	if phase < endgameActivationPhase {
		return 0
	}

	distance := manhattanDistance(bits.TrailingZeros64(b.White.Kings), bits.TrailingZeros64(b.Black.Kings))
	closeness := (7 - min(distance, 7)) * kingProximityBonusPerSquare

	var score int16
	if whiteWinning {
		score += closeness
	}
	if blackWinning {
		score -= closeness
	}
	return score
}

// kingEdgeRestriction rewards driving the defending king to the board edge.
func kingEdgeRestriction(b *dragontoothmg.Board, phase int16, whiteWinning, blackWinning bool) int16 {
	if phase < endgameActivationPhase {
		return 0
	}

	var score int16
	if whiteWinning {
		dist := edgeDistance(bits.TrailingZeros64(b.Black.Kings))
		score += (3 - min(dist, 3)) * edgeRestrictionBonusPerSquare
	}
	if blackWinning {
		dist := edgeDistance(bits.TrailingZeros64(b.White.Kings))
		score -= (3 - min(dist, 3)) * edgeRestrictionBonusPerSquare
	}
	return score
}

// mateProgress rewards taking squares away from the defending king. A crude
// mobility count (occupancy only, no attack detection) is enough to give
// the search a gradient toward mate.
func mateProgress(b *dragontoothmg.Board, phase int16, whiteWinning, blackWinning bool) int16 {
	if phase < pureEndgamePhase {
		return 0
	}

	occupied := b.White.All | b.Black.All
	restriction := func(kingSq int) int16 {
		free := int16(bits.OnesCount64(engine.KingMoves[kingSq] &^ occupied))
		return (8 - free) * mobilityRestrictionBonusPerSquare
	}

	var score int16
	if whiteWinning {
		score += restriction(bits.TrailingZeros64(b.Black.Kings))
	}
	if blackWinning {
		score -= restriction(bits.TrailingZeros64(b.White.Kings))
	}
	return score
}
