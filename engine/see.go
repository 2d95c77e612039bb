package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// see statically resolves the capture exchange on the move's destination
// square. Positive means the side to move wins material by initiating it.
func see(b *dragontoothmg.Board, move dragontoothmg.Move) int16 {
	var gain [32]int16
	var depth uint8
	sideToMove := b.Wtomove

	initSquare := move.From()
	targetSquare := move.To()

	whiteAttackers := getPiecesAttackingSquare(targetSquare, b.White, b.Black, true)
	blackAttackers := getPiecesAttackingSquare(targetSquare, b.Black, b.White, false)
	attadef := whiteAttackers | blackAttackers

	var targetPiece, attacker dragontoothmg.Piece
	if sideToMove {
		targetPiece, _ = GetPieceTypeAtPosition(targetSquare, &b.Black)
		attacker, _ = GetPieceTypeAtPosition(initSquare, &b.White)
	} else {
		targetPiece, _ = GetPieceTypeAtPosition(targetSquare, &b.White)
		attacker, _ = GetPieceTypeAtPosition(initSquare, &b.Black)
	}

	// En passant: the destination square is empty but a pawn is taken.
	if targetPiece == 0 {
		targetPiece = dragontoothmg.Pawn
	}

	attackerBB := PositionBB[initSquare]
	gain[depth] = PieceValue[targetPiece]

	// The first capture is already made, so the defender moves next.
	sideToMove = !sideToMove

	for attackerBB != 0 {
		depth++
		gain[depth] = PieceValue[attacker] - gain[depth-1]

		// Both continuations lose material from here; stop trading.
		if max(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		attadef ^= attackerBB
		attackerBB, attacker = getClosestAttacker(b, attadef, sideToMove, targetSquare)
		sideToMove = !sideToMove
	}

	// The deepest gain entry is speculative and is dropped.
	for x := depth - 1; x > 0; x-- {
		gain[x-1] = -max(-gain[x-1], gain[x])
	}
	return gain[0]
}

// getPiecesAttackingSquare collects every piece of usBB that attacks
// targetSquare, treating sliders behind other sliders and pawns as
// attackers too (x-ray).
func getPiecesAttackingSquare(targetSquare uint8, usBB, enemyBB dragontoothmg.Bitboards, sideToMove bool) uint64 {
	orthoOccupancy := (usBB.All &^ (usBB.Rooks | usBB.Queens)) | (enemyBB.All &^ (enemyBB.Rooks | enemyBB.Queens))
	orthogonalXray := dragontoothmg.CalculateRookMoveBitboard(targetSquare, orthoOccupancy)

	var attackBB, pawnBB uint64
	targetBB := PositionBB[targetSquare]

	// Pawns attacking the target; sliders can x-ray through these.
	for x := usBB.Pawns; x != 0; x &= x - 1 {
		bb := PositionBB[bits.TrailingZeros64(x)]
		east, west := pawnCaptureBitboards(bb, sideToMove)
		if (east|west)&targetBB > 0 {
			attackBB |= bb
			pawnBB |= bb
		}
	}

	diagOccupancy := (usBB.All &^ (usBB.Bishops | usBB.Queens | pawnBB)) | enemyBB.All
	diagonalXray := dragontoothmg.CalculateBishopMoveBitboard(targetSquare, diagOccupancy)

	hitPieces := attackBB | orthogonalXray&(usBB.Rooks|usBB.Queens)
	hitPieces |= diagonalXray & (usBB.Bishops | usBB.Queens)
	hitPieces |= KnightMasks[targetSquare] & usBB.Knights
	hitPieces |= KingMoves[targetSquare] & usBB.Kings
	return hitPieces
}

// getClosestAttacker picks the least valuable remaining attacker of
// targetSquare for the side to move, given the not-yet-used attackers in
// attadef.
func getClosestAttacker(b *dragontoothmg.Board, attadef uint64, sideToMove bool, targetSquare uint8) (uint64, dragontoothmg.Piece) {
	usBB := b.Black
	if sideToMove {
		usBB = b.White
	}

	diagonal := dragontoothmg.CalculateBishopMoveBitboard(targetSquare, attadef) &^ (usBB.All &^ (usBB.Bishops | usBB.Queens))
	diagonal &= attadef

	orthogonal := dragontoothmg.CalculateRookMoveBitboard(targetSquare, attadef) &^ (usBB.All &^ (usBB.Rooks | usBB.Queens))
	orthogonal &= attadef

	// A pawn attacks the target square iff the target "captures back" onto it.
	east, west := pawnCaptureBitboards(PositionBB[targetSquare], !sideToMove)

	hitPieces := (east | west | diagonal | orthogonal |
		KnightMasks[targetSquare]&usBB.Knights |
		KingMoves[targetSquare]&usBB.Kings) & attadef
	return minAttacker(hitPieces, usBB)
}

func minAttacker(attadef uint64, bb dragontoothmg.Bitboards) (uint64, dragontoothmg.Piece) {
	var subset uint64
	var piece dragontoothmg.Piece

	if attadef&bb.Pawns > 0 {
		subset = attadef & bb.Pawns
		piece = dragontoothmg.Pawn
	} else if attadef&bb.Knights > 0 {
		subset = attadef & bb.Knights
		piece = dragontoothmg.Knight
	} else if attadef&bb.Bishops > 0 {
		subset = attadef & bb.Bishops
		piece = dragontoothmg.Bishop
	} else if attadef&bb.Rooks > 0 {
		subset = attadef & bb.Rooks
		piece = dragontoothmg.Rook
	} else if attadef&bb.Queens > 0 {
		subset = attadef & bb.Queens
		piece = dragontoothmg.Queen
	} else if attadef&bb.Kings > 0 {
		subset = attadef & bb.Kings
		piece = dragontoothmg.King
	}

	if subset != 0 {
		return PositionBB[bits.TrailingZeros64(subset)], piece
	}
	return 0, piece
}
