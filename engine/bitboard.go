package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// PieceValue holds the coarse centipawn values shared by SEE, MVV-LVA
// scoring and delta pruning. Indexed by dragontoothmg.Piece.
var PieceValue = [7]int16{
	dragontoothmg.Pawn:   100,
	dragontoothmg.Knight: 300,
	dragontoothmg.Bishop: 300,
	dragontoothmg.Rook:   500,
	dragontoothmg.Queen:  900,
	dragontoothmg.King:   5000,
}

var (
	bitboardFileA uint64 = 0x0101010101010101
	bitboardFileB uint64 = 0x0202020202020202
	bitboardFileG uint64 = 0x4040404040404040
	bitboardFileH uint64 = 0x8080808080808080
)

// PositionBB[sq] is the single-bit board for square sq.
var PositionBB [64]uint64

// KingMoves[sq] and KnightMasks[sq] are the attack sets from sq.
var KingMoves [64]uint64
var KnightMasks [64]uint64

func init() {
	for sq := 0; sq < 64; sq++ {
		bb := uint64(1) << sq
		PositionBB[sq] = bb

		up := bb << 8
		down := bb >> 8
		left := (bb >> 1) &^ bitboardFileH
		right := (bb << 1) &^ bitboardFileA
		KingMoves[sq] = up | down | left | right |
			((up | down) >> 1 &^ bitboardFileH) |
			((up | down) << 1 &^ bitboardFileA)

		KnightMasks[sq] = (bb << 17 &^ bitboardFileA) |
			(bb << 10 &^ (bitboardFileA | bitboardFileB)) |
			(bb >> 6 &^ (bitboardFileA | bitboardFileB)) |
			(bb >> 15 &^ bitboardFileA) |
			(bb << 15 &^ bitboardFileH) |
			(bb << 6 &^ (bitboardFileG | bitboardFileH)) |
			(bb >> 10 &^ (bitboardFileG | bitboardFileH)) |
			(bb >> 17 &^ bitboardFileH)
	}
}

// pawnCaptureBitboards returns the east and west capture targets for every
// pawn in pawns, from white's or black's point of view.
func pawnCaptureBitboards(pawns uint64, white bool) (east, west uint64) {
	if white {
		east = (pawns << 9) &^ bitboardFileA
		west = (pawns << 7) &^ bitboardFileH
		return east, west
	}
	east = (pawns >> 7) &^ bitboardFileA
	west = (pawns >> 9) &^ bitboardFileH
	return east, west
}

// GetPieceTypeAtPosition looks up which piece of the given bitboard set
// occupies position, if any.
func GetPieceTypeAtPosition(position uint8, bitboards *dragontoothmg.Bitboards) (pieceType dragontoothmg.Piece, occupied bool) {
	if bitboards.Pawns&(1<<position) > 0 {
		return dragontoothmg.Pawn, true
	} else if bitboards.Knights&(1<<position) > 0 {
		return dragontoothmg.Knight, true
	} else if bitboards.Bishops&(1<<position) > 0 {
		return dragontoothmg.Bishop, true
	} else if bitboards.Rooks&(1<<position) > 0 {
		return dragontoothmg.Rook, true
	} else if bitboards.Queens&(1<<position) > 0 {
		return dragontoothmg.Queen, true
	} else if bitboards.Kings&(1<<position) > 0 {
		return dragontoothmg.King, true
	}
	return 0, false
}

// movingPiece returns the side-to-move piece standing on the move's origin.
func movingPiece(b *dragontoothmg.Board, mv dragontoothmg.Move) dragontoothmg.Piece {
	us := &b.Black
	if b.Wtomove {
		us = &b.White
	}
	piece, _ := GetPieceTypeAtPosition(mv.From(), us)
	return piece
}

// victimPiece returns the piece a capture removes. En passant targets an
// empty destination square, so a pawn moving diagonally onto an empty
// square counts as taking a pawn. Returns 0 for quiet moves.
func victimPiece(b *dragontoothmg.Board, mv dragontoothmg.Move) dragontoothmg.Piece {
	them := &b.White
	if b.Wtomove {
		them = &b.Black
	}
	if piece, occupied := GetPieceTypeAtPosition(mv.To(), them); occupied {
		return piece
	}
	if movingPiece(b, mv) == dragontoothmg.Pawn && mv.From()%8 != mv.To()%8 {
		return dragontoothmg.Pawn
	}
	return 0
}

// totalMen counts all pieces on the board, kings included.
func totalMen(b *dragontoothmg.Board) int {
	return bits.OnesCount64(b.White.All | b.Black.All)
}
