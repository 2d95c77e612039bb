package engine

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"
)

func drainPicker(p *movePicker) []dragontoothmg.Move {
	var moves []dragontoothmg.Move
	for mv := p.next(); mv != EmptyMove; mv = p.next() {
		moves = append(moves, mv)
	}
	return moves
}

func sortedUci(moves []dragontoothmg.Move) []string {
	out := make([]string, len(moves))
	for i, mv := range moves {
		out[i] = mv.String()
	}
	sort.Strings(out)
	return out
}

// The union of all picker stages must be exactly the legal move set, with
// every move yielded once.
func TestPickerYieldsEveryLegalMoveOnce(t *testing.T) {
	fens := []string{
		dragontoothmg.Startpos,
		// Tactical middlegame with castling and promotions in the air.
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		// Promotion race.
		"8/P6k/8/8/8/8/6K1/8 w - - 0 1",
		// En passant available on f6.
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		// In check: restricted move set.
		"rnb1kbnr/pppp1ppp/8/4p3/7q/5P2/PPPPP1PP/RNBQKBNR w KQkq - 1 3",
	}

	for _, fen := range fens {
		board := dragontoothmg.ParseFen(fen)
		legal := board.GenerateLegalMoves()

		var hashMove dragontoothmg.Move
		if len(legal) > 1 {
			hashMove = legal[1]
		}
		var history historyTable
		picker := newMovePicker(&board, hashMove, EmptyMove, EmptyMove, EmptyMove, &history)
		yielded := drainPicker(picker)

		seen := make(map[dragontoothmg.Move]int)
		for _, mv := range yielded {
			seen[mv]++
			if seen[mv] > 1 {
				t.Errorf("%s: move %s yielded twice", fen, mv.String())
			}
		}
		if diff := cmp.Diff(sortedUci(legal), sortedUci(yielded)); diff != "" {
			t.Errorf("%s: yielded set differs from legal set (-want +got):\n%s", fen, diff)
		}
	}
}

func TestPickerYieldsHashMoveFirst(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	legal := board.GenerateLegalMoves()
	hashMove := legal[len(legal)-1]

	var history historyTable
	picker := newMovePicker(&board, hashMove, EmptyMove, EmptyMove, EmptyMove, &history)
	if first := picker.next(); first != hashMove {
		t.Errorf("first yielded move = %s, want hash move %s", first.String(), hashMove.String())
	}
}

func TestPickerIgnoresIllegalHashMove(t *testing.T) {
	board := dragontoothmg.ParseFen("8/P6k/8/8/8/8/6K1/8 w - - 0 1")
	other := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	foreign := other.GenerateLegalMoves()[0]

	var history historyTable
	picker := newMovePicker(&board, foreign, EmptyMove, EmptyMove, EmptyMove, &history)
	yielded := drainPicker(picker)
	if diff := cmp.Diff(sortedUci(board.GenerateLegalMoves()), sortedUci(yielded)); diff != "" {
		t.Errorf("yielded set wrong with foreign hash move (-want +got):\n%s", diff)
	}
}

// Without a hash move or captures, a legal quiet killer must come first.
func TestPickerYieldsKillerBeforeQuiets(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	legal := board.GenerateLegalMoves()
	killer := legal[len(legal)/2]

	var history historyTable
	picker := newMovePicker(&board, EmptyMove, killer, EmptyMove, EmptyMove, &history)
	if first := picker.next(); first != killer {
		t.Errorf("first yielded move = %s, want killer %s", first.String(), killer.String())
	}
}

// Winning captures must be yielded before quiet moves, best victim first.
func TestPickerOrdersCapturesByVictim(t *testing.T) {
	// White pawn e4 can take a queen on d5 or a knight on f5.
	board := dragontoothmg.ParseFen("k7/8/8/3q1n2/4P3/8/8/K7 w - - 0 1")

	var history historyTable
	picker := newMovePicker(&board, EmptyMove, EmptyMove, EmptyMove, EmptyMove, &history)
	first := picker.next()
	second := picker.next()
	if first.String() != "e4d5" {
		t.Errorf("first move = %s, want queen capture e4d5", first.String())
	}
	if second.String() != "e4f5" {
		t.Errorf("second move = %s, want knight capture e4f5", second.String())
	}
}

// History cutoff statistics reorder the quiet stage.
func TestPickerSortsQuietsByHistory(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	legal := board.GenerateLegalMoves()
	favored := legal[0]

	var history historyTable
	history.add(board.Wtomove, favored, 10)

	picker := newMovePicker(&board, EmptyMove, EmptyMove, EmptyMove, EmptyMove, &history)
	if first := picker.next(); first != favored {
		t.Errorf("first yielded move = %s, want history-favored %s", first.String(), favored.String())
	}
}
