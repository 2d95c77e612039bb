package engine

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func TestStaticExchangeEvaluation(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move string
		want int16
	}{
		{
			name: "pawn takes undefended pawn",
			fen:  "k7/8/8/3p4/4P3/8/8/K7 w - - 0 1",
			move: "e4d5",
			want: 100,
		},
		{
			name: "pawn takes defended pawn is an even trade",
			fen:  "k7/8/2q5/3p4/4P3/8/8/K7 w - - 0 1",
			move: "e4d5",
			want: 0,
		},
		{
			name: "knight takes pawn defended by pawn",
			fen:  "k7/2p5/3p4/8/4N3/8/8/K7 w - - 0 1",
			move: "e4d6",
			want: -200,
		},
		{
			name: "doubled rooks win the exchange through the battery",
			fen:  "k2r4/8/8/3p4/8/8/3R4/K2R4 w - - 0 1",
			move: "d2d5",
			want: 100,
		},
		{
			name: "equal batteries lose when the defender captures last",
			fen:  "k2r4/3r4/8/3p4/8/8/3R4/K2R4 w - - 0 1",
			move: "d2d5",
			want: -400,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			board := dragontoothmg.ParseFen(tc.fen)
			var move dragontoothmg.Move
			found := false
			for _, mv := range board.GenerateLegalMoves() {
				if mv.String() == tc.move {
					move = mv
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("move %s not legal in %s", tc.move, tc.fen)
			}
			if got := see(&board, move); got != tc.want {
				t.Errorf("see(%s, %s) = %d, want %d", tc.fen, tc.move, got, tc.want)
			}
		})
	}
}
