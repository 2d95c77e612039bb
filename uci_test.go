package main

import (
	"testing"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"

	"heron/engine"
)

func TestParsePositionStartpos(t *testing.T) {
	state, ok := parsePosition("position startpos")
	if !ok {
		t.Fatal("startpos rejected")
	}
	if state.Fen() != dragontoothmg.Startpos {
		t.Errorf("fen = %s, want the starting position", state.Fen())
	}
}

func TestParsePositionStartposWithMoves(t *testing.T) {
	state, ok := parsePosition("position startpos moves e2e4 e7e5")
	if !ok {
		t.Fatal("command rejected")
	}
	if state.Ply() != 2 {
		t.Errorf("ply = %d, want 2", state.Ply())
	}
	if state.Board().Wtomove != true {
		t.Error("white should be on move after e2e4 e7e5")
	}
}

func TestParsePositionFen(t *testing.T) {
	fen := "k7/8/8/8/8/8/8/KQ6 w - - 0 1"
	state, ok := parsePosition("position fen " + fen)
	if !ok {
		t.Fatal("fen command rejected")
	}
	if state.Fen() != fen {
		t.Errorf("fen = %s, want %s", state.Fen(), fen)
	}
}

func TestParsePositionFenWithMoves(t *testing.T) {
	state, ok := parsePosition("position fen k7/8/8/8/8/8/8/KQ6 w - - 0 1 moves b1b7")
	if !ok {
		t.Fatal("fen command with moves rejected")
	}
	if last := state.LastMove(); last.String() != "b1b7" {
		t.Errorf("last move = %s, want b1b7", last.String())
	}
}

func TestParsePositionRejectsGarbage(t *testing.T) {
	cases := []string{
		"position",
		"position nonsense",
		"position fen not a real fen",
		"position startpos moves e2e5",
	}
	for _, line := range cases {
		if _, ok := parsePosition(line); ok {
			t.Errorf("accepted %q", line)
		}
	}
}

func TestParseGoClockFields(t *testing.T) {
	info, depth := parseGo("go wtime 300000 btime 290000 winc 2000 binc 3000 movestogo 40")
	want := engine.TimeInfo{
		WhiteTime:      300 * time.Second,
		BlackTime:      290 * time.Second,
		WhiteIncrement: 2 * time.Second,
		BlackIncrement: 3 * time.Second,
		MovesToGo:      40,
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("time info mismatch (-want +got):\n%s", diff)
	}
	if depth != 0 {
		t.Errorf("depth = %d, want 0 when unspecified", depth)
	}
}

func TestParseGoMoveTimeAndDepth(t *testing.T) {
	info, depth := parseGo("go movetime 5000 depth 6")
	if info.MoveTime != 5*time.Second {
		t.Errorf("movetime = %v, want 5s", info.MoveTime)
	}
	if depth != 6 {
		t.Errorf("depth = %d, want 6", depth)
	}
}

func TestParseGoInfinite(t *testing.T) {
	info, depth := parseGo("go infinite")
	if info != (engine.TimeInfo{}) {
		t.Errorf("infinite produced clock fields: %+v", info)
	}
	if depth != 0 {
		t.Errorf("depth = %d, want 0", depth)
	}
}

func TestParseGoRejectsBadDepth(t *testing.T) {
	for _, line := range []string{"go depth 0", "go depth 500", "go depth abc"} {
		if _, depth := parseGo(line); depth != 0 {
			t.Errorf("%q produced depth %d", line, depth)
		}
	}
}
