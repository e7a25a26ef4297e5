package engine

import "testing"

func TestFormatScore(t *testing.T) {
	cases := map[int32]string{
		0:              "cp 0",
		-135:           "cp -135",
		MateScore - 1:  "mate 1",
		MateScore - 3:  "mate 2",
		-MateScore + 2: "mate -1",
		-MateScore + 4: "mate -2",
		EvalLimit:      "cp 31935",
		MateThreshold:  "mate 32",
	}
	for score, want := range cases {
		if got := FormatScore(score); got != want {
			t.Errorf("FormatScore(%d): got %q want %q", score, got, want)
		}
	}
}

func TestPVLine(t *testing.T) {
	var child, parent PVLine
	child.Update(quietKnight, PVLine{})
	parent.Update(pawnTakesQueen, child)

	if got := PVString(parent.Moves); got != "d4e5 g1f3" {
		t.Fatalf("pv: got %q", got)
	}
	if parent.GetPVMove() != pawnTakesQueen {
		t.Fatalf("first pv move: got %v", parent.GetPVMove())
	}

	clone := parent.Clone()
	parent.Clear()
	if len(clone.Moves) != 2 || len(parent.Moves) != 0 {
		t.Fatalf("clone must not share storage: clone %v parent %v", clone.Moves, parent.Moves)
	}
	if !parent.GetPVMove().IsNull() {
		t.Fatalf("empty line should have no pv move")
	}
}

func TestMoveToFront(t *testing.T) {
	moves := []Move{quietPawn, queenTakesPawn, promotion, quietKnight}
	moveToFront(moves, promotion)
	want := []Move{promotion, quietPawn, queenTakesPawn, quietKnight}
	for i := range want {
		if moves[i] != want[i] {
			t.Fatalf("got %v want %v", moves, want)
		}
	}
}
