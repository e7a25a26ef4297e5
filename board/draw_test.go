package board

import (
	"errors"
	"testing"
)

func TestCheckmateIsNotDraw(t *testing.T) {
	// fool's mate
	b := mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !b.IsCheckmate() || !b.InCheck() {
		t.Fatalf("expected checkmate")
	}
	if b.IsDraw() {
		t.Fatalf("checkmate reported as draw")
	}
}

func TestStalemate(t *testing.T) {
	b := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !b.IsStalemate() || !b.IsDraw() {
		t.Fatalf("expected stalemate draw")
	}
	if b.IsCheckmate() {
		t.Fatalf("stalemate reported as checkmate")
	}
}

func TestFiftyMoveRule(t *testing.T) {
	if b := mustParse(t, "8/8/8/8/8/4k3/8/R3K3 w - - 99 80"); b.IsDraw() {
		t.Fatalf("halfmove clock 99 is not yet a draw")
	}
	b := mustParse(t, "8/8/8/8/8/4k3/8/R3K3 w - - 99 80")
	if _, err := b.ApplyUCI("a1a2"); err != nil {
		t.Fatal(err)
	}
	if b.HalfmoveClock() != 100 || !b.IsDraw() {
		t.Fatalf("expected fifty-move draw, clock %d", b.HalfmoveClock())
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := map[string]bool{
		"8/8/8/8/8/4k3/8/4K3 w - - 0 1":   true,
		"8/8/8/8/8/4k3/8/3NK3 w - - 0 1":  true,
		"8/8/8/8/8/2b1k3/8/4K3 w - - 0 1": true,
		"8/8/8/8/8/2b1k3/8/3NK3 w - - 0 1": false,
		"8/8/8/8/8/4k3/8/3RK3 w - - 0 1":  false,
		"8/8/8/8/8/4k3/4P3/4K3 w - - 0 1": false,
	}
	for fen, want := range cases {
		b := mustParse(t, fen)
		if got := b.InsufficientMaterial(); got != want {
			t.Errorf("%s: got %v want %v", fen, got, want)
		}
	}
}

func TestThreefoldRepetitionKnightShuffle(t *testing.T) {
	b := NewBoard()
	cycle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	for _, uci := range cycle {
		if _, err := b.ApplyUCI(uci); err != nil {
			t.Fatal(err)
		}
	}
	if b.IsDraw() {
		t.Fatalf("should not be threefold yet after one cycle")
	}

	for i, uci := range cycle {
		if _, err := b.ApplyUCI(uci); err != nil {
			t.Fatal(err)
		}
		if i < len(cycle)-1 && b.IsDraw() {
			t.Fatalf("draw reported early after %s", uci)
		}
	}
	if !b.IsDraw() {
		t.Fatalf("expected threefold repetition after two cycles")
	}

	// taking back the last move leaves only two occurrences
	last := b.undo[len(b.undo)-1].move
	b.Undo(last)
	if b.IsDraw() {
		t.Fatalf("undo should remove the repetition")
	}
}

func TestParseFenErrors(t *testing.T) {
	bad := []string{
		"",
		"8/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e5 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQ - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",
		// en passant rank must match the side to move
		"rnbqkbnr/ppppp1pp/8/8/4Pp2/8/PPPP1PPP/RNBQKBNR w KQkq e3 0 3",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR b KQkq f6 0 3",
	}
	for _, fen := range bad {
		if _, err := ParseFen(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("ParseFen(%q): expected ErrInvalidFEN, got %v", fen, err)
		}
	}
}

func TestParseFenEnPassantRank(t *testing.T) {
	for _, fen := range []string{
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"rnbqkbnr/ppppp1pp/8/8/4Pp2/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3",
	} {
		if _, err := ParseFen(fen); err != nil {
			t.Fatalf("ParseFen(%q): %v", fen, err)
		}
	}
}

func TestParseFenWithoutCounters(t *testing.T) {
	b := mustParse(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	if b.Fingerprint() != NewBoard().Fingerprint() {
		t.Fatalf("missing counters should default to 0 1")
	}
}
