package board

import (
	"errors"
	"testing"

	"chess-challenge/engine"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func mustParse(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := ParseFen(fen)
	if err != nil {
		t.Fatalf("ParseFen(%q): %v", fen, err)
	}
	return b
}

func mustFind(t *testing.T, b *Board, uci string) engine.Move {
	t.Helper()
	m, ok := b.FindMove(uci)
	if !ok {
		t.Fatalf("move %s not legal in %s", uci, b.ToFen())
	}
	return m
}

func TestPerftInitialPosition(t *testing.T) {
	b := NewBoard()
	want := []uint64{1, 20, 400, 8902}
	for depth, nodes := range want {
		if got := b.Perft(depth); got != nodes {
			t.Fatalf("perft depth%d: got %d want %d", depth, got, nodes)
		}
	}
	if b.Fingerprint() != NewBoard().Fingerprint() {
		t.Fatalf("perft left the board changed: %s", b.ToFen())
	}
}

func TestPerftKiwipete(t *testing.T) {
	b := mustParse(t, kiwipete)
	if got := b.Perft(1); got != 48 {
		t.Fatalf("perft depth1: got %d want %d", got, 48)
	}
	if got := b.Perft(2); got != 2039 {
		t.Fatalf("perft depth2: got %d want %d", got, 2039)
	}
}

func TestPerftEndgame(t *testing.T) {
	b := mustParse(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if got := b.Perft(3); got != 2812 {
		t.Fatalf("perft depth3: got %d want %d", got, 2812)
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	b := mustParse(t, kiwipete)
	var sum uint64
	for _, n := range b.PerftDivide(2) {
		sum += n
	}
	if sum != 2039 {
		t.Fatalf("divide total: got %d want %d", sum, 2039)
	}
}

func TestMoveFlags(t *testing.T) {
	b := mustParse(t, kiwipete)

	castle := mustFind(t, b, "e1g1")
	if !castle.IsCastle() || castle.Piece != engine.King || castle.IsCapture() {
		t.Fatalf("e1g1: unexpected move %+v", castle)
	}
	capture := mustFind(t, b, "d5e6")
	if !capture.IsCapture() || capture.Captured != engine.Pawn || capture.Piece != engine.Pawn {
		t.Fatalf("d5e6: unexpected move %+v", capture)
	}
	quiet := mustFind(t, b, "a2a3")
	if !quiet.IsQuiet() || quiet.Flags != 0 {
		t.Fatalf("a2a3: unexpected move %+v", quiet)
	}

	ep := mustFind(t, mustParse(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3"), "e5f6")
	if ep.Flags&engine.FlagEnPassant == 0 || ep.Captured != engine.Pawn || !ep.IsCapture() {
		t.Fatalf("e5f6: unexpected move %+v", ep)
	}
}

func TestPromotionAndCheckFlags(t *testing.T) {
	b := mustParse(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")

	queen := mustFind(t, b, "a7a8q")
	if !queen.IsPromotion() || queen.Promotion != engine.Queen {
		t.Fatalf("a7a8q: unexpected move %+v", queen)
	}
	if !queen.GivesCheck() {
		t.Fatalf("a7a8q should give check along the a-file")
	}
	if knight := mustFind(t, b, "a7a8n"); knight.GivesCheck() {
		t.Fatalf("a7a8n should not give check")
	}
	if len(b.LegalMoves()) != 4+3 {
		t.Fatalf("expected 4 promotions and 3 king moves, got %d", len(b.LegalMoves()))
	}
}

func TestApplyUndoRestoresPosition(t *testing.T) {
	b := mustParse(t, kiwipete)
	fen, hash := b.ToFen(), b.Fingerprint()
	moves := b.LegalMoves()

	for _, m := range moves {
		b.Apply(m)
		if b.Fingerprint() == hash {
			t.Fatalf("%s did not change the fingerprint", m)
		}
		b.Undo(m)
		if b.Fingerprint() != hash || b.ToFen() != fen {
			t.Fatalf("undo %s: got %s want %s", m, b.ToFen(), fen)
		}
	}
	if b.Ply() != 0 {
		t.Fatalf("ply after balanced apply/undo: %d", b.Ply())
	}
}

func TestUndoWrongMovePanics(t *testing.T) {
	b := NewBoard()
	e4 := mustFind(t, b, "e2e4")
	d4 := mustFind(t, b, "d2d4")
	b.Apply(e4)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic when undoing a move that was not applied last")
		}
	}()
	b.Undo(d4)
}

func TestApplyUCI(t *testing.T) {
	b := NewBoard()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3"} {
		if _, err := b.ApplyUCI(uci); err != nil {
			t.Fatalf("ApplyUCI(%s): %v", uci, err)
		}
	}
	if b.SideToMove() != engine.Black {
		t.Fatalf("expected black to move after three plies")
	}
	if _, err := b.ApplyUCI("e1e3"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
}

func TestPieceAt(t *testing.T) {
	b := NewBoard()
	cases := []struct {
		sq    engine.Square
		piece engine.Piece
	}{
		{0, engine.Piece{Kind: engine.Rook, Color: engine.White}},
		{4, engine.Piece{Kind: engine.King, Color: engine.White}},
		{12, engine.Piece{Kind: engine.Pawn, Color: engine.White}},
		{56, engine.Piece{Kind: engine.Rook, Color: engine.Black}},
		{59, engine.Piece{Kind: engine.Queen, Color: engine.Black}},
	}
	for _, c := range cases {
		got, ok := b.PieceAt(c.sq)
		if !ok || got != c.piece {
			t.Errorf("PieceAt(%s): got %+v (%v) want %+v", c.sq, got, ok, c.piece)
		}
	}
	if _, ok := b.PieceAt(28); ok {
		t.Errorf("expected e4 to be empty")
	}
}
