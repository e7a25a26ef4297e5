package engine

import "testing"

func TestTransTableCapacityIsPrime(t *testing.T) {
	cases := map[int]int{1: 2, 2: 2, 7: 7, 8: 11, 100: 101, 1 << 10: 1031}
	for requested, want := range cases {
		if got := NewTransTable(requested, AlwaysReplace).Capacity(); got != want {
			t.Errorf("NewTransTable(%d): capacity %d want %d", requested, got, want)
		}
	}
}

func TestTransTableStoreThenLookup(t *testing.T) {
	tt := NewTransTable(1024, AlwaysReplace)
	move := Move{From: 12, To: 28, Piece: Pawn}

	tt.Store(0xdeadbeef, 4, -123, LowerBound, move)

	entry, ok := tt.Lookup(0xdeadbeef)
	if !ok {
		t.Fatalf("expected a hit after store")
	}
	if entry.Hash != 0xdeadbeef || entry.Depth != 4 || entry.Score != -123 || entry.Flag != LowerBound || entry.Move != move {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if _, ok := tt.Lookup(0xfeedface); ok {
		t.Fatalf("lookup of a never stored fingerprint must miss")
	}
}

func TestTransTableCollisionIsMiss(t *testing.T) {
	tt := NewTransTable(7, AlwaysReplace)
	a, b := uint64(3), uint64(3+7) // same slot, different fingerprints
	move := Move{From: 1, To: 18, Piece: Knight}

	tt.Store(a, 6, 50, ExactBound, move)
	if _, ok := tt.Lookup(b); ok {
		t.Fatalf("colliding fingerprint returned another position's entry")
	}
	if got := tt.Stats().Collisions; got != 1 {
		t.Fatalf("expected 1 collision, got %d", got)
	}

	// always-replace: the shallower store evicts the deeper entry
	tt.Store(b, 1, -50, UpperBound, NullMove)
	if _, ok := tt.Lookup(a); ok {
		t.Fatalf("expected %d to be evicted", a)
	}
	entry, ok := tt.Lookup(b)
	if !ok || entry.Score != -50 || entry.Flag != UpperBound {
		t.Fatalf("expected the new entry, got %+v (%v)", entry, ok)
	}
}

func TestTransTableDepthPreferred(t *testing.T) {
	tt := NewTransTable(7, DepthPreferred)
	a, b := uint64(5), uint64(5+14)

	tt.Store(a, 6, 10, ExactBound, NullMove)
	tt.Store(b, 2, 20, ExactBound, NullMove)
	if _, ok := tt.Lookup(a); !ok {
		t.Fatalf("deeper entry of the current search should survive")
	}

	// a new search makes old entries replaceable
	tt.NewSearch()
	tt.Store(b, 2, 20, ExactBound, NullMove)
	if _, ok := tt.Lookup(b); !ok {
		t.Fatalf("entry from an older search should be replaced")
	}

	// the same position always updates its own slot
	tt.Store(b, 1, 30, LowerBound, NullMove)
	if entry, _ := tt.Lookup(b); entry.Score != 30 {
		t.Fatalf("same-position store should overwrite, got %+v", entry)
	}
}

func TestTransTableClear(t *testing.T) {
	tt := NewTransTable(11, AlwaysReplace)
	for h := uint64(0); h < 11; h++ {
		tt.Store(h, 1, 0, ExactBound, NullMove)
	}
	if tt.HashFull() != 1000 {
		t.Fatalf("expected a full table, got %d", tt.HashFull())
	}
	tt.Clear()
	if tt.HashFull() != 0 {
		t.Fatalf("expected an empty table after Clear, got %d", tt.HashFull())
	}
	if _, ok := tt.Lookup(3); ok {
		t.Fatalf("lookup after Clear must miss")
	}
}

func TestMateScoreTableAdjustment(t *testing.T) {
	// mate found 5 plies below a node sitting at ply 3
	score := MateScore - 8
	stored := scoreToTT(score, 3)
	if stored != MateScore-5 {
		t.Fatalf("stored score %d want %d", stored, MateScore-5)
	}
	if got := scoreFromTT(stored, 7); got != MateScore-12 {
		t.Fatalf("score read at ply 7: got %d want %d", got, MateScore-12)
	}
	if got := scoreFromTT(scoreToTT(-score, 3), 3); got != -score {
		t.Fatalf("round trip of a mated score: got %d want %d", got, -score)
	}
	if got := scoreToTT(150, 9); got != 150 {
		t.Fatalf("ordinary scores are stored as is, got %d", got)
	}
}
