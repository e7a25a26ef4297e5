package engine

// Bound classifies a stored score relative to the window it was searched with.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound       // failed high: the true score is at least Score
	UpperBound       // failed low: the true score is at most Score
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	}
	return "unknown"
}

// Replacement selects what happens when a store lands on an occupied slot.
type Replacement uint8

const (
	// AlwaysReplace overwrites the incumbent regardless of its depth.
	AlwaysReplace Replacement = iota
	// DepthPreferred keeps a deeper entry written during the current search.
	DepthPreferred
)

const DefaultTTSize = 1 << 20

type TTEntry struct {
	Hash  uint64
	Depth int8
	Move  Move
	Score int32
	Flag  Bound

	age  uint8
	used bool
}

// TTStats counts table traffic since the last Clear.
type TTStats struct {
	Probes     uint64
	Hits       uint64
	Collisions uint64
	Stores     uint64
}

// TransTable is a fixed-capacity table indexed by fingerprint mod capacity.
// It belongs to one engine and is not safe for concurrent use.
type TransTable struct {
	entries []TTEntry
	size    uint64
	policy  Replacement
	age     uint8
	stats   TTStats
}

// NewTransTable allocates a table with at least capacity slots; the slot count
// is rounded up to a prime so fingerprints spread evenly.
func NewTransTable(capacity int, policy Replacement) *TransTable {
	if capacity < 2 {
		capacity = 2
	}
	size := nextPrime(uint64(capacity))
	return &TransTable{
		entries: make([]TTEntry, size),
		size:    size,
		policy:  policy,
	}
}

func nextPrime(n uint64) uint64 {
	for ; ; n++ {
		if isPrime(n) {
			return n
		}
	}
}

func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// Capacity returns the number of slots.
func (tt *TransTable) Capacity() int {
	return int(tt.size)
}

func (tt *TransTable) slot(hash uint64) *TTEntry {
	return &tt.entries[hash%tt.size]
}

// Lookup returns the entry stored for hash. A slot holding a different
// fingerprint is a miss, never a hit on someone else's data.
func (tt *TransTable) Lookup(hash uint64) (TTEntry, bool) {
	tt.stats.Probes++
	entry := tt.slot(hash)
	if !entry.used {
		return TTEntry{}, false
	}
	if entry.Hash != hash {
		tt.stats.Collisions++
		return TTEntry{}, false
	}
	tt.stats.Hits++
	return *entry, true
}

/*
Store writes an entry for hash. The default is an "always replace"-approach:
whatever sits in the slot is overwritten. DepthPreferred keeps an entry from
the current search when it was searched deeper than the new one.
*/
func (tt *TransTable) Store(hash uint64, depth int, score int32, flag Bound, move Move) {
	entry := tt.slot(hash)
	if tt.policy == DepthPreferred && entry.used && entry.age == tt.age &&
		entry.Hash != hash && int(entry.Depth) > depth {
		return
	}
	tt.stats.Stores++
	*entry = TTEntry{
		Hash:  hash,
		Depth: int8(Clamp(depth, 0, 127)),
		Move:  move,
		Score: score,
		Flag:  flag,
		age:   tt.age,
		used:  true,
	}
}

// NewSearch starts a new generation for the depth-preferred policy.
func (tt *TransTable) NewSearch() {
	tt.age++
}

// Clear empties the table and its counters.
func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.stats = TTStats{}
}

func (tt *TransTable) Stats() TTStats {
	return tt.stats
}

// HashFull returns the permille of sampled slots in use, as UCI reports it.
func (tt *TransTable) HashFull() int {
	sample := Min(1000, len(tt.entries))
	used := 0
	for i := 0; i < sample; i++ {
		if tt.entries[i].used {
			used++
		}
	}
	return used * 1000 / sample
}
