package board

// Perft counts the leaf nodes of the legal move tree to depth. It walks the
// board through Apply/Undo, so it checks the adapter and not only the generator.
func (b *Board) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		b.Apply(m)
		nodes += b.Perft(depth - 1)
		b.Undo(m)
	}
	return nodes
}

// PerftDivide returns the perft count below each root move, keyed by its UCI string.
func (b *Board) PerftDivide(depth int) map[string]uint64 {
	div := make(map[string]uint64)
	if depth <= 0 {
		return div
	}
	for _, m := range b.LegalMoves() {
		b.Apply(m)
		div[m.String()] = b.Perft(depth - 1)
		b.Undo(m)
	}
	return div
}
