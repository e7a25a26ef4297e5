package engine

// Weights holds every evaluation input. It is copied into the Evaluator at
// construction, so later edits to a Weights value never leak into a running engine.
type Weights struct {
	// PieceValues is indexed by PieceKind. The king is left at zero since both
	// kings are always on the board.
	PieceValues [7]int32

	// PST tables are written as a diagram seen from White's side: the first row
	// is rank 8, the last row rank 1. Black reads them mirrored.
	PST [7][64]int32

	// Mobility is added per legal move of the side to move, by moving piece kind.
	Mobility [7]int32

	// CheckPenalty is subtracted from the side to move while it is in check.
	CheckPenalty int32
}

// Evaluator scores positions statically. It is pure with respect to the
// position's contents and safe to share between engines.
type Evaluator struct {
	w           Weights
	useMobility bool
}

func NewEvaluator(w Weights) *Evaluator {
	e := &Evaluator{w: w}
	for _, v := range w.Mobility {
		if v != 0 {
			e.useMobility = true
			break
		}
	}
	return e
}

// Weights returns a copy of the evaluator's weights.
func (e *Evaluator) Weights() Weights {
	return e.w
}

// pstIndex maps a board square onto the diagram layout of Weights.PST.
func pstIndex(sq Square, c Color) int {
	if c == White {
		return int(sq) ^ 56
	}
	return int(sq)
}

// Evaluate returns the score of pos from perspective's point of view. The
// result is clamped to ±EvalLimit so that it never reaches mate territory.
func (e *Evaluator) Evaluate(pos Position, perspective Color) int32 {
	var score [2]int32

	for sq := Square(0); sq < 64; sq++ {
		p, ok := pos.PieceAt(sq)
		if !ok {
			continue
		}
		score[p.Color] += e.w.PieceValues[p.Kind] + e.w.PST[p.Kind][pstIndex(sq, p.Color)]
	}

	stm := pos.SideToMove()
	if e.useMobility {
		score[stm] += e.mobility(pos)
	}
	if e.w.CheckPenalty != 0 && pos.InCheck() {
		score[stm] -= e.w.CheckPenalty
	}

	total := score[perspective] - score[perspective.Other()]
	return Clamp(total, -EvalLimit, EvalLimit)
}

func (e *Evaluator) mobility(pos Position) (mob int32) {
	for _, m := range pos.LegalMoves() {
		mob += e.w.Mobility[m.Piece]
	}
	return mob
}

// Material returns the plain material balance from perspective's point of view.
func (e *Evaluator) Material(pos Position, perspective Color) int32 {
	var score [2]int32
	for sq := Square(0); sq < 64; sq++ {
		if p, ok := pos.PieceAt(sq); ok {
			score[p.Color] += e.w.PieceValues[p.Kind]
		}
	}
	return score[perspective] - score[perspective.Other()]
}
