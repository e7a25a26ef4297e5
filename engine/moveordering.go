package engine

type scoredMove struct {
	move  Move
	score int32
}

type moveList struct {
	moves []scoredMove
}

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 15, 14, 13, 12, 11, 10}, // victim Pawn
	{0, 25, 24, 23, 22, 21, 20}, // victim Knight
	{0, 35, 34, 33, 32, 31, 30}, // victim Bishop
	{0, 45, 44, 43, 42, 41, 40}, // victim Rook
	{0, 55, 54, 53, 52, 51, 50}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},       // victim King
}

/*
Move ordering offsets, best first:
  - the hash move from the transposition table, usually the best move of the previous iteration
  - captures, ranked by MVV-LVA when enabled
  - promotions
  - killer moves (quiet moves that cut off a sibling node)
  - the rest, in generation order
*/
const (
	hashOffset      int32 = 30000
	captureOffset   int32 = 20000
	promotionOffset int32 = 15000
	killerOffset    int32 = 10000
)

// Orderer ranks moves before expansion. Ordering only changes how soon
// cutoffs happen, never the value the search returns.
type Orderer struct {
	mvvLva bool
}

func NewOrderer(useMVVLVA bool) *Orderer {
	return &Orderer{mvvLva: useMVVLVA}
}

// Order returns a new slice with moves sorted best first. Equal scores keep
// their input order, so the result is deterministic for identical input.
func (o *Orderer) Order(moves []Move, pos Position) []Move {
	list := o.scoreMoves(moves, NullMove, [2]Move{})
	ordered := make([]Move, len(list.moves))
	for i := range list.moves {
		orderNextMove(i, &list)
		ordered[i] = list.moves[i].move
	}
	return ordered
}

func (o *Orderer) scoreMove(m Move) int32 {
	switch {
	case m.IsCapture():
		if o.mvvLva {
			return captureOffset + mvvLva[m.Captured][m.Piece]
		}
		return captureOffset
	case m.IsPromotion():
		return promotionOffset + int32(m.Promotion)
	}
	return 0
}

func (o *Orderer) scoreMoves(moves []Move, hashMove Move, killers [2]Move) (list moveList) {
	list.moves = make([]scoredMove, len(moves))
	for i, m := range moves {
		var score int32
		switch {
		case !hashMove.IsNull() && m == hashMove:
			score = hashOffset
		case !m.IsQuiet():
			score = o.scoreMove(m)
		case !killers[0].IsNull() && m == killers[0]:
			score = killerOffset + 1
		case !killers[1].IsNull() && m == killers[1]:
			score = killerOffset
		}
		list.moves[i] = scoredMove{move: m, score: score}
	}
	return list
}

func (o *Orderer) scoreCaptures(moves []Move) (list moveList) {
	list.moves = make([]scoredMove, len(moves))
	for i, m := range moves {
		list.moves[i] = scoredMove{move: m, score: o.scoreMove(m)}
	}
	return list
}

// Ordering the moves one at a time, at index given. The best remaining move is
// rotated into place so that ties keep their original order.
func orderNextMove(currIndex int, list *moveList) {
	bestIndex := currIndex
	bestScore := list.moves[bestIndex].score

	for index := currIndex + 1; index < len(list.moves); index++ {
		if list.moves[index].score > bestScore {
			bestIndex = index
			bestScore = list.moves[index].score
		}
	}

	if bestIndex == currIndex {
		return
	}
	best := list.moves[bestIndex]
	copy(list.moves[currIndex+1:bestIndex+1], list.moves[currIndex:bestIndex])
	list.moves[currIndex] = best
}
