package engine

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// PVLine is the principal variation collected below a node.
type PVLine struct {
	Moves []Move
}

// Clear empties the line, keeping its storage.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = pvLine.Moves[:0]
}

// Update replaces the line with move followed by the child's line.
func (pvLine *PVLine) Update(move Move, newPVLine PVLine) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, move)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
}

// GetPVMove returns the first move of the line, or NullMove.
func (pvLine *PVLine) GetPVMove() Move {
	if len(pvLine.Moves) == 0 {
		return NullMove
	}
	return pvLine.Moves[0]
}

// Clone returns a copy that does not share storage with pvLine.
func (pvLine PVLine) Clone() PVLine {
	moves := make([]Move, len(pvLine.Moves))
	copy(moves, pvLine.Moves)
	return PVLine{Moves: moves}
}

// PVString joins moves in UCI notation separated by spaces.
func PVString(moves []Move) string {
	return strings.Join(lo.Map(moves, func(m Move, _ int) string { return m.String() }), " ")
}

// FormatScore renders a score the way UCI "info score" expects it: "mate N"
// (negative when the side to move is mated) or "cp N".
func FormatScore(score int32) string {
	if score >= MateThreshold {
		pliesToMate := Max(MateScore-score, 0)
		return fmt.Sprintf("mate %d", (pliesToMate+1)/2)
	} else if score <= -MateThreshold {
		pliesToMate := Max(MateScore+score, 0)
		return fmt.Sprintf("mate %d", -(pliesToMate+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int32) bool {
	return Abs(score) >= MateThreshold
}

// moveToFront moves m to index 0, shifting the moves before it one place back.
func moveToFront(moves []Move, m Move) {
	for i, candidate := range moves {
		if candidate == m {
			copy(moves[1:i+1], moves[:i])
			moves[0] = m
			return
		}
	}
}
