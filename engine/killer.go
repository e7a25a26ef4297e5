package engine

// KillerStruct keeps the two most recent quiet moves that caused a beta cutoff at each ply.
type KillerStruct struct {
	KillerMoves [MaxPly + 1][2]Move
}

func (k *KillerStruct) InsertKiller(move Move, ply int) {
	if ply > MaxPly {
		return
	}
	if move != k.KillerMoves[ply][0] {
		k.KillerMoves[ply][1] = k.KillerMoves[ply][0]
		k.KillerMoves[ply][0] = move
	}
}

func (k *KillerStruct) At(ply int) [2]Move {
	if ply > MaxPly {
		return [2]Move{}
	}
	return k.KillerMoves[ply]
}

// Clear the killer moves table.
func (k *KillerStruct) ClearKillers() {
	for ply := range k.KillerMoves {
		k.KillerMoves[ply] = [2]Move{}
	}
}
