package board

import "chess-challenge/engine"

const fiftyMoveLimit = 100

// State captures what we need to reason about repetitions and draws, plus the
// legal moves of the position once they have been generated.
type State struct {
	Hash   uint64
	Rule50 int

	moves     []engine.Move
	generated bool
}

type stateStack []State

func (s *stateStack) push(hash uint64, rule50 int) {
	*s = append(*s, State{Hash: hash, Rule50: rule50})
}

func (s *stateStack) pop() {
	if len(*s) == 0 {
		return
	}
	*s = (*s)[:len(*s)-1]
}

func (s stateStack) top() *State {
	return &s[len(s)-1]
}

// repetitions counts earlier occurrences of the current position. Only the
// states since the last irreversible move can repeat it.
func (s stateStack) repetitions() int {
	if len(s) <= 1 {
		return 0
	}
	curr := s[len(s)-1]
	start := engine.Max(len(s)-1-curr.Rule50, 0)
	count := 0
	for i := len(s) - 3; i >= start; i -= 2 {
		if s[i].Hash == curr.Hash {
			count++
		}
	}
	return count
}
