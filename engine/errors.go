package engine

import "errors"

var (
	// ErrNoLegalMoves is returned when Search is asked to move in a finished game.
	ErrNoLegalMoves = errors.New("engine: no legal moves")

	// ErrDeadlineExceeded unwinds an in-progress depth back to the iterative
	// deepening loop. Callers of Search never see it.
	ErrDeadlineExceeded = errors.New("engine: deadline exceeded")

	ErrUnknownProfile = errors.New("engine: unknown profile")
	ErrInvalidConfig  = errors.New("engine: invalid config")
)
