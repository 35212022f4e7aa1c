package battle

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTurnAction is returned when input arrives out of turn or after
	// the battle has ended. Callers treat it as a no-op.
	ErrInvalidTurnAction = errors.New("battle: action not allowed in current turn")

	// ErrUnknownAttack is returned for an attack index outside the player's list.
	ErrUnknownAttack = fmt.Errorf("%w: unknown attack", ErrInvalidTurnAction)

	// ErrOutOfRange is returned when the current opponent is queried after the
	// game is complete.
	ErrOutOfRange = errors.New("battle: opponent index out of range")
)
