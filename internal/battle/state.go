package battle

import "fmt"

// State is the battle state machine position.
type State int

const (
	PlayerTurn State = iota
	ResolvingPlayerAttack
	OpponentTurn
	ResolvingOpponentAttack
	Won
	Lost
	Inactive
)

var stateNames = [...]string{
	PlayerTurn:              "player_turn",
	ResolvingPlayerAttack:   "resolving_player_attack",
	OpponentTurn:            "opponent_turn",
	ResolvingOpponentAttack: "resolving_opponent_attack",
	Won:                     "won",
	Lost:                    "lost",
	Inactive:                "inactive",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name for JSON snapshots.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("battle: unknown state %q", text)
}
