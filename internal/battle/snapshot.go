package battle

// Snapshot is a detached copy of the engine state, safe to hand to other
// goroutines and to encode as JSON.
type Snapshot struct {
	Level         int       `json:"level"`
	OpponentIndex int       `json:"opponentIndex"`
	Complete      bool      `json:"complete"`
	State         State     `json:"state"`
	Active        bool      `json:"active"`
	Outcome       Outcome   `json:"outcome,omitempty"`
	AwaitingNext  bool      `json:"awaitingNext"`
	Player        Player    `json:"player"`
	Opponent      *Opponent `json:"opponent,omitempty"`
	Messages      []Message `json:"messages"`
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	s := e.session
	p := *e.model.Player
	p.Attacks = append([]Attack(nil), p.Attacks...)

	snap := Snapshot{
		Level:         e.model.Level,
		OpponentIndex: e.model.OpponentIndex,
		Complete:      e.model.IsComplete(),
		State:         s.state,
		Active:        s.active,
		Outcome:       s.outcome,
		AwaitingNext:  s.advanceReady,
		Player:        p,
		Messages:      s.log.Entries(),
	}

	// After the final win the index points past the roster; report the last
	// opponent fought instead.
	idx := min(e.model.OpponentIndex, len(e.model.Opponents)-1)
	if idx >= 0 {
		o := *e.model.Opponents[idx]
		o.Attacks = append([]string(nil), o.Attacks...)
		o.SpecialAbilities = append([]string(nil), o.SpecialAbilities...)
		snap.Opponent = &o
	}
	return snap
}
