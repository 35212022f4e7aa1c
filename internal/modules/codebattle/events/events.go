package events

import "github.com/nfrund/codebattle/internal/battle"

// Screens a match can be showing.
const (
	ScreenBattle        = "battle"
	ScreenLevelComplete = "level-complete"
	ScreenGameOver      = "game-over"
	ScreenVictory       = "victory"
)

// Animation actors.
const (
	ActorPlayer   = "player"
	ActorOpponent = "opponent"
)

// Message is one line appended to the battle log.
type Message struct {
	Text     string          `json:"text"`
	Category battle.Category `json:"category"`
}

// Health is a combatant's new health.
type Health struct {
	Side    battle.Side `json:"side"`
	Current int         `json:"current"`
	Max     int         `json:"max"`
}

// Animation asks clients to play an attack effect.
type Animation struct {
	Actor       string `json:"actor"`
	AttackIndex int    `json:"attackIndex"`
	Effect      string `json:"effect,omitempty"`
	Critical    bool   `json:"critical"`
	Heavy       bool   `json:"heavy"`
}

// Turn reports whose move it is. Active is false once the battle has ended
// and the controls should be hidden.
type Turn struct {
	Turn   battle.Turn `json:"turn"`
	Active bool        `json:"active"`
}

// Screen carries the full match state whenever the visible screen changes,
// and when a client needs to resynchronise.
type Screen struct {
	Screen      string          `json:"screen"`
	AutoAdvance bool            `json:"autoAdvance"`
	Snapshot    battle.Snapshot `json:"snapshot"`
}

// Command is player input from a data client.
type Command struct {
	Action string `json:"action"`
	Index  int    `json:"index"`
}

// Command actions.
const (
	ActionAttack  = "attack"
	ActionNext    = "next"
	ActionRestart = "restart"
)
