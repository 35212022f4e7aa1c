package battle

import "fmt"

// Player and opponent starting health. Every level starts from these values.
const (
	PlayerMaxHP   = 100
	OpponentMaxHP = 100
	PlayerName    = "Cursor"
)

// Attack is one of the player's fixed moves. Attacks are static data and are
// shared read-only by every battle.
type Attack struct {
	Name        string `json:"name"`
	Power       int    `json:"power"`
	Accuracy    int    `json:"accuracy"` // hit probability in percent, 0-100
	Description string `json:"description"`
}

// Opponent is one slot of the roster.
type Opponent struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Office           string   `json:"office"`
	HP               int      `json:"hp"`
	MaxHP            int      `json:"maxHp"`
	Theme            string   `json:"theme"`
	Description      string   `json:"description"`
	Attacks          []string `json:"attacks"` // flavor only, never affects damage
	SpecialAbilities []string `json:"specialAbilities"`
	Personality      string   `json:"personality"`
}

// Player is the character controlled by the user.
type Player struct {
	Name    string   `json:"name"`
	HP      int      `json:"hp"`
	MaxHP   int      `json:"maxHp"`
	Attacks []Attack `json:"attacks"`
}

// Model is the roster and progress state. It is the single source of truth
// for persistent stats; a battle session only reads and mutates it.
type Model struct {
	Opponents     []*Opponent
	Player        *Player
	Level         int
	OpponentIndex int
}

// PlayerAttacks returns the fixed attack list. A fresh slice is returned so
// callers cannot mutate the shared table.
func PlayerAttacks() []Attack {
	return []Attack{
		{Name: "Tab Tab Tab", Power: 15, Accuracy: 95, Description: "Rapid key-stroke attacks"},
		{Name: "Cmd Knockout", Power: 30, Accuracy: 80, Description: "Terminal command punch"},
		{Name: "BugBattler", Power: 25, Accuracy: 85, Description: "Code debugger swarm"},
		{Name: "Agentic Assault", Power: 35, Accuracy: 70, Description: "AI agent martini strike"},
	}
}

// Roster returns the four opponents in fight order, all at full health.
func Roster() []*Opponent {
	return []*Opponent{
		{
			ID:               OpponentCopilot,
			Name:             "Copilot",
			Office:           "Microsoft",
			HP:               OpponentMaxHP,
			MaxHP:            OpponentMaxHP,
			Theme:            "copilot",
			Description:      "Microsoft's coding assistant",
			Attacks:          []string{"Code Suggestion", "IntelliSense Blast", "TypeScript Strike"},
			SpecialAbilities: []string{"Auto-complete Shield", "Variable Mangle"},
			Personality:      "Helpful but sometimes buggy",
		},
		{
			ID:               OpponentWindsurf,
			Name:             "Windsurf",
			Office:           "Cognition",
			HP:               OpponentMaxHP,
			MaxHP:            OpponentMaxHP,
			Theme:            "windsurf",
			Description:      "Cognition's AI developer",
			Attacks:          []string{"Neural Network", "Deep Learning Dive", "Code Generation"},
			SpecialAbilities: []string{"Pattern Recognition", "Algorithm Boost"},
			Personality:      "Thoughtful and methodical",
		},
		{
			ID:               OpponentCodex,
			Name:             "Codex",
			Office:           "OpenAI",
			HP:               OpponentMaxHP,
			MaxHP:            OpponentMaxHP,
			Theme:            "codex",
			Description:      "OpenAI's coding AI",
			Attacks:          []string{"GPT Punch", "Token Strike", "API Callout"},
			SpecialAbilities: []string{"Model Scaling", "Context Window"},
			Personality:      "Creative and adaptable",
		},
		{
			ID:               OpponentClaude,
			Name:             "Claude Code",
			Office:           "Anthropic",
			HP:               OpponentMaxHP,
			MaxHP:            OpponentMaxHP,
			Theme:            "claude",
			Description:      "Anthropic's coding assistant",
			Attacks:          []string{"Ethical Strike", "Reasoning Blow", "Alignment Burst"},
			SpecialAbilities: []string{"Safety Filter", "Constitutional AI"},
			Personality:      "Wise and principled",
		},
	}
}

// NewModel builds a fresh roster and player at level 1.
func NewModel() *Model {
	return &Model{
		Opponents: Roster(),
		Player: &Player{
			Name:    PlayerName,
			HP:      PlayerMaxHP,
			MaxHP:   PlayerMaxHP,
			Attacks: PlayerAttacks(),
		},
		Level:         1,
		OpponentIndex: 0,
	}
}

// IsComplete reports whether every opponent has been defeated.
func (m *Model) IsComplete() bool {
	return m.OpponentIndex >= len(m.Opponents)
}

// CurrentOpponent returns the opponent at the current index. Callers must
// check IsComplete first; a complete game yields ErrOutOfRange.
func (m *Model) CurrentOpponent() (*Opponent, error) {
	if m.OpponentIndex < 0 || m.IsComplete() {
		return nil, fmt.Errorf("%w: opponent index %d, roster size %d", ErrOutOfRange, m.OpponentIndex, len(m.Opponents))
	}
	return m.Opponents[m.OpponentIndex], nil
}

// resetForLevel restores the player and the current opponent to full health.
func (m *Model) resetForLevel() error {
	opp, err := m.CurrentOpponent()
	if err != nil {
		return err
	}
	m.Player.MaxHP = PlayerMaxHP
	m.Player.HP = PlayerMaxHP
	opp.HP = opp.MaxHP
	return nil
}
