package battle

// Opponent identities. Rules are looked up by these IDs, never by display name.
const (
	OpponentCopilot  = "copilot"
	OpponentWindsurf = "windsurf"
	OpponentCodex    = "codex"
	OpponentClaude   = "claude"
)

// RuleContext is the battle state a rule predicate may inspect.
type RuleContext struct {
	Player *Player
	Level  int
}

// Rule is a conditional damage modifier bound to one opponent.
//
// A rule fires either deterministically through Trigger or with probability
// Chance. At most one rule is evaluated per opponent attack.
type Rule struct {
	Chance     float64
	Trigger    func(RuleContext) bool
	Multiplier float64
	Tag        string
}

// rules maps opponent identity to its modifier.
var rules = map[string]Rule{
	OpponentCopilot: {Chance: 0.30, Multiplier: 0.8, Tag: " (Performance issues!)"},
	OpponentCodex:   {Chance: 0.25, Multiplier: 1.3, Tag: " (Innovative approach!)"},
	OpponentClaude: {
		Trigger:    func(rc RuleContext) bool { return rc.Player != nil && rc.Player.HP < 50 },
		Multiplier: 0.7,
		Tag:        " (Shows mercy!)",
	},
	OpponentWindsurf: {Chance: 0.20, Multiplier: 1.2, Tag: " (Learning from battle!)"},
}

// RuleFor returns the modifier for an opponent identity.
func RuleFor(opponentID string) (Rule, bool) {
	r, ok := rules[opponentID]
	return r, ok
}

// Fires reports whether the rule triggers. Deterministic rules never consume
// a random draw.
func (r Rule) Fires(rc RuleContext, d Dice) bool {
	if r.Trigger != nil {
		return r.Trigger(rc)
	}
	return d.Float64() < r.Chance
}

// Apply evaluates the rule and returns the adjusted damage and the message
// tag. When the rule does not fire the damage is returned unchanged with an
// empty tag.
func (r Rule) Apply(damage int, rc RuleContext, d Dice) (int, string) {
	if !r.Fires(rc, d) {
		return damage, ""
	}
	return floorInt(float64(damage) * r.Multiplier), r.Tag
}
