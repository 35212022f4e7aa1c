package battle

import (
	"math"
	"math/rand/v2"
)

// Dice is the engine's only source of randomness. *rand.Rand satisfies it;
// tests substitute scripted draws.
type Dice interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// IntN returns a uniform draw in [0, n).
	IntN(n int) int
}

// NewDice returns a seeded PCG generator.
func NewDice(seed uint64) Dice {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Roll parameters.
const (
	CriticalChance     = 0.15
	CriticalMultiplier = 1.5

	playerVarianceMin   = 0.8
	playerVarianceRange = 0.4

	opponentBaseDamage    = 6
	opponentDamagePerLvl  = 2
	opponentVarianceMin   = 0.9
	opponentVarianceRange = 0.2
)

// AttackResult is the outcome of one player attack roll.
type AttackResult struct {
	HitRoll  float64 `json:"hitRoll"`
	Hit      bool    `json:"hit"`
	Critical bool    `json:"critical"`
	Damage   int     `json:"damage"`
}

// ResolveAttack performs the three independent draws of a player attack in
// order: hit, critical, damage. A miss returns before the critical draw.
func ResolveAttack(a Attack, d Dice) AttackResult {
	res := AttackResult{HitRoll: d.Float64() * 100}
	if res.HitRoll >= float64(a.Accuracy) {
		return res
	}
	res.Hit = true
	res.Critical = d.Float64() < CriticalChance

	damage := floorInt(float64(a.Power) * (playerVarianceMin + d.Float64()*playerVarianceRange))
	if res.Critical {
		damage = floorInt(float64(damage) * CriticalMultiplier)
	}
	res.Damage = max(0, damage)
	return res
}

// OpponentAttackResult is the outcome of one opponent attack roll.
type OpponentAttackResult struct {
	AttackName string `json:"attackName"`
	Damage     int    `json:"damage"`
	Tag        string `json:"tag,omitempty"`
}

// ResolveOpponentAttack rolls base damage, picks a flavor attack name and
// applies the opponent's own modifier rule.
func ResolveOpponentAttack(opp *Opponent, level int, player *Player, d Dice) OpponentAttackResult {
	base := float64(opponentBaseDamage + opponentDamagePerLvl*level)
	damage := floorInt(base * (opponentVarianceMin + d.Float64()*opponentVarianceRange))

	var name string
	if len(opp.Attacks) > 0 {
		name = opp.Attacks[d.IntN(len(opp.Attacks))]
	}

	var tag string
	if rule, ok := RuleFor(opp.ID); ok {
		damage, tag = rule.Apply(damage, RuleContext{Player: player, Level: level}, d)
	}

	return OpponentAttackResult{AttackName: name, Damage: max(0, damage), Tag: tag}
}

func floorInt(v float64) int {
	return int(math.Floor(v))
}
