package battle

// PickAttack chooses an attack for unattended play. When some attack is
// guaranteed to finish the opponent on a hit, the most accurate of those is
// used; otherwise the attack with the best expected damage.
func PickAttack(attacks []Attack, opponentHP int) int {
	best, bestFinisher := -1, -1
	for i, a := range attacks {
		if floorInt(float64(a.Power)*playerVarianceMin) >= opponentHP {
			if bestFinisher < 0 || a.Accuracy > attacks[bestFinisher].Accuracy {
				bestFinisher = i
			}
		}
		if best < 0 || a.Power*a.Accuracy > attacks[best].Power*attacks[best].Accuracy {
			best = i
		}
	}
	if bestFinisher >= 0 {
		return bestFinisher
	}
	return best
}
