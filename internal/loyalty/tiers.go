package loyalty

// TierFor maps lifetime points to the highest tier whose threshold is met
func TierFor(lifetimePoints int) Tier {
	for i := len(Tiers) - 1; i >= 0; i-- {
		if lifetimePoints >= Tiers[i].MinPoints {
			return Tiers[i]
		}
	}
	return Tiers[0]
}

// NextTier returns the tier above the given lifetime points, or nil at
// the top
func NextTier(lifetimePoints int) *Tier {
	for i := range Tiers {
		if lifetimePoints < Tiers[i].MinPoints {
			return &Tiers[i]
		}
	}
	return nil
}

// EarnedPoints converts a monetary amount to points under a tier's
// multiplier. One point per whole unit of currency, scaled and floored.
func EarnedPoints(amount float64, multiplier float64) int {
	if amount <= 0 {
		return 0
	}
	return int(amount * multiplier)
}
