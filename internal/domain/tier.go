package domain

// RiskTier is an ordered categorical risk classification.
type RiskTier string

const (
	TierLow      RiskTier = "low"
	TierModerate RiskTier = "moderate"
	TierHigh     RiskTier = "high"
	TierSevere   RiskTier = "severe"
)

var tierRank = map[RiskTier]int{
	TierLow:      0,
	TierModerate: 1,
	TierHigh:     2,
	TierSevere:   3,
}

// Rank returns the tier's position in the total order low < moderate < high < severe.
// Unknown tiers rank below low.
func (t RiskTier) Rank() int {
	if r, ok := tierRank[t]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether t is at or above other in the tier order.
func (t RiskTier) AtLeast(other RiskTier) bool {
	return t.Rank() >= other.Rank()
}
