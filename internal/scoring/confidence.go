package scoring

import (
	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

// Confidence tracks how much of a composite was built from live data. It
// starts at the domain's base value and loses a fixed penalty per substituted
// sub-score, floored at the domain minimum. The result accompanies every
// CompositeIndex so consumers can tell "healthy ocean, strong signal" from
// "healthy ocean, mostly defaulted".
func Confidence(subScores []domain.SubScore, p calibration.ConfidenceParams) float64 {
	c := p.Base
	for _, s := range subScores {
		if s.IsSubstituted {
			c -= p.Penalty
		}
	}
	if c < p.Floor {
		return p.Floor
	}
	return c
}
