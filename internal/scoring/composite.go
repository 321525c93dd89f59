package scoring

import (
	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

// Combine computes the weighted composite of the given sub-scores:
//
//	overall = Σ(weight[k]·score[k]) / Σ(weight[k] for k present)
//
// The denominator covers only kinds present in subScores. Renormalization is
// mandatory: a domain must not read worse just because an optional sub-score
// is missing. Returns 0 when no weighted sub-score is present.
func Combine(subScores []domain.SubScore, weights calibration.Weights) float64 {
	var sum, weightSum float64
	for _, s := range subScores {
		w, ok := weights[s.Kind]
		if !ok {
			continue
		}
		sum += w * s.Score
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return clamp(sum / weightSum)
}

// Classify maps an overall score onto a risk tier using the domain's
// monotone thresholds. Health-style indices (HigherIsBetter) grade the
// risk complement 100−overall.
func Classify(overall float64, t calibration.TierThresholds) domain.RiskTier {
	risk := overall
	if t.HigherIsBetter {
		risk = 100 - overall
	}
	switch {
	case risk >= t.Severe:
		return domain.TierSevere
	case risk >= t.High:
		return domain.TierHigh
	case risk >= t.Moderate:
		return domain.TierModerate
	default:
		return domain.TierLow
	}
}
