package scoring

import (
	"math"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

// BleachingAlertLevel derives the 0–5 coral bleaching alert level from
// sea-surface temperature (°C) and degree heating weeks. Each level is
// triggered by either driver crossing its threshold.
func BleachingAlertLevel(sst, dhw float64) int {
	switch {
	case sst >= 31 || dhw >= 12:
		return 5
	case sst >= 30.5 || dhw >= 8:
		return 4
	case sst >= 30 || dhw >= 4:
		return 3
	case sst >= 29.5 || dhw >= 1:
		return 2
	case sst >= 29:
		return 1
	default:
		return 0
	}
}

// ReefHealthIndex computes the 0–100 reef health index:
//
//	80 − min(30, |anomaly|·10) − min(20, DHW·2) − alertLevel·5
//
// where anomaly is SST minus the climatological baseline. Clamped to [0,100].
func ReefHealthIndex(sst, dhw, baseline float64) float64 {
	level := BleachingAlertLevel(sst, dhw)
	health := 80 - anomalyPenalty(sst-baseline) - dhwPenalty(dhw) - float64(level)*5
	return clamp(health)
}

// anomalyPenalty caps the thermal-anomaly penalty at 30 points.
func anomalyPenalty(anomaly float64) float64 {
	return math.Min(30, math.Abs(anomaly)*10)
}

// dhwPenalty caps the degree-heating-weeks penalty at 20 points.
func dhwPenalty(dhw float64) float64 {
	return math.Min(20, dhw*2)
}

// TierFromAlertLevel maps a bleaching alert level onto a risk tier. Reef
// bleaching classifies from the alert level directly, not from the composite
// index.
func TierFromAlertLevel(level int) domain.RiskTier {
	switch {
	case level >= 4:
		return domain.TierSevere
	case level == 3:
		return domain.TierHigh
	case level == 2:
		return domain.TierModerate
	default:
		return domain.TierLow
	}
}
