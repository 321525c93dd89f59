// Package scoring converts raw environmental measurements into normalized
// sub-scores and combines them into composite domain indices. Every function
// is pure and deterministic: identical inputs always produce identical
// outputs, with no randomness and no shared mutable state.
package scoring

import (
	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

// Input is one resolved reading entering the normalizer: either a live
// measurement or a substitution default standing in for a failed provider.
type Input struct {
	Measurement domain.Measurement
	Substituted bool
}

// InputSet holds at most one resolved reading per measurement kind.
type InputSet map[domain.MeasurementKind]Input

// Normalizer maps measurements onto 0–100 sub-scores using the calibration
// tables. Read-only after construction; safe for concurrent use.
type Normalizer struct {
	cal *calibration.Calibration
}

// NewNormalizer creates a Normalizer over the given calibration.
func NewNormalizer(cal *calibration.Calibration) *Normalizer {
	return &Normalizer{cal: cal}
}

// Normalize converts one measurement into a sub-score for a domain. ok is
// false when the domain has no mapping for the measurement's kind; the caller
// treats that kind as absent (weight renormalization covers the gap).
func (n *Normalizer) Normalize(m domain.Measurement, d domain.Domain) (domain.SubScore, bool) {
	score, ok := n.score(m.Kind, m.Value, d)
	if !ok {
		return domain.SubScore{}, false
	}
	return domain.SubScore{Kind: m.Kind, Score: clamp(score), Domain: d}, true
}

// SubScores resolves every kind in the domain's weight table against the input
// set, producing one sub-score per kind with a reading (live or substituted).
// Derived kinds (pollution, biodiversity) are computed from their input kinds
// and omitted when any input is missing entirely. The returned slice order
// follows domain.MeasuredKinds for determinism.
func (n *Normalizer) SubScores(d domain.Domain, inputs InputSet) ([]domain.SubScore, error) {
	weights, err := n.cal.WeightsFor(d)
	if err != nil {
		return nil, err
	}

	var scores []domain.SubScore
	for _, kind := range domain.MeasuredKinds {
		if _, weighted := weights[kind]; !weighted {
			continue
		}
		in, ok := inputs[kind]
		if !ok {
			continue
		}
		sub, ok := n.Normalize(in.Measurement, d)
		if !ok {
			continue
		}
		sub.IsSubstituted = in.Substituted
		scores = append(scores, sub)
	}

	if _, weighted := weights[domain.KindPollution]; weighted {
		if sub, ok := n.pollution(d, inputs); ok {
			scores = append(scores, sub)
		}
	}
	if _, weighted := weights[domain.KindBiodiversity]; weighted {
		if sub, ok := n.biodiversity(d, inputs); ok {
			scores = append(scores, sub)
		}
	}

	return scores, nil
}

// score returns the raw 0–100 score for a kind within a domain.
func (n *Normalizer) score(kind domain.MeasurementKind, v float64, d domain.Domain) (float64, bool) {
	switch d {
	case domain.DomainOceanHealth:
		return waterQualityScore(kind, v)
	case domain.DomainFloodRisk:
		return floodScore(kind, v)
	case domain.DomainStormSurge:
		return surgeScore(kind, v)
	case domain.DomainCycloneRisk:
		return cycloneScore(kind, v)
	case domain.DomainReefBleaching:
		return n.reefScore(kind, v)
	}
	return 0, false
}

// waterQualityScore subtracts the fixed step penalty for a kind from the 100
// baseline. The optimal bands are step functions, not sliding scales.
func waterQualityScore(kind domain.MeasurementKind, v float64) (float64, bool) {
	switch kind {
	case domain.KindTemperature:
		if v >= 26 && v <= 30 {
			return 100, true
		}
		return 85, true
	case domain.KindPH:
		switch {
		case v >= 7.8 && v <= 8.4:
			return 100, true
		case v >= 7.6 && v < 8.6:
			return 90, true
		default:
			return 70, true
		}
	case domain.KindSalinity:
		if v >= 34 && v <= 36 {
			return 100, true
		}
		return 90, true
	case domain.KindDissolvedOxygen:
		switch {
		case v < 5:
			return 80, true
		case v < 6:
			return 90, true
		default:
			return 100, true
		}
	case domain.KindTurbidity:
		if v > 1 {
			return 85, true
		}
		return 100, true
	}
	return 0, false
}

// Flood term caps. Each driver contributes a stepped term; the composite
// weights are proportioned so the weighted sum reproduces the plain term sum
// when every driver is present (precipitation 0–50, accumulation 0–30,
// saturation 0–20).
const (
	floodPrecipCap = 50.0
	floodAccumCap  = 30.0
	floodSoilCap   = 20.0
)

func floodScore(kind domain.MeasurementKind, v float64) (float64, bool) {
	switch kind {
	case domain.KindRainfall:
		return floodPrecipTerm(v) * (100 / floodPrecipCap), true
	case domain.KindRainfall24h:
		return floodAccumTerm(v) * (100 / floodAccumCap), true
	case domain.KindSoilMoisture:
		return floodSoilTerm(v) * (100 / floodSoilCap), true
	}
	return 0, false
}

// floodPrecipTerm maps current precipitation (mm) onto 0–50.
func floodPrecipTerm(mm float64) float64 {
	switch {
	case mm >= 50:
		return 50
	case mm >= 25:
		return 35
	case mm >= 10:
		return 20
	case mm >= 5:
		return 10
	default:
		return 0
	}
}

// floodAccumTerm maps 24h accumulation (mm) onto 0–30.
func floodAccumTerm(mm float64) float64 {
	switch {
	case mm >= 100:
		return 30
	case mm >= 50:
		return 20
	case mm >= 25:
		return 12
	case mm >= 10:
		return 5
	default:
		return 0
	}
}

// floodSoilTerm maps soil saturation (fraction) onto 0–20.
func floodSoilTerm(frac float64) float64 {
	switch {
	case frac >= 0.8:
		return 20
	case frac >= 0.6:
		return 14
	case frac >= 0.4:
		return 8
	default:
		return 0
	}
}

// Storm-surge term caps (wave 0–40, wind 0–40, swell 0–20).
const (
	surgeWaveCap  = 40.0
	surgeWindCap  = 40.0
	surgeSwellCap = 20.0
)

func surgeScore(kind domain.MeasurementKind, v float64) (float64, bool) {
	switch kind {
	case domain.KindWaveHeight:
		return surgeWaveTerm(v) * (100 / surgeWaveCap), true
	case domain.KindWindSpeed:
		return surgeWindTerm(v) * (100 / surgeWindCap), true
	case domain.KindSwellHeight:
		return surgeSwellTerm(v) * (100 / surgeSwellCap), true
	}
	return 0, false
}

func surgeWaveTerm(m float64) float64 {
	switch {
	case m >= 5:
		return 40
	case m >= 3:
		return 30
	case m >= 2:
		return 20
	case m >= 1.5:
		return 10
	default:
		return 0
	}
}

func surgeWindTerm(kmh float64) float64 {
	switch {
	case kmh >= 100:
		return 40
	case kmh >= 75:
		return 30
	case kmh >= 50:
		return 20
	case kmh >= 30:
		return 10
	default:
		return 0
	}
}

func surgeSwellTerm(m float64) float64 {
	switch {
	case m >= 4:
		return 20
	case m >= 2.5:
		return 12
	case m >= 1.5:
		return 6
	default:
		return 0
	}
}

// cycloneScore grades storm drivers on Saffir-Simpson-shaped steps: sustained
// wind (km/h), central pressure (hPa, deeper low reads higher), and SST
// (waters ≥26.5 °C sustain tropical development).
func cycloneScore(kind domain.MeasurementKind, v float64) (float64, bool) {
	switch kind {
	case domain.KindWindSpeed:
		switch {
		case v >= 250:
			return 100, true
		case v >= 210:
			return 85, true
		case v >= 178:
			return 70, true
		case v >= 154:
			return 55, true
		case v >= 119:
			return 40, true
		case v >= 63:
			return 25, true
		default:
			return 10, true
		}
	case domain.KindPressure:
		switch {
		case v <= 920:
			return 100, true
		case v <= 945:
			return 80, true
		case v <= 965:
			return 60, true
		case v <= 980:
			return 40, true
		case v <= 1000:
			return 20, true
		default:
			return 0, true
		}
	case domain.KindTemperature:
		switch {
		case v >= 30:
			return 100, true
		case v >= 29:
			return 80, true
		case v >= 28:
			return 60, true
		case v >= 26.5:
			return 40, true
		default:
			return 10, true
		}
	}
	return 0, false
}

// reefScore records the informational per-driver components of the reef health
// index: 100 minus the driver's capped penalty from the health-index formula.
// The reef overall does not come from these via weighted sum; see ReefIndex.
func (n *Normalizer) reefScore(kind domain.MeasurementKind, v float64) (float64, bool) {
	switch kind {
	case domain.KindTemperature:
		return 100 - anomalyPenalty(v-n.cal.BaselineSST), true
	case domain.KindDegreeHeatingWeeks:
		return 100 - dhwPenalty(v), true
	}
	return 0, false
}

// pollution derives the pollution proxy: 100 − 50·turbidity − 20·chlorophyll.
func (n *Normalizer) pollution(d domain.Domain, inputs InputSet) (domain.SubScore, bool) {
	turb, okT := inputs[domain.KindTurbidity]
	chl, okC := inputs[domain.KindChlorophyll]
	if !okT || !okC {
		return domain.SubScore{}, false
	}
	score := clamp(100 - 50*turb.Measurement.Value - 20*chl.Measurement.Value)
	return domain.SubScore{
		Kind:          domain.KindPollution,
		Score:         score,
		Domain:        d,
		IsSubstituted: turb.Substituted || chl.Substituted,
	}, true
}

// biodiversity derives the biodiversity proxy:
// 20·chlorophyll + 0.3·waterClarity + 0.5·reefHealthIndex.
// Biodiversity is not independently measured upstream; this deliberately folds
// the reef health index into an ocean-health sub-score. A known cross-domain
// approximation, kept because no provider reports biodiversity directly.
func (n *Normalizer) biodiversity(d domain.Domain, inputs InputSet) (domain.SubScore, bool) {
	chl, okC := inputs[domain.KindChlorophyll]
	clarity, okW := inputs[domain.KindWaterClarity]
	sst, okS := inputs[domain.KindTemperature]
	dhw, okD := inputs[domain.KindDegreeHeatingWeeks]
	if !okC || !okW || !okS || !okD {
		return domain.SubScore{}, false
	}

	reef := ReefHealthIndex(sst.Measurement.Value, dhw.Measurement.Value, n.cal.BaselineSST)
	score := clamp(20*chl.Measurement.Value + 0.3*clarity.Measurement.Value + 0.5*reef)
	return domain.SubScore{
		Kind:          domain.KindBiodiversity,
		Score:         score,
		Domain:        d,
		IsSubstituted: chl.Substituted || clarity.Substituted || sst.Substituted || dhw.Substituted,
	}, true
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
