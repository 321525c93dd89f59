// Package calibration holds every tunable the scoring engine consults:
// per-domain weight tables, tier thresholds, confidence parameters, the
// substitution defaults table, regional segment multipliers, and alert gate
// values. Compiled-in defaults can be overridden from a YAML file so the
// system can be recalibrated without a code change.
package calibration

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

// Weights maps measurement kinds to their relative weight in one domain's
// composite. Weights are renormalized over present kinds at compute time, so
// only relative magnitude matters.
type Weights map[domain.MeasurementKind]float64

// TierThresholds are the monotone cut points for risk classification.
// Scores at or above Severe classify severe, then High, then Moderate;
// everything below Moderate is low. When HigherIsBetter is set the classifier
// grades 100−overall instead of the overall itself (health-style indices).
type TierThresholds struct {
	Severe         float64 `yaml:"severe"`
	High           float64 `yaml:"high"`
	Moderate       float64 `yaml:"moderate"`
	HigherIsBetter bool    `yaml:"higherIsBetter"`
}

// ConfidenceParams control how substituted inputs degrade confidence.
type ConfidenceParams struct {
	Base    float64 `yaml:"base"`
	Penalty float64 `yaml:"penalty"`
	Floor   float64 `yaml:"floor"`
}

// AlertGates are the driver-value conditions that must hold, in addition to
// the tier condition, before an alert is emitted.
type AlertGates struct {
	FloodRain24hMin   float64 `yaml:"floodRain24hMin"`   // mm
	SurgeWaveMin      float64 `yaml:"surgeWaveMin"`      // m
	SurgeWindMin      float64 `yaml:"surgeWindMin"`      // km/h
	CycloneWindMin    float64 `yaml:"cycloneWindMin"`    // km/h
	ReefAlertLevelMin int     `yaml:"reefAlertLevelMin"` // bleaching alert level 0–5
	OceanTurbidityMax float64 `yaml:"oceanTurbidityMax"` // unitless index
	OceanOxygenMin    float64 `yaml:"oceanOxygenMin"`    // mg/L
}

// Default holds one substitution default: the value and unit used when a kind
// has no live reading.
type Default struct {
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit"`
}

// Calibration is the full set of reference tables. Loaded once at startup and
// read-only afterwards; safe for concurrent use.
type Calibration struct {
	Weights     map[domain.Domain]Weights          `yaml:"weights"`
	Thresholds  map[domain.Domain]TierThresholds   `yaml:"thresholds"`
	Confidence  map[domain.Domain]ConfidenceParams `yaml:"confidence"`
	Defaults    map[domain.MeasurementKind]Default `yaml:"defaults"`
	Segments    []domain.RegionalSegment           `yaml:"segments"`
	Gates       AlertGates                         `yaml:"gates"`
	BaselineSST float64                            `yaml:"baselineSST"` // climatological SST for anomaly, °C
}

// ConfigError reports a domain with no weight or threshold table. This is the
// one fatal error class: data unavailability is recovered by substitution, a
// missing table is a setup failure and must surface immediately.
type ConfigError struct {
	Domain  domain.Domain
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("calibration: domain %q has no %s table", e.Domain, e.Missing)
}

// WeightsFor returns the weight table for a domain.
func (c *Calibration) WeightsFor(d domain.Domain) (Weights, error) {
	w, ok := c.Weights[d]
	if !ok || len(w) == 0 {
		return nil, &ConfigError{Domain: d, Missing: "weight"}
	}
	return w, nil
}

// ThresholdsFor returns the tier thresholds for a domain.
func (c *Calibration) ThresholdsFor(d domain.Domain) (TierThresholds, error) {
	t, ok := c.Thresholds[d]
	if !ok {
		return TierThresholds{}, &ConfigError{Domain: d, Missing: "threshold"}
	}
	return t, nil
}

// ConfidenceFor returns the confidence parameters for a domain, falling back
// to conservative values when a domain has no entry.
func (c *Calibration) ConfidenceFor(d domain.Domain) ConfidenceParams {
	if p, ok := c.Confidence[d]; ok {
		return p
	}
	return ConfidenceParams{Base: 0.80, Penalty: 0.05, Floor: 0.60}
}

// DefaultFor returns the substitution default for a measurement kind.
func (c *Calibration) DefaultFor(kind domain.MeasurementKind) (Default, bool) {
	d, ok := c.Defaults[kind]
	return d, ok
}

// NewDefault returns the compiled-in calibration.
func NewDefault() *Calibration {
	return &Calibration{
		Weights: map[domain.Domain]Weights{
			domain.DomainOceanHealth: {
				domain.KindTemperature:     0.20,
				domain.KindPH:              0.15,
				domain.KindSalinity:        0.10,
				domain.KindDissolvedOxygen: 0.15,
				domain.KindTurbidity:       0.10,
				domain.KindPollution:       0.15,
				domain.KindBiodiversity:    0.15,
			},
			domain.DomainFloodRisk: {
				domain.KindRainfall:     0.50,
				domain.KindRainfall24h:  0.30,
				domain.KindSoilMoisture: 0.20,
			},
			domain.DomainStormSurge: {
				domain.KindWaveHeight:  0.40,
				domain.KindWindSpeed:   0.40,
				domain.KindSwellHeight: 0.20,
			},
			domain.DomainCycloneRisk: {
				domain.KindWindSpeed:   0.45,
				domain.KindPressure:    0.35,
				domain.KindTemperature: 0.20,
			},
			domain.DomainReefBleaching: {
				domain.KindTemperature:        0.50,
				domain.KindDegreeHeatingWeeks: 0.50,
			},
		},
		Thresholds: map[domain.Domain]TierThresholds{
			domain.DomainOceanHealth:   {Severe: 70, High: 50, Moderate: 25, HigherIsBetter: true},
			domain.DomainFloodRisk:     {Severe: 70, High: 50, Moderate: 25},
			domain.DomainStormSurge:    {Severe: 70, High: 50, Moderate: 25},
			domain.DomainCycloneRisk:   {Severe: 70, High: 50, Moderate: 25},
			domain.DomainReefBleaching: {Severe: 70, High: 50, Moderate: 25, HigherIsBetter: true},
		},
		Confidence: map[domain.Domain]ConfidenceParams{
			domain.DomainOceanHealth:   {Base: 0.92, Penalty: 0.05, Floor: 0.65},
			domain.DomainFloodRisk:     {Base: 0.89, Penalty: 0.05, Floor: 0.65},
			domain.DomainStormSurge:    {Base: 0.88, Penalty: 0.05, Floor: 0.65},
			domain.DomainCycloneRisk:   {Base: 0.85, Penalty: 0.05, Floor: 0.65},
			domain.DomainReefBleaching: {Base: 0.90, Penalty: 0.05, Floor: 0.65},
		},
		Defaults: map[domain.MeasurementKind]Default{
			domain.KindTemperature:        {Value: 28.5, Unit: "C"},
			domain.KindPH:                 {Value: 8.1, Unit: "pH"},
			domain.KindSalinity:           {Value: 35.0, Unit: "ppt"},
			domain.KindDissolvedOxygen:    {Value: 6.5, Unit: "mg/L"},
			domain.KindTurbidity:          {Value: 0.3, Unit: "index"},
			domain.KindChlorophyll:        {Value: 0.4, Unit: "mg/m3"},
			domain.KindWaterClarity:       {Value: 8.0, Unit: "m"},
			domain.KindWaveHeight:         {Value: 1.0, Unit: "m"},
			domain.KindSwellHeight:        {Value: 1.2, Unit: "m"},
			domain.KindWindSpeed:          {Value: 15.0, Unit: "km/h"},
			domain.KindPressure:           {Value: 1013.0, Unit: "hPa"},
			domain.KindRainfall:           {Value: 0.0, Unit: "mm"},
			domain.KindRainfall24h:        {Value: 0.0, Unit: "mm"},
			domain.KindSoilMoisture:       {Value: 0.3, Unit: "fraction"},
			domain.KindDegreeHeatingWeeks: {Value: 0.0, Unit: "C-weeks"},
		},
		Segments: []domain.RegionalSegment{
			{ID: "grand-baie", Name: "Grand Baie", Category: "lagoon", Centroid: domain.Location{-20.013, 57.580}, Multiplier: 1.02},
			{ID: "belle-mare", Name: "Belle Mare", Category: "east coast", Centroid: domain.Location{-20.195, 57.776}, Multiplier: 1.05},
			{ID: "port-louis", Name: "Port Louis Harbour", Category: "port", Centroid: domain.Location{-20.155, 57.497}, Multiplier: 0.95},
			{ID: "cap-malheureux", Name: "Cap Malheureux", Category: "north", Centroid: domain.Location{-19.984, 57.614}, Multiplier: 0.97},
			{ID: "flic-en-flac", Name: "Flic en Flac", Category: "west", Centroid: domain.Location{-20.274, 57.363}, Multiplier: 0.97},
			{ID: "blue-bay", Name: "Blue Bay", Category: "lagoon", Centroid: domain.Location{-20.444, 57.709}, Multiplier: 1.02},
			{ID: "le-morne", Name: "Le Morne", Category: "south", Centroid: domain.Location{-20.457, 57.328}, Multiplier: 0.98},
		},
		Gates: AlertGates{
			FloodRain24hMin:   25,
			SurgeWaveMin:      2.5,
			SurgeWindMin:      60,
			CycloneWindMin:    119,
			ReefAlertLevelMin: 3,
			OceanTurbidityMax: 1.0,
			OceanOxygenMin:    5.0,
		},
		BaselineSST: 28.5,
	}
}

// Load returns the compiled-in calibration with any tables found in the YAML
// file at path merged over it. An empty path returns the defaults unchanged.
// Overrides replace whole tables per domain or kind, never partial entries.
func Load(path string) (*Calibration, error) {
	cal := NewDefault()
	if path == "" {
		return cal, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var override Calibration
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse calibration file: %w", err)
	}

	for d, w := range override.Weights {
		cal.Weights[d] = w
	}
	for d, t := range override.Thresholds {
		cal.Thresholds[d] = t
	}
	for d, p := range override.Confidence {
		cal.Confidence[d] = p
	}
	for k, v := range override.Defaults {
		cal.Defaults[k] = v
	}
	if len(override.Segments) > 0 {
		cal.Segments = override.Segments
	}
	if override.Gates != (AlertGates{}) {
		cal.Gates = override.Gates
	}
	if override.BaselineSST != 0 {
		cal.BaselineSST = override.BaselineSST
	}

	return cal, nil
}
