package domain

import (
	"math"
	"time"
)

// MeasurementKind identifies one physical quantity reported by a provider.
type MeasurementKind string

const (
	KindTemperature        MeasurementKind = "temperature" // sea-surface temperature, °C
	KindPH                 MeasurementKind = "ph"
	KindSalinity           MeasurementKind = "salinity"        // ppt
	KindDissolvedOxygen    MeasurementKind = "dissolvedOxygen" // mg/L
	KindTurbidity          MeasurementKind = "turbidity"       // unitless index
	KindChlorophyll        MeasurementKind = "chlorophyll"     // mg/m³
	KindWaterClarity       MeasurementKind = "waterClarity"    // Secchi-style depth, m
	KindWaveHeight         MeasurementKind = "waveHeight"      // significant wave height, m
	KindSwellHeight        MeasurementKind = "swellHeight"     // m
	KindWindSpeed          MeasurementKind = "windSpeed"       // km/h
	KindPressure           MeasurementKind = "pressure"        // hPa
	KindRainfall           MeasurementKind = "rainfall"        // current precipitation, mm
	KindRainfall24h        MeasurementKind = "rainfall24h"     // trailing 24h accumulation, mm
	KindSoilMoisture       MeasurementKind = "soilMoisture"    // volumetric fraction 0–1
	KindDegreeHeatingWeeks MeasurementKind = "degreeHeatingWeeks"

	// Derived kinds are never fetched from a provider; the normalizer computes
	// them from other sub-scores. They appear in weight tables and sub-score
	// lists like any measured kind.
	KindPollution    MeasurementKind = "pollution"
	KindBiodiversity MeasurementKind = "biodiversity"
)

// MeasuredKinds lists every kind a provider can supply, in stable order.
var MeasuredKinds = []MeasurementKind{
	KindTemperature, KindPH, KindSalinity, KindDissolvedOxygen, KindTurbidity,
	KindChlorophyll, KindWaterClarity, KindWaveHeight, KindSwellHeight,
	KindWindSpeed, KindPressure, KindRainfall, KindRainfall24h,
	KindSoilMoisture, KindDegreeHeatingWeeks,
}

// physicalBounds holds the plausible range per measured kind. Readings outside
// these bounds are treated like provider failures and substituted.
var physicalBounds = map[MeasurementKind][2]float64{
	KindTemperature:        {-5, 45},
	KindPH:                 {0, 14},
	KindSalinity:           {0, 50},
	KindDissolvedOxygen:    {0, 20},
	KindTurbidity:          {0, 100},
	KindChlorophyll:        {0, 100},
	KindWaterClarity:       {0, 100},
	KindWaveHeight:         {0, 30},
	KindSwellHeight:        {0, 30},
	KindWindSpeed:          {0, 500},
	KindPressure:           {850, 1100},
	KindRainfall:           {0, 1000},
	KindRainfall24h:        {0, 2000},
	KindSoilMoisture:       {0, 1},
	KindDegreeHeatingWeeks: {0, 50},
}

// Measurement is a single reading from one provider. Immutable after creation.
type Measurement struct {
	Kind       MeasurementKind `json:"kind"`
	Value      float64         `json:"value"`
	Unit       string          `json:"unit"`
	SourceID   string          `json:"sourceId"`
	ObservedAt time.Time       `json:"observedAt"`
}

// Valid reports whether the measurement passes basic sanity checks: a known
// kind, a finite value inside physical bounds, and a non-empty unit. Invalid
// measurements are dropped silently; absence is the signal.
func (m Measurement) Valid() bool {
	if m.Unit == "" {
		return false
	}
	if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		return false
	}
	bounds, ok := physicalBounds[m.Kind]
	if !ok {
		return false
	}
	return m.Value >= bounds[0] && m.Value <= bounds[1]
}
