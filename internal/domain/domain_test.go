package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeasurementValid(t *testing.T) {
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	valid := Measurement{Kind: KindTemperature, Value: 28.5, Unit: "C", SourceID: "marine", ObservedAt: now}
	assert.True(t, valid.Valid())

	tests := []struct {
		name string
		m    Measurement
	}{
		{"NaN value", Measurement{Kind: KindTemperature, Value: math.NaN(), Unit: "C"}},
		{"infinite value", Measurement{Kind: KindWaveHeight, Value: math.Inf(1), Unit: "m"}},
		{"missing unit", Measurement{Kind: KindTemperature, Value: 28.5}},
		{"below physical bounds", Measurement{Kind: KindTemperature, Value: -40, Unit: "C"}},
		{"above physical bounds", Measurement{Kind: KindWindSpeed, Value: 900, Unit: "km/h"}},
		{"unknown kind", Measurement{Kind: "sunspots", Value: 1, Unit: "n"}},
		{"derived kind is not measurable", Measurement{Kind: KindPollution, Value: 50, Unit: "index"}},
		{"soil moisture above 1", Measurement{Kind: KindSoilMoisture, Value: 1.2, Unit: "fraction"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.m.Valid())
		})
	}
}

func TestRiskTierOrdering(t *testing.T) {
	assert.True(t, TierSevere.AtLeast(TierHigh))
	assert.True(t, TierHigh.AtLeast(TierHigh))
	assert.False(t, TierModerate.AtLeast(TierHigh))
	assert.True(t, TierLow.AtLeast(RiskTier("bogus")), "unknown tiers rank below low")

	ordered := []RiskTier{TierLow, TierModerate, TierHigh, TierSevere}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank())
	}
}

func TestDomainKnown(t *testing.T) {
	for _, d := range AllDomains {
		assert.True(t, d.Known(), string(d))
	}
	assert.False(t, Domain("earthquake").Known())
}

func TestLocationAccessors(t *testing.T) {
	loc := Location{-20.2, 57.5}
	assert.Equal(t, -20.2, loc.Lat())
	assert.Equal(t, 57.5, loc.Lng())
}
