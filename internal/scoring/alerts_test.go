package scoring

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

const testArea = "Mauritius"

func newTestGenerator() *AlertGenerator {
	return NewAlertGenerator(calibration.NewDefault())
}

func TestGenerate_Flood(t *testing.T) {
	g := newTestGenerator()

	t.Run("severe tier with saturated 24h window emits", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainFloodRisk, RiskTier: domain.TierSevere}
		inputs := InputSet{
			domain.KindRainfall:    input(domain.KindRainfall, 60),
			domain.KindRainfall24h: input(domain.KindRainfall24h, 110),
		}
		alerts := g.Generate(index, inputs, testArea)

		require.Len(t, alerts, 1)
		assert.Equal(t, domain.TierSevere, alerts[0].Level)
		assert.Equal(t, domain.DomainFloodRisk, alerts[0].Domain)
		assert.Equal(t, testArea, alerts[0].Area)
		assert.Contains(t, alerts[0].Message, "110 mm")
		assert.NotEmpty(t, alerts[0].ID)
	})

	t.Run("moderate tier needs the 24h gate too", func(t *testing.T) {
		// Tier and alert emission are related but not identical gates: a
		// moderate tier with only 20 mm accumulated stays silent.
		index := domain.CompositeIndex{Domain: domain.DomainFloodRisk, RiskTier: domain.TierModerate}
		inputs := InputSet{
			domain.KindRainfall:    input(domain.KindRainfall, 28),
			domain.KindRainfall24h: input(domain.KindRainfall24h, 20),
		}
		assert.Empty(t, g.Generate(index, inputs, testArea))
	})

	t.Run("moderate tier above the gate emits", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainFloodRisk, RiskTier: domain.TierModerate}
		inputs := InputSet{
			domain.KindRainfall24h: input(domain.KindRainfall24h, 40),
		}
		alerts := g.Generate(index, inputs, testArea)
		require.Len(t, alerts, 1)
		assert.Equal(t, domain.TierModerate, alerts[0].Level)
	})

	t.Run("low tier never emits", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainFloodRisk, RiskTier: domain.TierLow}
		inputs := InputSet{
			domain.KindRainfall24h: input(domain.KindRainfall24h, 200),
		}
		assert.Empty(t, g.Generate(index, inputs, testArea))
	})
}

func TestGenerate_StormSurge(t *testing.T) {
	g := newTestGenerator()

	t.Run("high seas emit", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainStormSurge, RiskTier: domain.TierHigh}
		inputs := InputSet{
			domain.KindWaveHeight: input(domain.KindWaveHeight, 3.5),
			domain.KindWindSpeed:  input(domain.KindWindSpeed, 45),
		}
		alerts := g.Generate(index, inputs, testArea)
		require.Len(t, alerts, 1)
		assert.Contains(t, alerts[0].Message, "3.5 m")
	})

	t.Run("moderate tier below both driver gates stays silent", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainStormSurge, RiskTier: domain.TierModerate}
		inputs := InputSet{
			domain.KindWaveHeight: input(domain.KindWaveHeight, 1.8),
			domain.KindWindSpeed:  input(domain.KindWindSpeed, 40),
		}
		assert.Empty(t, g.Generate(index, inputs, testArea))
	})

	t.Run("wind alone can open the gate", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainStormSurge, RiskTier: domain.TierModerate}
		inputs := InputSet{
			domain.KindWaveHeight: input(domain.KindWaveHeight, 1.0),
			domain.KindWindSpeed:  input(domain.KindWindSpeed, 85),
		}
		assert.Len(t, g.Generate(index, inputs, testArea), 1)
	})
}

func TestGenerate_Cyclone(t *testing.T) {
	g := newTestGenerator()

	t.Run("hurricane-force wind emits", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainCycloneRisk, RiskTier: domain.TierSevere}
		inputs := InputSet{
			domain.KindWindSpeed: input(domain.KindWindSpeed, 165),
			domain.KindPressure:  input(domain.KindPressure, 955),
		}
		alerts := g.Generate(index, inputs, testArea)
		require.Len(t, alerts, 1)
		assert.Contains(t, alerts[0].Message, "165 km/h")
		assert.Contains(t, alerts[0].Message, "955 hPa")
	})

	t.Run("high tier below hurricane threshold stays silent", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainCycloneRisk, RiskTier: domain.TierHigh}
		inputs := InputSet{
			domain.KindWindSpeed: input(domain.KindWindSpeed, 90),
		}
		assert.Empty(t, g.Generate(index, inputs, testArea))
	})
}

func TestGenerate_Reef(t *testing.T) {
	g := newTestGenerator()

	t.Run("bleaching level five emits", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainReefBleaching, RiskTier: domain.TierSevere}
		inputs := InputSet{
			domain.KindTemperature:        input(domain.KindTemperature, 31.2),
			domain.KindDegreeHeatingWeeks: input(domain.KindDegreeHeatingWeeks, 13),
		}
		alerts := g.Generate(index, inputs, testArea)
		require.Len(t, alerts, 1)
		assert.Contains(t, alerts[0].Message, "level 5")
	})

	t.Run("watch level stays silent", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainReefBleaching, RiskTier: domain.TierModerate}
		inputs := InputSet{
			domain.KindTemperature:        input(domain.KindTemperature, 29.6),
			domain.KindDegreeHeatingWeeks: input(domain.KindDegreeHeatingWeeks, 1),
		}
		assert.Empty(t, g.Generate(index, inputs, testArea))
	})
}

func TestGenerate_OceanHealth(t *testing.T) {
	g := newTestGenerator()

	t.Run("hypoxic water at high risk emits", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainOceanHealth, Overall: 35, RiskTier: domain.TierHigh}
		inputs := InputSet{
			domain.KindTurbidity:       input(domain.KindTurbidity, 0.5),
			domain.KindDissolvedOxygen: input(domain.KindDissolvedOxygen, 4.0),
		}
		alerts := g.Generate(index, inputs, testArea)
		require.Len(t, alerts, 1)
		assert.Contains(t, alerts[0].Message, "dissolved oxygen 4.0 mg/L")
	})

	t.Run("high risk with clean water stays silent", func(t *testing.T) {
		index := domain.CompositeIndex{Domain: domain.DomainOceanHealth, Overall: 35, RiskTier: domain.TierHigh}
		inputs := InputSet{
			domain.KindTurbidity:       input(domain.KindTurbidity, 0.2),
			domain.KindDissolvedOxygen: input(domain.KindDissolvedOxygen, 7.0),
		}
		assert.Empty(t, g.Generate(index, inputs, testArea))
	})
}

func TestGenerate_IssuedAtUsesDomainClock(t *testing.T) {
	frozen := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	defer domain.SetClock(nil)

	g := newTestGenerator()
	index := domain.CompositeIndex{Domain: domain.DomainFloodRisk, RiskTier: domain.TierSevere}
	inputs := InputSet{domain.KindRainfall24h: input(domain.KindRainfall24h, 120)}

	alerts := g.Generate(index, inputs, testArea)
	require.Len(t, alerts, 1)
	assert.Equal(t, frozen, alerts[0].IssuedAt)
}
