package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/coastwatch/coastal-risk-engine/internal/observability"
)

var testLocation = domain.Location{-20.2, 57.5}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	return New(calibration.NewDefault(), opts, discardLogger(), observability.NewMetricsForTesting())
}

func measurement(kind domain.MeasurementKind, value float64) domain.Measurement {
	return domain.Measurement{Kind: kind, Value: value, Unit: "test", SourceID: "live"}
}

// --- mocks ---

type mockProvider struct {
	name         string
	measurements []domain.Measurement
	err          error
	calls        int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Fetch(_ context.Context, _ domain.Location) ([]domain.Measurement, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.measurements, nil
}

// --- tests ---

func TestCompute_FloodSevereScenario(t *testing.T) {
	e := newTestEngine(t, Options{Area: "Mauritius"})

	res, err := e.Compute(domain.DomainFloodRisk, testLocation, []domain.Measurement{
		measurement(domain.KindRainfall, 60),
		measurement(domain.KindRainfall24h, 110),
		measurement(domain.KindSoilMoisture, 0.85),
	})
	require.NoError(t, err)

	assert.InDelta(t, 100, res.Index.Overall, 1e-9)
	assert.Equal(t, domain.TierSevere, res.Index.RiskTier)
	assert.InDelta(t, 0.89, res.Index.Confidence, 1e-9, "all live inputs keep base confidence")

	require.Len(t, res.Alerts, 1)
	assert.Equal(t, domain.TierSevere, res.Alerts[0].Level)
	assert.Equal(t, "Mauritius", res.Alerts[0].Area)

	assert.Len(t, res.Segments, 7)
}

func TestCompute_SubstitutesMissingKinds(t *testing.T) {
	e := newTestEngine(t, Options{})

	// Only one live reading; the other flood drivers come from defaults.
	res, err := e.Compute(domain.DomainFloodRisk, testLocation, []domain.Measurement{
		measurement(domain.KindRainfall, 12),
	})
	require.NoError(t, err)

	require.Len(t, res.Index.SubScores, 3)
	substitutedCount := 0
	for _, s := range res.Index.SubScores {
		if s.IsSubstituted {
			substitutedCount++
		}
	}
	assert.Equal(t, 2, substitutedCount)
	assert.InDelta(t, 0.79, res.Index.Confidence, 1e-9, "0.89 − 2·0.05")
}

func TestCompute_InvalidMeasurementTreatedAsMissing(t *testing.T) {
	e := newTestEngine(t, Options{})

	// Out-of-bounds soil moisture is dropped and substituted, same as a
	// provider failure.
	res, err := e.Compute(domain.DomainFloodRisk, testLocation, []domain.Measurement{
		measurement(domain.KindRainfall, 12),
		measurement(domain.KindRainfall24h, 40),
		measurement(domain.KindSoilMoisture, 3.5),
	})
	require.NoError(t, err)

	for _, s := range res.Index.SubScores {
		if s.Kind == domain.KindSoilMoisture {
			assert.True(t, s.IsSubstituted)
		}
	}
}

func TestCompute_AllDefaultsStillProducesIndex(t *testing.T) {
	// Every provider failed: the index is built entirely from defaults and
	// confidence sits at the floor. Availability over completeness.
	e := newTestEngine(t, Options{})

	for _, d := range domain.AllDomains {
		res, err := e.Compute(d, testLocation, nil)
		require.NoError(t, err, string(d))

		assert.GreaterOrEqual(t, res.Index.Overall, 0.0, string(d))
		assert.LessOrEqual(t, res.Index.Overall, 100.0, string(d))
		assert.NotEmpty(t, res.Index.RiskTier, string(d))
		assert.NotEmpty(t, res.Index.SubScores, string(d))

		floor := calibration.NewDefault().ConfidenceFor(d).Floor
		assert.GreaterOrEqual(t, res.Index.Confidence, floor, string(d))
	}
}

func TestCompute_ReefBleachingScenario(t *testing.T) {
	e := newTestEngine(t, Options{Area: "Belle Mare"})

	res, err := e.Compute(domain.DomainReefBleaching, testLocation, []domain.Measurement{
		measurement(domain.KindTemperature, 31.2),
		measurement(domain.KindDegreeHeatingWeeks, 13),
	})
	require.NoError(t, err)

	assert.InDelta(t, 8, res.Index.Overall, 1e-9)
	assert.Equal(t, domain.TierSevere, res.Index.RiskTier)
	require.Len(t, res.Alerts, 1)
	assert.Contains(t, res.Alerts[0].Message, "level 5")
}

func TestCompute_UnknownDomainIsConfigError(t *testing.T) {
	e := newTestEngine(t, Options{})

	_, err := e.Compute(domain.Domain("earthquake"), testLocation, nil)
	var cfgErr *calibration.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestCompute_Idempotent(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	e := newTestEngine(t, Options{})
	measurements := []domain.Measurement{
		measurement(domain.KindWaveHeight, 3.2),
		measurement(domain.KindWindSpeed, 80),
		measurement(domain.KindSwellHeight, 2.6),
	}

	first, err := e.Compute(domain.DomainStormSurge, testLocation, measurements)
	require.NoError(t, err)
	for range 5 {
		again, err := e.Compute(domain.DomainStormSurge, testLocation, measurements)
		require.NoError(t, err)
		assert.Equal(t, first.Index.Overall, again.Index.Overall)
		assert.Equal(t, first.Index.RiskTier, again.Index.RiskTier)
		assert.Equal(t, first.Index.Confidence, again.Index.Confidence)
	}
}

func TestCompute_FirstValidReadingPerKindWins(t *testing.T) {
	e := newTestEngine(t, Options{})

	res, err := e.Compute(domain.DomainFloodRisk, testLocation, []domain.Measurement{
		measurement(domain.KindRainfall, 60),
		measurement(domain.KindRainfall, 2), // second reading of the same kind is ignored
		measurement(domain.KindRainfall24h, 110),
		measurement(domain.KindSoilMoisture, 0.85),
	})
	require.NoError(t, err)
	assert.InDelta(t, 100, res.Index.Overall, 1e-9)
}

func TestFetchAndCompute(t *testing.T) {
	ctx := context.Background()

	t.Run("merges providers and absorbs failures", func(t *testing.T) {
		weather := &mockProvider{name: "weather", measurements: []domain.Measurement{
			measurement(domain.KindRainfall, 60),
			measurement(domain.KindRainfall24h, 110),
		}}
		soil := &mockProvider{name: "soil", err: errors.New("upstream 503")}

		e := newTestEngine(t, Options{Providers: []Provider{weather, soil}})

		res, err := e.FetchAndCompute(ctx, domain.DomainFloodRisk, testLocation)
		require.NoError(t, err)

		assert.Equal(t, 1, weather.calls)
		assert.Equal(t, 1, soil.calls)

		// Soil moisture defaulted (0.3 → term 0): 50 + 30 + 0 = overall 80.
		assert.InDelta(t, 80, res.Index.Overall, 1e-9)
		assert.InDelta(t, 0.84, res.Index.Confidence, 1e-9, "one substitution")
	})

	t.Run("cache returns the same result without refetching", func(t *testing.T) {
		domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)))
		defer domain.SetClock(nil)

		p := &mockProvider{name: "weather", measurements: []domain.Measurement{
			measurement(domain.KindRainfall, 30),
		}}
		e := newTestEngine(t, Options{Providers: []Provider{p}, CacheSize: 10})

		first, err := e.FetchAndCompute(ctx, domain.DomainFloodRisk, testLocation)
		require.NoError(t, err)
		second, err := e.FetchAndCompute(ctx, domain.DomainFloodRisk, testLocation)
		require.NoError(t, err)

		assert.Equal(t, 1, p.calls, "second call served from cache")
		assert.Equal(t, first, second)
	})

	t.Run("different domains do not share cache entries", func(t *testing.T) {
		domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)))
		defer domain.SetClock(nil)

		p := &mockProvider{name: "marine", measurements: []domain.Measurement{
			measurement(domain.KindWaveHeight, 3.0),
		}}
		e := newTestEngine(t, Options{Providers: []Provider{p}, CacheSize: 10})

		_, err := e.FetchAndCompute(ctx, domain.DomainStormSurge, testLocation)
		require.NoError(t, err)
		_, err = e.FetchAndCompute(ctx, domain.DomainCycloneRisk, testLocation)
		require.NoError(t, err)

		assert.Equal(t, 2, p.calls)
	})

	t.Run("config error surfaces through fetch path", func(t *testing.T) {
		e := newTestEngine(t, Options{})
		_, err := e.FetchAndCompute(ctx, domain.Domain("mudslide"), testLocation)
		var cfgErr *calibration.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestRequiredKinds(t *testing.T) {
	cal := calibration.NewDefault()

	t.Run("flood needs exactly its weighted kinds", func(t *testing.T) {
		w, err := cal.WeightsFor(domain.DomainFloodRisk)
		require.NoError(t, err)
		assert.Equal(t, []domain.MeasurementKind{
			domain.KindRainfall, domain.KindRainfall24h, domain.KindSoilMoisture,
		}, requiredKinds(w))
	})

	t.Run("ocean health expands derived kinds to their inputs", func(t *testing.T) {
		w, err := cal.WeightsFor(domain.DomainOceanHealth)
		require.NoError(t, err)
		kinds := requiredKinds(w)
		assert.Contains(t, kinds, domain.KindChlorophyll, "pollution input")
		assert.Contains(t, kinds, domain.KindWaterClarity, "biodiversity input")
		assert.Contains(t, kinds, domain.KindDegreeHeatingWeeks, "reef-health input")
		assert.NotContains(t, kinds, domain.KindPollution, "derived kinds are not fetched")
	})
}
