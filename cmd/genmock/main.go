// Command genmock generates deterministic risk-index fixtures for downstream
// consumers. It runs the real scoring engine over a set of synthetic scenario
// measurements under a fixed clock, so dashboards and client test suites can
// pin their expectations to real engine output. Alert IDs are freshly
// generated on each run; everything else is stable.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/coastwatch/coastal-risk-engine/internal/engine"
	"github.com/coastwatch/coastal-risk-engine/internal/observability"
)

var fixtureTime = time.Date(2026, time.February, 10, 6, 0, 0, 0, time.UTC)

var fixtureLocation = domain.Location{-20.0064, 57.5522}

// scenario is one named measurement set evaluated against one domain.
type scenario struct {
	name    string
	domain  domain.Domain
	observe []domain.Measurement
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for fixture JSON files")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	// Fix the clock for reproducible ComputedAt and IssuedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	eng := engine.New(calibration.NewDefault(), engine.Options{
		Area: "mauritius-coastal",
	}, slog.New(slog.NewTextHandler(os.Stderr, nil)), observability.NewMetricsForTesting())

	for _, sc := range scenarios() {
		result, err := eng.Compute(sc.domain, fixtureLocation, sc.observe)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.name, err)
		}
		path := filepath.Join(*outDir, sc.name+".json")
		if err := writeJSON(path, result); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.name, err)
		}
		fmt.Printf("wrote %s (%s overall %.1f, tier %s)\n",
			path, result.Index.Domain, result.Index.Overall, result.Index.RiskTier)
	}
	return nil
}

func scenarios() []scenario {
	return []scenario{
		{
			name:   "ocean_health_pristine",
			domain: domain.DomainOceanHealth,
			observe: []domain.Measurement{
				m(domain.KindTemperature, 27.5, "C"),
				m(domain.KindPH, 8.1, "pH"),
				m(domain.KindSalinity, 35.0, "ppt"),
				m(domain.KindDissolvedOxygen, 6.8, "mg/L"),
				m(domain.KindTurbidity, 0.2, "index"),
				m(domain.KindChlorophyll, 0.4, "mg/m3"),
				m(domain.KindWaterClarity, 12.0, "m"),
				m(domain.KindDegreeHeatingWeeks, 0.0, "C-weeks"),
			},
		},
		{
			name:   "flood_torrential_rain",
			domain: domain.DomainFloodRisk,
			observe: []domain.Measurement{
				m(domain.KindRainfall, 55.0, "mm"),
				m(domain.KindRainfall24h, 130.0, "mm"),
				m(domain.KindSoilMoisture, 0.85, "fraction"),
			},
		},
		{
			name:   "surge_heavy_swell",
			domain: domain.DomainStormSurge,
			observe: []domain.Measurement{
				m(domain.KindWaveHeight, 4.2, "m"),
				m(domain.KindSwellHeight, 3.1, "m"),
				m(domain.KindWindSpeed, 85.0, "km/h"),
			},
		},
		{
			name:   "cyclone_intense_system",
			domain: domain.DomainCycloneRisk,
			observe: []domain.Measurement{
				m(domain.KindWindSpeed, 215.0, "km/h"),
				m(domain.KindPressure, 938.0, "hPa"),
				m(domain.KindTemperature, 29.6, "C"),
			},
		},
		{
			name:   "reef_bleaching_event",
			domain: domain.DomainReefBleaching,
			observe: []domain.Measurement{
				m(domain.KindTemperature, 31.2, "C"),
				m(domain.KindDegreeHeatingWeeks, 10.0, "C-weeks"),
			},
		},
		{
			// No observations at all: every input substitutes from defaults,
			// confidence floors out but an index is still produced.
			name:    "flood_all_defaults",
			domain:  domain.DomainFloodRisk,
			observe: nil,
		},
	}
}

func m(kind domain.MeasurementKind, value float64, unit string) domain.Measurement {
	return domain.Measurement{
		Kind:       kind,
		Value:      value,
		Unit:       unit,
		SourceID:   "fixture",
		ObservedAt: fixtureTime,
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
