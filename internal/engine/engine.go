// Package engine orchestrates one risk computation: resolve measurements
// against the substitution defaults, normalize, combine, attach confidence,
// classify, and derive alerts and segment scores. The computation itself is
// pure; only provider fetches touch the network.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/coastwatch/coastal-risk-engine/internal/observability"
	"github.com/coastwatch/coastal-risk-engine/internal/scoring"
)

// Provider fetches one raw reading set from one upstream source. Any error,
// timeout, or malformed payload is treated identically by the engine: zero
// measurements of the affected kinds, triggering substitution.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc domain.Location) ([]domain.Measurement, error)
}

// Result bundles everything one computation produces.
type Result struct {
	Index    domain.CompositeIndex `json:"index"`
	Alerts   []domain.Alert        `json:"alerts,omitempty"`
	Segments []domain.SegmentScore `json:"segments,omitempty"`
}

// Engine computes composite risk indices. Read-only after construction apart
// from the result cache; independent computations may run concurrently.
type Engine struct {
	cal        *calibration.Calibration
	normalizer *scoring.Normalizer
	alertGen   *scoring.AlertGenerator
	providers  []Provider
	timeout    time.Duration
	area       string
	cache      *resultCache
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// Options configure engine construction.
type Options struct {
	Providers       []Provider
	ProviderTimeout time.Duration // per-provider fetch deadline
	Area            string        // human-readable area name used in alerts
	CacheSize       int           // 0 disables the result cache
}

// New creates an Engine over the given calibration.
func New(cal *calibration.Calibration, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	timeout := opts.ProviderTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	e := &Engine{
		cal:        cal,
		normalizer: scoring.NewNormalizer(cal),
		alertGen:   scoring.NewAlertGenerator(cal),
		providers:  opts.Providers,
		timeout:    timeout,
		area:       opts.Area,
		logger:     logger,
		metrics:    metrics,
	}
	if opts.CacheSize > 0 {
		e.cache = newResultCache(opts.CacheSize)
	}
	return e
}

// derivedInputs lists the measured kinds each derived kind is computed from.
var derivedInputs = map[domain.MeasurementKind][]domain.MeasurementKind{
	domain.KindPollution: {domain.KindTurbidity, domain.KindChlorophyll},
	domain.KindBiodiversity: {
		domain.KindChlorophyll, domain.KindWaterClarity,
		domain.KindTemperature, domain.KindDegreeHeatingWeeks,
	},
}

// requiredKinds returns the measured kinds a domain's computation consumes,
// in domain.MeasuredKinds order: the weighted kinds plus the inputs of any
// weighted derived kind.
func requiredKinds(weights calibration.Weights) []domain.MeasurementKind {
	needed := make(map[domain.MeasurementKind]bool, len(weights))
	for kind := range weights {
		if inputs, derived := derivedInputs[kind]; derived {
			for _, in := range inputs {
				needed[in] = true
			}
			continue
		}
		needed[kind] = true
	}

	out := make([]domain.MeasurementKind, 0, len(needed))
	for _, kind := range domain.MeasuredKinds {
		if needed[kind] {
			out = append(out, kind)
		}
	}
	return out
}

// Compute builds a composite index for one domain from an already-resolved
// measurement set. Invalid measurements are dropped and missing kinds are
// substituted from the defaults table; the only error is a ConfigError for a
// domain with no calibration tables.
func (e *Engine) Compute(d domain.Domain, loc domain.Location, measurements []domain.Measurement) (Result, error) {
	weights, err := e.cal.WeightsFor(d)
	if err != nil {
		return Result{}, err
	}
	thresholds, err := e.cal.ThresholdsFor(d)
	if err != nil {
		return Result{}, err
	}

	inputs := e.resolve(d, weights, measurements)

	subScores, err := e.normalizer.SubScores(d, inputs)
	if err != nil {
		return Result{}, err
	}

	index := domain.CompositeIndex{
		Domain:     d,
		SubScores:  subScores,
		Confidence: scoring.Confidence(subScores, e.cal.ConfidenceFor(d)),
		Location:   loc,
		ComputedAt: domain.Now(),
	}

	if d == domain.DomainReefBleaching {
		sst := inputs[domain.KindTemperature].Measurement.Value
		dhw := inputs[domain.KindDegreeHeatingWeeks].Measurement.Value
		index.Overall = scoring.ReefHealthIndex(sst, dhw, e.cal.BaselineSST)
		index.RiskTier = scoring.TierFromAlertLevel(scoring.BleachingAlertLevel(sst, dhw))
	} else {
		index.Overall = scoring.Combine(subScores, weights)
		index.RiskTier = scoring.Classify(index.Overall, thresholds)
	}

	alerts := e.alertGen.Generate(index, inputs, e.area)

	e.metrics.Computations.WithLabelValues(string(d), string(index.RiskTier)).Inc()
	for _, a := range alerts {
		e.metrics.AlertsGenerated.WithLabelValues(string(a.Domain), string(a.Level)).Inc()
	}

	return Result{
		Index:    index,
		Alerts:   alerts,
		Segments: scoring.ApplySegments(index, e.cal.Segments, thresholds),
	}, nil
}

// resolve builds the input set for a domain: the first valid measurement per
// required kind wins, and every kind still missing afterwards gets its default
// from the calibration table, marked substituted. This is the single
// substitution code path; no caller carries its own fallback values.
func (e *Engine) resolve(d domain.Domain, weights calibration.Weights, measurements []domain.Measurement) scoring.InputSet {
	inputs := make(scoring.InputSet)
	for _, m := range measurements {
		if !m.Valid() {
			continue
		}
		if _, seen := inputs[m.Kind]; seen {
			continue
		}
		inputs[m.Kind] = scoring.Input{Measurement: m}
	}

	resolved := make(scoring.InputSet)
	for _, kind := range requiredKinds(weights) {
		if in, ok := inputs[kind]; ok {
			resolved[kind] = in
			continue
		}
		def, ok := e.cal.DefaultFor(kind)
		if !ok {
			// No live reading and no default: leave the kind absent and let
			// weight renormalization absorb it.
			continue
		}
		resolved[kind] = scoring.Input{
			Measurement: domain.Measurement{
				Kind:       kind,
				Value:      def.Value,
				Unit:       def.Unit,
				SourceID:   "default",
				ObservedAt: domain.Now(),
			},
			Substituted: true,
		}
		e.metrics.Substitutions.WithLabelValues(string(d), string(kind)).Inc()
	}
	return resolved
}

// FetchAndCompute gathers measurements from every registered provider in
// parallel, each under its own deadline, then computes the domain index.
// Provider failures are logged and absorbed; a cycle where every provider
// failed still produces a fully-defaulted index at the confidence floor.
func (e *Engine) FetchAndCompute(ctx context.Context, d domain.Domain, loc domain.Location) (Result, error) {
	if e.cache != nil {
		if res, ok := e.cache.get(cacheKey(d, loc)); ok {
			e.metrics.CacheLookups.WithLabelValues("hit").Inc()
			return res, nil
		}
		e.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	measurements := e.fetchAll(ctx, loc)

	res, err := e.Compute(d, loc, measurements)
	if err != nil {
		return Result{}, err
	}
	e.metrics.ComputeDuration.Observe(time.Since(start).Seconds())

	if e.cache != nil {
		e.cache.put(cacheKey(d, loc), res)
	}
	return res, nil
}

// fetchAll queries every provider concurrently and merges their measurements.
// Order is preserved per provider registration so kind resolution stays
// deterministic when two providers report the same kind.
func (e *Engine) fetchAll(ctx context.Context, loc domain.Location) []domain.Measurement {
	results := make([][]domain.Measurement, len(e.providers))

	var wg sync.WaitGroup
	for i, p := range e.providers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			ms, err := p.Fetch(fetchCtx, loc)
			switch {
			case err != nil:
				e.logger.Warn("provider fetch failed, substituting defaults",
					"provider", p.Name(), "error", err)
				e.metrics.ProviderRequests.WithLabelValues(p.Name(), "error").Inc()
			case len(ms) == 0:
				e.metrics.ProviderRequests.WithLabelValues(p.Name(), "empty").Inc()
			default:
				e.metrics.ProviderRequests.WithLabelValues(p.Name(), "success").Inc()
				results[i] = ms
			}
		}()
	}
	wg.Wait()

	var merged []domain.Measurement
	for _, ms := range results {
		merged = append(merged, ms...)
	}
	return merged
}
