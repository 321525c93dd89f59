// Package pipeline runs the periodic evaluation loop: every tick it computes
// all risk domains for the home location and pushes generated alerts to the
// configured sink.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/coastwatch/coastal-risk-engine/internal/engine"
	"github.com/coastwatch/coastal-risk-engine/internal/observability"
)

// Evaluator computes one domain's risk for a location.
type Evaluator interface {
	FetchAndCompute(ctx context.Context, d domain.Domain, loc domain.Location) (engine.Result, error)
}

// AlertSink receives the alerts a sweep generated.
type AlertSink interface {
	PublishBatch(ctx context.Context, alerts []domain.Alert) error
}

// Poller orchestrates the periodic evaluation sweep.
type Poller struct {
	evaluator Evaluator
	sink      AlertSink // nil disables publishing
	home      domain.Location
	interval  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Poller with the given engine, sink, and observability.
func New(evaluator Evaluator, sink AlertSink, home domain.Location, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Poller {
	return &Poller{
		evaluator: evaluator,
		sink:      sink,
		home:      home,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the poller has completed at least one sweep
// that produced an index, or an error describing why the service is not ready.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no risk sweep has completed yet")
	}
	return nil
}

// Run executes the evaluation loop until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "interval", p.interval, "lat", p.home.Lat(), "lng", p.home.Lng())
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)

	// Exponential backoff after a fully failed sweep: start at 5s, double
	// each retry, cap at the poll interval. Avoids hammering upstreams that
	// are already down.
	backoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		default:
		}

		wait := p.interval
		if p.sweep(ctx) {
			backoff = 5 * time.Second
		} else {
			wait = backoff
			backoff = nextBackoff(backoff, p.interval)
		}

		if !sleepWithContext(ctx, wait) {
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// sweep evaluates every domain once. Returns false only when no domain could
// be computed at all.
func (p *Poller) sweep(ctx context.Context) bool {
	var alerts []domain.Alert
	computed := 0

	for _, d := range domain.AllDomains {
		result, err := p.evaluator.FetchAndCompute(ctx, d, p.home)
		if err != nil {
			if ctx.Err() != nil {
				return computed > 0
			}
			p.logger.Error("sweep evaluation failed", "domain", d, "error", err)
			continue
		}
		computed++
		p.logger.Info("risk index computed",
			"domain", d,
			"overall", result.Index.Overall,
			"tier", result.Index.RiskTier,
			"confidence", result.Index.Confidence,
			"alerts", len(result.Alerts),
		)
		alerts = append(alerts, result.Alerts...)
	}

	if computed > 0 {
		p.ready.Store(true)
	}

	p.publish(ctx, alerts)
	return computed > 0
}

// publish pushes the sweep's alerts to the sink in one batch. Publish failure
// is logged and dropped; the next sweep regenerates any alert that still holds.
func (p *Poller) publish(ctx context.Context, alerts []domain.Alert) {
	if p.sink == nil || len(alerts) == 0 {
		return
	}
	if err := p.sink.PublishBatch(ctx, alerts); err != nil {
		p.logger.Error("alert publish failed", "error", err, "count", len(alerts))
		return
	}
	p.metrics.AlertsPublished.Add(float64(len(alerts)))
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
