// Package provider implements the upstream adapters the engine fetches raw
// measurements from. Each adapter wraps one HTTP source and maps its payload
// onto typed measurements; everything past this boundary is provider-agnostic.
// Adapters never substitute defaults — they return what the upstream gave
// them, and absence is the engine's signal.
package provider

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

// newClient builds a resty client with the shared provider settings. Retries
// stay inside the caller's per-provider deadline.
func newClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(500 * time.Millisecond)
	return client
}

// statusError reports a non-2xx upstream response.
func statusError(source string, code int) error {
	return fmt.Errorf("%s: unexpected status %d", source, code)
}

// formatCoord renders a coordinate with the precision upstream APIs accept.
func formatCoord(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// parseObservedAt parses an upstream ISO-8601 timestamp, falling back to the
// current time when absent or malformed. Observation time is informational;
// a bad timestamp must not invalidate a good reading.
func parseObservedAt(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return domain.Now()
}

// measurement builds one reading stamped with the provider's source ID.
func measurement(kind domain.MeasurementKind, value float64, unit, sourceID string, at time.Time) domain.Measurement {
	return domain.Measurement{
		Kind:       kind,
		Value:      value,
		Unit:       unit,
		SourceID:   sourceID,
		ObservedAt: at,
	}
}
