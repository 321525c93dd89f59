package provider

import (
	"context"
	"time"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/go-resty/resty/v2"
)

const stormTrackSourceID = "storm-track"

// StormTrack fetches the active tropical system (if any) nearest to a
// location. When no storm is active in range it returns zero measurements, so
// resolution falls through to the ambient weather adapter.
type StormTrack struct {
	client *resty.Client
}

// NewStormTrack creates a storm-track feed adapter against the given base URL.
func NewStormTrack(baseURL string, timeout time.Duration) *StormTrack {
	return &StormTrack{client: newClient(baseURL, timeout)}
}

// Name implements engine.Provider.
func (p *StormTrack) Name() string { return stormTrackSourceID }

type stormTrackResponse struct {
	Active []struct {
		Name            string  `json:"name"`
		ObservedAt      string  `json:"observed_at"`
		MaxWindKmh      float64 `json:"max_wind_kmh"`
		CentralPressure float64 `json:"central_pressure_hpa"`
	} `json:"active"`
}

// Fetch returns wind and pressure for the nearest active storm, or an empty
// slice when the basin is quiet.
func (p *StormTrack) Fetch(ctx context.Context, loc domain.Location) ([]domain.Measurement, error) {
	var body stormTrackResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat": formatCoord(loc.Lat()),
			"lng": formatCoord(loc.Lng()),
		}).
		SetResult(&body).
		Get("/v1/storms/active")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, statusError(stormTrackSourceID, resp.StatusCode())
	}
	if len(body.Active) == 0 {
		return nil, nil
	}

	// The feed orders storms by distance; the nearest one drives the risk.
	storm := body.Active[0]
	at := parseObservedAt(storm.ObservedAt)
	return []domain.Measurement{
		measurement(domain.KindWindSpeed, storm.MaxWindKmh, "km/h", stormTrackSourceID, at),
		measurement(domain.KindPressure, storm.CentralPressure, "hPa", stormTrackSourceID, at),
	}, nil
}
