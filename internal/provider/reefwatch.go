package provider

import (
	"context"
	"time"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/go-resty/resty/v2"
)

const reefWatchSourceID = "reef-watch"

// ReefWatch fetches coral thermal-stress data from a reef-watch service:
// sea-surface temperature over the reef and accumulated degree heating weeks.
type ReefWatch struct {
	client *resty.Client
}

// NewReefWatch creates a reef-watch adapter against the given base URL.
func NewReefWatch(baseURL string, timeout time.Duration) *ReefWatch {
	return &ReefWatch{client: newClient(baseURL, timeout)}
}

// Name implements engine.Provider.
func (p *ReefWatch) Name() string { return reefWatchSourceID }

type reefWatchResponse struct {
	ObservedAt         string  `json:"observed_at"`
	SeaSurfaceTempC    float64 `json:"sst_c"`
	DegreeHeatingWeeks float64 `json:"dhw"`
}

// Fetch returns the reef thermal-stress measurements nearest a location.
func (p *ReefWatch) Fetch(ctx context.Context, loc domain.Location) ([]domain.Measurement, error) {
	var body reefWatchResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat": formatCoord(loc.Lat()),
			"lng": formatCoord(loc.Lng()),
		}).
		SetResult(&body).
		Get("/v1/stations/nearest")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, statusError(reefWatchSourceID, resp.StatusCode())
	}

	at := parseObservedAt(body.ObservedAt)
	return []domain.Measurement{
		measurement(domain.KindTemperature, body.SeaSurfaceTempC, "C", reefWatchSourceID, at),
		measurement(domain.KindDegreeHeatingWeeks, body.DegreeHeatingWeeks, "C-weeks", reefWatchSourceID, at),
	}, nil
}
