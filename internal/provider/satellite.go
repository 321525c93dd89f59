package provider

import (
	"context"
	"time"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/go-resty/resty/v2"
)

const satelliteSourceID = "satellite-watercolor"

// Satellite fetches optically-derived water properties from a satellite tile
// service: turbidity, chlorophyll concentration, and water clarity. These are
// tile aggregates, not in-situ sensor readings.
type Satellite struct {
	client *resty.Client
}

// NewSatellite creates a satellite water-color adapter against the given base URL.
func NewSatellite(baseURL string, timeout time.Duration) *Satellite {
	return &Satellite{client: newClient(baseURL, timeout)}
}

// Name implements engine.Provider.
func (p *Satellite) Name() string { return satelliteSourceID }

type satelliteResponse struct {
	ObservedAt   string  `json:"observed_at"`
	Turbidity    float64 `json:"turbidity"`
	Chlorophyll  float64 `json:"chlorophyll_mg_m3"`
	WaterClarity float64 `json:"water_clarity_m"`
}

// Fetch returns the satellite-derived water-quality measurements for the tile
// covering a location.
func (p *Satellite) Fetch(ctx context.Context, loc domain.Location) ([]domain.Measurement, error) {
	var body satelliteResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat": formatCoord(loc.Lat()),
			"lng": formatCoord(loc.Lng()),
		}).
		SetResult(&body).
		Get("/v1/tiles/water-quality")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, statusError(satelliteSourceID, resp.StatusCode())
	}

	at := parseObservedAt(body.ObservedAt)
	return []domain.Measurement{
		measurement(domain.KindTurbidity, body.Turbidity, "index", satelliteSourceID, at),
		measurement(domain.KindChlorophyll, body.Chlorophyll, "mg/m3", satelliteSourceID, at),
		measurement(domain.KindWaterClarity, body.WaterClarity, "m", satelliteSourceID, at),
	}, nil
}
