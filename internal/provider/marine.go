package provider

import (
	"context"
	"time"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/go-resty/resty/v2"
)

const marineSourceID = "marine-forecast"

// Marine fetches sea state from an Open-Meteo-compatible marine forecast API:
// significant wave height, swell height, and sea-surface temperature.
type Marine struct {
	client *resty.Client
}

// NewMarine creates a marine forecast adapter against the given base URL.
func NewMarine(baseURL string, timeout time.Duration) *Marine {
	return &Marine{client: newClient(baseURL, timeout)}
}

// Name implements engine.Provider.
func (p *Marine) Name() string { return marineSourceID }

type marineResponse struct {
	Current struct {
		Time                  string  `json:"time"`
		WaveHeight            float64 `json:"wave_height"`
		SwellWaveHeight       float64 `json:"swell_wave_height"`
		SeaSurfaceTemperature float64 `json:"sea_surface_temperature"`
	} `json:"current"`
}

// Fetch returns the current sea-state measurements for a location.
func (p *Marine) Fetch(ctx context.Context, loc domain.Location) ([]domain.Measurement, error) {
	var body marineResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  formatCoord(loc.Lat()),
			"longitude": formatCoord(loc.Lng()),
			"current":   "wave_height,swell_wave_height,sea_surface_temperature",
		}).
		SetResult(&body).
		Get("/v1/marine")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, statusError(marineSourceID, resp.StatusCode())
	}

	at := parseObservedAt(body.Current.Time)
	return []domain.Measurement{
		measurement(domain.KindWaveHeight, body.Current.WaveHeight, "m", marineSourceID, at),
		measurement(domain.KindSwellHeight, body.Current.SwellWaveHeight, "m", marineSourceID, at),
		measurement(domain.KindTemperature, body.Current.SeaSurfaceTemperature, "C", marineSourceID, at),
	}, nil
}
