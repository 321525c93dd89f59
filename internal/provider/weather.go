package provider

import (
	"context"
	"time"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/go-resty/resty/v2"
)

const weatherSourceID = "weather-forecast"

// Weather fetches land-side conditions from an Open-Meteo-compatible forecast
// API: current precipitation, trailing 24h accumulation, wind, surface
// pressure, and topsoil moisture.
type Weather struct {
	client *resty.Client
}

// NewWeather creates a weather forecast adapter against the given base URL.
func NewWeather(baseURL string, timeout time.Duration) *Weather {
	return &Weather{client: newClient(baseURL, timeout)}
}

// Name implements engine.Provider.
func (p *Weather) Name() string { return weatherSourceID }

type weatherResponse struct {
	Current struct {
		Time            string  `json:"time"`
		Precipitation   float64 `json:"precipitation"`
		WindSpeed       float64 `json:"wind_speed_10m"`
		SurfacePressure float64 `json:"surface_pressure"`
		SoilMoisture    float64 `json:"soil_moisture_0_to_1cm"`
	} `json:"current"`
	Daily struct {
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Fetch returns the current weather measurements for a location. The first
// daily precipitation sum serves as the trailing 24h accumulation.
func (p *Weather) Fetch(ctx context.Context, loc domain.Location) ([]domain.Measurement, error) {
	var body weatherResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":        formatCoord(loc.Lat()),
			"longitude":       formatCoord(loc.Lng()),
			"current":         "precipitation,wind_speed_10m,surface_pressure,soil_moisture_0_to_1cm",
			"daily":           "precipitation_sum",
			"past_days":       "1",
			"wind_speed_unit": "kmh",
		}).
		SetResult(&body).
		Get("/v1/forecast")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, statusError(weatherSourceID, resp.StatusCode())
	}

	at := parseObservedAt(body.Current.Time)
	ms := []domain.Measurement{
		measurement(domain.KindRainfall, body.Current.Precipitation, "mm", weatherSourceID, at),
		measurement(domain.KindWindSpeed, body.Current.WindSpeed, "km/h", weatherSourceID, at),
		measurement(domain.KindPressure, body.Current.SurfacePressure, "hPa", weatherSourceID, at),
		measurement(domain.KindSoilMoisture, body.Current.SoilMoisture, "fraction", weatherSourceID, at),
	}
	if len(body.Daily.PrecipitationSum) > 0 {
		ms = append(ms, measurement(domain.KindRainfall24h, body.Daily.PrecipitationSum[0], "mm", weatherSourceID, at))
	}
	return ms, nil
}
