package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR,default=:8080"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	LogFormat       string        `env:"LOG_FORMAT,default=json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	// Poller configuration: the home location is evaluated on every tick.
	PollInterval time.Duration `env:"POLL_INTERVAL,default=15m"`
	HomeLat      float64       `env:"HOME_LAT,default=-20.2659"`
	HomeLng      float64       `env:"HOME_LNG,default=57.4791"`
	Area         string        `env:"AREA,default=mauritius-coastal"`

	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT,default=10s"`
	CacheSize       int           `env:"CACHE_SIZE,default=512"`
	CalibrationFile string        `env:"CALIBRATION_FILE"`

	// Alert publishing. Kafka is optional; with it disabled, alerts only
	// surface through the HTTP API and logs.
	KafkaEnabled    bool     `env:"KAFKA_ENABLED,default=false"`
	KafkaBrokers    []string `env:"KAFKA_BROKERS,default=localhost:9092"`
	KafkaAlertTopic string   `env:"KAFKA_ALERT_TOPIC,default=coastal-risk-alerts"`

	// Upstream provider base URLs.
	MarineBaseURL     string `env:"MARINE_BASE_URL,default=https://marine-api.open-meteo.com"`
	WeatherBaseURL    string `env:"WEATHER_BASE_URL,default=https://api.open-meteo.com"`
	ReefWatchBaseURL  string `env:"REEFWATCH_BASE_URL,default=https://reefwatch.coastwatch.io"`
	SatelliteBaseURL  string `env:"SATELLITE_BASE_URL,default=https://tiles.coastwatch.io"`
	StormTrackBaseURL string `env:"STORMTRACK_BASE_URL,default=https://storms.coastwatch.io"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL must be positive")
	}
	if c.ProviderTimeout <= 0 {
		return errors.New("PROVIDER_TIMEOUT must be positive")
	}
	if c.CacheSize <= 0 {
		return errors.New("CACHE_SIZE must be positive")
	}
	if c.HomeLat < -90 || c.HomeLat > 90 {
		return fmt.Errorf("HOME_LAT %v out of range", c.HomeLat)
	}
	if c.HomeLng < -180 || c.HomeLng > 180 {
		return fmt.Errorf("HOME_LNG %v out of range", c.HomeLng)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	return nil
}
