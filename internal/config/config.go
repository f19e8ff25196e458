package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, _ := configValue.Load().(*Config)
	if cfg == nil {
		return NewDefaultConfig()
	}
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port" validate:"min=1,max=65535"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout int    `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout  int    `mapstructure:"idle_timeout" validate:"min=0"`
}

type WeatherConfig struct {
	DefaultCity     string               `mapstructure:"default_city" validate:"required"`
	DefaultUnits    string               `mapstructure:"default_units" validate:"oneof=metric imperial"`
	CacheTTL        int                  `mapstructure:"cache_ttl" validate:"min=0"`
	Workers         int                  `mapstructure:"workers" validate:"min=0"`
	QueueSize       int                  `mapstructure:"queue_size" validate:"min=1"`
	PrefetchCities  []string             `mapstructure:"prefetch_cities"`
	RefreshInterval int                  `mapstructure:"refresh_interval" validate:"min=0"`
	Demo            DemoConfig           `mapstructure:"demo"`
	OpenWeatherMap  OpenWeatherMapConfig `mapstructure:"openweathermap"`
}

type DemoConfig struct {
	// FallbackCity answers lookups for cities missing from the demo table.
	FallbackCity string `mapstructure:"fallback_city" validate:"required"`
	StrictLookup bool   `mapstructure:"strict_lookup"`
	// Seed makes forecast generation reproducible; 0 leaves it unseeded.
	Seed uint64 `mapstructure:"seed"`
}

type OpenWeatherMapConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key"`
	Timeout           int     `mapstructure:"timeout" validate:"min=1"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int     `mapstructure:"burst" validate:"min=1"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// DemoMode reports whether no usable OpenWeatherMap key is configured.
func (c WeatherConfig) DemoMode() bool {
	switch strings.TrimSpace(c.OpenWeatherMap.APIKey) {
	case "", "demo", "your_api_key_here":
		return true
	}
	return false
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         5000,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Weather: WeatherConfig{
			DefaultCity:     "London",
			DefaultUnits:    "metric",
			CacheTTL:        300,
			Workers:         2,
			QueueSize:       64,
			PrefetchCities:  []string{},
			RefreshInterval: 600,
			Demo: DemoConfig{
				FallbackCity: "London",
			},
			OpenWeatherMap: OpenWeatherMapConfig{
				BaseURL:           "https://api.openweathermap.org/data/2.5",
				APIKey:            "",
				Timeout:           10,
				RequestsPerSecond: 1,
				Burst:             5,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
