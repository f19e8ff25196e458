package service

import (
	"go.uber.org/zap"

	"github.com/Nitinadonis1/Weather---app/internal/config"
	"github.com/Nitinadonis1/Weather---app/pkg/telemetry"
)

// New picks the demo service when no usable OpenWeatherMap key is
// configured, and the live client otherwise.
func New(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) (WeatherService, error) {
	if cfg.DemoMode() {
		svc, err := NewDemoServiceWithConfig(cfg.Demo)
		if err != nil {
			return nil, err
		}
		logger.Info("OpenWeatherMap API key not configured, serving demo data",
			zap.String("fallback_city", cfg.Demo.FallbackCity),
			zap.Bool("strict_lookup", cfg.Demo.StrictLookup),
			zap.Bool("seeded", cfg.Demo.Seed != 0))
		return svc, nil
	}

	logger.Info("Using OpenWeatherMap",
		zap.String("base_url", cfg.OpenWeatherMap.BaseURL),
		zap.Float64("requests_per_second", cfg.OpenWeatherMap.RequestsPerSecond))
	return NewOpenWeatherMapServiceWithConfig(cfg.OpenWeatherMap, logger, tele), nil
}
