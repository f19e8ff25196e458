package service

import (
	"context"

	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
)

// WeatherService answers current-weather and forecast queries by city name or
// coordinates, with temperatures in the requested unit system.
type WeatherService interface {
	Name() string
	CurrentWeather(ctx context.Context, city string, system units.System) (*weather.CurrentWeather, error)
	CurrentWeatherByCoords(ctx context.Context, coords weather.Coordinates, system units.System) (*weather.CurrentWeather, error)
	Forecast(ctx context.Context, city string, system units.System) (*weather.ForecastSet, error)
	ForecastByCoords(ctx context.Context, coords weather.Coordinates, system units.System) (*weather.ForecastSet, error)
}

// Volatile is implemented by services whose answers must be rebuilt on
// every request and never cached.
type Volatile interface {
	Volatile() bool
}

func IsVolatile(svc WeatherService) bool {
	v, ok := svc.(Volatile)
	return ok && v.Volatile()
}
