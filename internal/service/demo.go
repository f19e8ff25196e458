package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Nitinadonis1/Weather---app/internal/config"
	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
)

const (
	DemoServiceName = "demo"
	ForecastDays    = 5

	defaultFallbackCity = "London"
)

// DemoService serves synthetic weather from a fixed city table. Current
// conditions are static per city; forecasts are regenerated on every call.
type DemoService struct {
	cities   map[string]weather.CurrentWeather
	fallback weather.CurrentWeather
	strict   bool
	random   RandomSource
	now      func() time.Time
}

type DemoOption func(*demoOptions)

type demoOptions struct {
	fallbackCity string
	strict       bool
	random       RandomSource
	now          func() time.Time
}

func WithFallbackCity(name string) DemoOption {
	return func(o *demoOptions) { o.fallbackCity = name }
}

// WithStrictLookup makes unknown cities fail with weather.ErrCityNotFound
// instead of answering with the fallback city.
func WithStrictLookup(strict bool) DemoOption {
	return func(o *demoOptions) { o.strict = strict }
}

func WithRandomSource(src RandomSource) DemoOption {
	return func(o *demoOptions) { o.random = src }
}

func WithClock(now func() time.Time) DemoOption {
	return func(o *demoOptions) { o.now = now }
}

func NewDemoService(opts ...DemoOption) (*DemoService, error) {
	o := demoOptions{
		fallbackCity: defaultFallbackCity,
		random:       GlobalSource(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &DemoService{
		cities: make(map[string]weather.CurrentWeather, len(demoCities)),
		strict: o.strict,
		random: o.random,
		now:    o.now,
	}
	for _, c := range demoCities {
		s.cities[normalizeCity(c.City)] = c
	}

	fallback, ok := s.cities[normalizeCity(o.fallbackCity)]
	if !ok {
		return nil, fmt.Errorf("demo fallback city %q is not in the demo table", o.fallbackCity)
	}
	s.fallback = fallback

	return s, nil
}

func NewDemoServiceWithConfig(cfg config.DemoConfig) (*DemoService, error) {
	opts := []DemoOption{
		WithFallbackCity(cfg.FallbackCity),
		WithStrictLookup(cfg.StrictLookup),
	}
	if cfg.Seed != 0 {
		opts = append(opts, WithRandomSource(NewSeededSource(cfg.Seed)))
	}
	return NewDemoService(opts...)
}

func (s *DemoService) Name() string {
	return DemoServiceName
}

func (s *DemoService) Volatile() bool {
	return true
}

// Cities lists the demo table in its canonical spelling.
func (s *DemoService) Cities() []string {
	names := make([]string, 0, len(demoCities))
	for _, c := range demoCities {
		names = append(names, c.City)
	}
	return names
}

func (s *DemoService) CurrentWeather(_ context.Context, city string, system units.System) (*weather.CurrentWeather, error) {
	tmpl, fallback, err := s.resolve(city)
	if err != nil {
		return nil, err
	}

	data := convertCurrent(tmpl, system)
	data.City = city
	data.Fallback = fallback
	return data, nil
}

func (s *DemoService) CurrentWeatherByCoords(_ context.Context, coords weather.Coordinates, system units.System) (*weather.CurrentWeather, error) {
	data := convertCurrent(s.fallback, system)
	data.Coords = &coords
	data.Fallback = true
	return data, nil
}

func (s *DemoService) Forecast(_ context.Context, city string, system units.System) (*weather.ForecastSet, error) {
	tmpl, fallback, err := s.resolve(city)
	if err != nil {
		return nil, err
	}

	return &weather.ForecastSet{
		City:     city,
		Country:  tmpl.Country,
		Forecast: s.generateForecast(tmpl.Temperature, system),
		Units:    system,
		Fallback: fallback,
	}, nil
}

func (s *DemoService) ForecastByCoords(_ context.Context, _ weather.Coordinates, system units.System) (*weather.ForecastSet, error) {
	return &weather.ForecastSet{
		City:     s.fallback.City,
		Country:  s.fallback.Country,
		Forecast: s.generateForecast(s.fallback.Temperature, system),
		Units:    system,
		Fallback: true,
	}, nil
}

func (s *DemoService) resolve(city string) (weather.CurrentWeather, bool, error) {
	if tmpl, ok := s.cities[normalizeCity(city)]; ok {
		return tmpl, false, nil
	}
	if s.strict {
		return weather.CurrentWeather{}, false, fmt.Errorf("%w: %q", weather.ErrCityNotFound, city)
	}
	return s.fallback, true, nil
}

// generateForecast synthesizes ForecastDays entries around baseTemp (°C).
// Random draws happen in a fixed order per day: variation, spread,
// condition, humidity, wind. Temperatures are converted after the average
// is taken in metric.
func (s *DemoService) generateForecast(baseTemp int, system units.System) []weather.ForecastEntry {
	today := s.now()
	entries := make([]weather.ForecastEntry, 0, ForecastDays)

	for i := 0; i < ForecastDays; i++ {
		date := today.AddDate(0, 0, i)

		tempMax := baseTemp + intn(s.random, 7) - 3
		tempMin := tempMax - (intn(s.random, 5) + 5)
		cond := demoConditions[intn(s.random, len(demoConditions))]
		humidity := intn(s.random, 40) + 50
		// Truncated rather than rounded so the value stays below 8.0.
		windSpeed := math.Floor((s.random.Float64()*6+2)*10) / 10
		tempAvg := int(math.Floor(float64(tempMax+tempMin) / 2))

		entries = append(entries, weather.ForecastEntry{
			Date:               date.Format("Mon, Jan 02"),
			DateFull:           date.Format("2006-01-02"),
			TempMin:            units.ConvertDegrees(tempMin, units.Metric, system),
			TempMax:            units.ConvertDegrees(tempMax, units.Metric, system),
			TempAvg:            units.ConvertDegrees(tempAvg, units.Metric, system),
			Humidity:           humidity,
			WindSpeed:          windSpeed,
			WeatherIcon:        cond.Icon,
			IconURL:            weather.IconURL(cond.Icon),
			WeatherDescription: cond.Description,
			WeatherMain:        cond.Main,
		})
	}

	return entries
}

func convertCurrent(tmpl weather.CurrentWeather, system units.System) *weather.CurrentWeather {
	data := tmpl
	data.Temperature = units.ConvertDegrees(tmpl.Temperature, units.Metric, system)
	data.FeelsLike = units.ConvertDegrees(tmpl.FeelsLike, units.Metric, system)
	data.TempMin = units.ConvertDegrees(tmpl.TempMin, units.Metric, system)
	data.TempMax = units.ConvertDegrees(tmpl.TempMax, units.Metric, system)
	data.IconURL = weather.IconURL(tmpl.WeatherIcon)
	data.Units = system
	return &data
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
