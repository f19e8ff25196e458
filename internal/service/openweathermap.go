package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Nitinadonis1/Weather---app/internal/config"
	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
	"github.com/Nitinadonis1/Weather---app/pkg/telemetry"
)

const OpenWeatherMapServiceName = "openweathermap"

type OpenWeatherMapService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewOpenWeatherMapServiceWithConfig(cfg config.OpenWeatherMapConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenWeatherMapService {
	return &OpenWeatherMapService{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
		tele:    tele,
	}
}

func (s *OpenWeatherMapService) Name() string {
	return OpenWeatherMapServiceName
}

func (s *OpenWeatherMapService) CurrentWeather(ctx context.Context, city string, system units.System) (*weather.CurrentWeather, error) {
	params := url.Values{}
	params.Set("q", city)

	var resp owmCurrentResponse
	if err := s.get(ctx, "weather", params, system, &resp); err != nil {
		return nil, err
	}
	return resp.toCurrentWeather(system), nil
}

func (s *OpenWeatherMapService) CurrentWeatherByCoords(ctx context.Context, coords weather.Coordinates, system units.System) (*weather.CurrentWeather, error) {
	var resp owmCurrentResponse
	if err := s.get(ctx, "weather", coordParams(coords), system, &resp); err != nil {
		return nil, err
	}

	data := resp.toCurrentWeather(system)
	data.Coords = &coords
	return data, nil
}

func (s *OpenWeatherMapService) Forecast(ctx context.Context, city string, system units.System) (*weather.ForecastSet, error) {
	params := url.Values{}
	params.Set("q", city)

	var resp owmForecastResponse
	if err := s.get(ctx, "forecast", params, system, &resp); err != nil {
		return nil, err
	}
	return resp.toForecastSet(system), nil
}

func (s *OpenWeatherMapService) ForecastByCoords(ctx context.Context, coords weather.Coordinates, system units.System) (*weather.ForecastSet, error) {
	var resp owmForecastResponse
	if err := s.get(ctx, "forecast", coordParams(coords), system, &resp); err != nil {
		return nil, err
	}
	return resp.toForecastSet(system), nil
}

func coordParams(coords weather.Coordinates) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	return params
}

// get performs one rate-limited call and decodes the JSON body into out.
// Failures are wrapped in the weather package's sentinel errors.
func (s *OpenWeatherMapService) get(ctx context.Context, endpoint string, params url.Values, system units.System, out any) error {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweathermap."+endpoint)
	defer span.End()

	span.SetAttributes(
		attribute.String("service", OpenWeatherMapServiceName),
		attribute.String("endpoint", endpoint),
		attribute.String("units", system.String()),
	)

	if err := s.limiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		// Wait fails early, without wrapping the context error, when the
		// deadline would pass before a token frees up.
		if _, ok := ctx.Deadline(); ok && !errors.Is(err, context.Canceled) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return classifyTransportError(fmt.Errorf("rate limit wait: %w", err))
	}

	u, err := url.Parse(fmt.Sprintf("%s/%s", s.baseURL, endpoint))
	if err != nil {
		return err
	}

	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	q.Set("units", system.String())
	q.Set("appid", s.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		err = classifyTransportError(err)
		s.tele.RecordError(ctx, err)
		s.logger.Warn("OpenWeatherMap request failed",
			zap.String("endpoint", endpoint),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		span.SetAttributes(attribute.Bool("success", false))
		return fmt.Errorf("%w: %s", weather.ErrCityNotFound, describeQuery(params))
	case resp.StatusCode != http.StatusOK:
		err := fmt.Errorf("%w: %s returned status %d", weather.ErrUpstream, endpoint, resp.StatusCode)
		s.tele.RecordError(ctx, err)
		s.logger.Warn("OpenWeatherMap returned an error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", weather.ErrUpstream, endpoint, err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	s.logger.Debug("OpenWeatherMap request completed",
		zap.String("endpoint", endpoint),
		zap.Duration("latency", time.Since(start)))

	return nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", weather.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %w", weather.ErrUpstreamUnavailable, err)
}

func describeQuery(params url.Values) string {
	if q := params.Get("q"); q != "" {
		return strconv.Quote(q)
	}
	return params.Get("lat") + "," + params.Get("lon")
}
