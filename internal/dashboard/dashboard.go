package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Nitinadonis1/Weather---app/internal/chart"
	"github.com/Nitinadonis1/Weather---app/internal/config"
	"github.com/Nitinadonis1/Weather---app/internal/service"
	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
	"github.com/Nitinadonis1/Weather---app/pkg/logger"
	"github.com/Nitinadonis1/Weather---app/pkg/telemetry"
)

const (
	DateLayout = "Monday, January 2, 2006"

	cacheTypeCurrent  = "current_weather"
	cacheTypeForecast = "forecast"
)

var ErrInvalidQuery = errors.New("query needs a city or coordinates")

// Query selects a location by city name or, when Coords is set, by
// coordinates.
type Query struct {
	City   string
	Coords *weather.Coordinates
	Units  units.System
}

func (q Query) Validate() error {
	if q.Coords == nil && strings.TrimSpace(q.City) == "" {
		return ErrInvalidQuery
	}
	if !q.Units.Valid() {
		return fmt.Errorf("%w: %q", units.ErrUnknownSystem, q.Units)
	}
	return nil
}

func (q Query) withDefaults() Query {
	if q.Units == "" {
		q.Units = units.Metric
	}
	return q
}

func (q Query) key() string {
	if q.Coords != nil {
		return q.Coords.String() + "|" + q.Units.String()
	}
	return strings.ToLower(strings.TrimSpace(q.City)) + "|" + q.Units.String()
}

func (q Query) location() string {
	if q.Coords != nil {
		return q.Coords.String()
	}
	return q.City
}

// View is everything the dashboard page renders for one location.
type View struct {
	Current           *weather.CurrentWeather `json:"current"`
	Forecast          *weather.ForecastSet    `json:"forecast"`
	Chart             chart.Config            `json:"chart"`
	Theme             chart.Theme             `json:"theme"`
	Units             units.System            `json:"units"`
	TemperatureSymbol string                  `json:"temperature_symbol"`
	WindSpeedUnit     string                  `json:"wind_speed_unit"`
	Date              string                  `json:"date"`
	Fallback          bool                    `json:"fallback"`
}

// MetricsRecorder receives cache and provider call outcomes.
type MetricsRecorder interface {
	RecordCacheHit(ctx context.Context, cacheType string)
	RecordCacheMiss(ctx context.Context, cacheType string)
	RecordServiceCall(ctx context.Context, service string, success bool)
}

type Dashboard struct {
	service  service.WeatherService
	current  *Cache[*weather.CurrentWeather]
	forecast *Cache[*weather.ForecastSet]
	cacheTTL time.Duration
	caching  bool
	group    singleflight.Group

	// fetchTimeout bounds a coalesced fetch, which outlives the caller that
	// started it.
	fetchTimeout time.Duration
	logger       *zap.Logger
	tele         *telemetry.Telemetry
	metrics      MetricsRecorder
	now          func() time.Time

	workers    int
	taskQueue  chan *Task
	shutdownCh chan struct{}
	workerWg   sync.WaitGroup
	stateMu    sync.Mutex
	started    bool
	stopped    bool
}

func NewDashboard(svc service.WeatherService, cfg *config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Dashboard {
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	caching := ttl > 0 && !service.IsVolatile(svc)

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1
	}

	d := &Dashboard{
		service:      svc,
		current:      NewCache[*weather.CurrentWeather](ttl),
		forecast:     NewCache[*weather.ForecastSet](ttl),
		cacheTTL:     ttl,
		caching:      caching,
		fetchTimeout: time.Duration(cfg.OpenWeatherMap.Timeout) * time.Second,
		logger:       logger,
		tele:         tele,
		now:          time.Now,
		workers:      cfg.Workers,
		taskQueue:    make(chan *Task, queueSize),
		shutdownCh:   make(chan struct{}),
	}

	logger.Info("Dashboard created",
		zap.String("service", svc.Name()),
		zap.Bool("caching", caching),
		zap.Duration("cache_ttl", ttl),
		zap.Int("workers", cfg.Workers))

	return d
}

func (d *Dashboard) SetMetricsRecorder(metrics MetricsRecorder) {
	d.metrics = metrics
}

func (d *Dashboard) ServiceName() string {
	return d.service.Name()
}

// CachingEnabled reports whether responses are cached. Volatile services
// are never cached.
func (d *Dashboard) CachingEnabled() bool {
	return d.caching
}

func (d *Dashboard) CurrentWeather(ctx context.Context, q Query) (*weather.CurrentWeather, error) {
	q = q.withDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return cached(ctx, d, d.current, cacheTypeCurrent, q, d.fetchCurrent, (*weather.CurrentWeather).Clone)
}

func (d *Dashboard) Forecast(ctx context.Context, q Query) (*weather.ForecastSet, error) {
	q = q.withDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return cached(ctx, d, d.forecast, cacheTypeForecast, q, d.fetchForecast, (*weather.ForecastSet).Clone)
}

// Load fetches current conditions and the forecast concurrently and
// assembles the view for theme.
func (d *Dashboard) Load(ctx context.Context, q Query, theme chart.Theme) (*View, error) {
	q = q.withDefaults()
	ctx, span := d.tele.GetTracer().Start(ctx, "dashboard.Load")
	defer span.End()

	span.SetAttributes(
		attribute.String("location", q.location()),
		attribute.String("units", q.Units.String()),
		attribute.String("theme", string(theme)),
	)

	var (
		current  *weather.CurrentWeather
		forecast *weather.ForecastSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = d.CurrentWeather(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = d.Forecast(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		d.tele.RecordError(ctx, err)
		return nil, err
	}

	return &View{
		Current:           current,
		Forecast:          forecast,
		Chart:             chart.Temperature(forecast, theme),
		Theme:             theme,
		Units:             q.Units,
		TemperatureSymbol: units.TemperatureSymbol(q.Units),
		WindSpeedUnit:     units.WindSpeedUnit(q.Units),
		Date:              d.now().Format(DateLayout),
		Fallback:          current.Fallback || forecast.Fallback,
	}, nil
}

func cached[V any](
	ctx context.Context,
	d *Dashboard,
	cache *Cache[V],
	cacheType string,
	q Query,
	fetch func(context.Context, Query) (V, error),
	clone func(V) V,
) (V, error) {
	tracer := d.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "dashboard."+cacheType)
	defer span.End()

	reqLogger := logger.ForContext(ctx, d.logger)
	key := q.key()

	span.SetAttributes(
		attribute.String("cache_key", key),
		attribute.Bool("caching", d.caching),
	)

	if !d.caching {
		return fetch(ctx, q)
	}

	if v, ok := cache.Get(key); ok {
		reqLogger.Debug("Cache hit", zap.String("cache", cacheType), zap.String("cache_key", key))
		span.SetAttributes(attribute.Bool("cache_hit", true))
		d.recordCacheHit(ctx, cacheType)
		return clone(v), nil
	}

	span.SetAttributes(attribute.Bool("cache_hit", false))
	d.recordCacheMiss(ctx, cacheType)

	reqLogger.Debug("Cache miss, fetching fresh data",
		zap.String("cache", cacheType),
		zap.String("cache_key", key))

	// The shared fetch runs detached from ctx so one caller going away does
	// not fail the others waiting on the same key.
	ch := d.group.DoChan(cacheType+"|"+key, func() (any, error) {
		fetchCtx, cancel := d.detach(ctx)
		defer cancel()

		data, err := fetch(fetchCtx, q)
		if err != nil {
			return nil, err
		}
		cache.Set(key, data)
		return data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		span.SetAttributes(attribute.Bool("shared", res.Shared))
		return clone(res.Val.(V)), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// detach keeps ctx's values (request ID, span) but not its cancellation.
func (d *Dashboard) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if d.fetchTimeout <= 0 {
		return detached, func() {}
	}
	return context.WithTimeout(detached, d.fetchTimeout)
}

func (d *Dashboard) fetchCurrent(ctx context.Context, q Query) (*weather.CurrentWeather, error) {
	var (
		data *weather.CurrentWeather
		err  error
	)
	if q.Coords != nil {
		data, err = d.service.CurrentWeatherByCoords(ctx, *q.Coords, q.Units)
	} else {
		data, err = d.service.CurrentWeather(ctx, q.City, q.Units)
	}
	d.recordServiceCall(ctx, err == nil)
	if err != nil {
		logger.ForContext(ctx, d.logger).Warn("Current weather fetch failed",
			zap.String("location", q.location()),
			zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (d *Dashboard) fetchForecast(ctx context.Context, q Query) (*weather.ForecastSet, error) {
	var (
		data *weather.ForecastSet
		err  error
	)
	if q.Coords != nil {
		data, err = d.service.ForecastByCoords(ctx, *q.Coords, q.Units)
	} else {
		data, err = d.service.Forecast(ctx, q.City, q.Units)
	}
	d.recordServiceCall(ctx, err == nil)
	if err != nil {
		logger.ForContext(ctx, d.logger).Warn("Forecast fetch failed",
			zap.String("location", q.location()),
			zap.Error(err))
		return nil, err
	}
	return data, nil
}

// refresh fetches both payloads for q and replaces any cached copies.
func (d *Dashboard) refresh(ctx context.Context, q Query) (TaskResult, error) {
	current, err := d.fetchCurrent(ctx, q)
	if err != nil {
		return TaskResult{}, err
	}
	forecast, err := d.fetchForecast(ctx, q)
	if err != nil {
		return TaskResult{}, err
	}

	if d.caching {
		key := q.key()
		d.current.Set(key, current)
		d.forecast.Set(key, forecast)
	}
	return TaskResult{Current: current, Forecast: forecast}, nil
}

func (d *Dashboard) recordCacheHit(ctx context.Context, cacheType string) {
	if d.metrics != nil {
		d.metrics.RecordCacheHit(ctx, cacheType)
	}
}

func (d *Dashboard) recordCacheMiss(ctx context.Context, cacheType string) {
	if d.metrics != nil {
		d.metrics.RecordCacheMiss(ctx, cacheType)
	}
}

func (d *Dashboard) recordServiceCall(ctx context.Context, success bool) {
	if d.metrics != nil {
		d.metrics.RecordServiceCall(ctx, d.service.Name(), success)
	}
}

// PurgeExpired drops expired cache entries and returns how many went.
func (d *Dashboard) PurgeExpired() int {
	return d.current.Purge() + d.forecast.Purge()
}

type CacheStats struct {
	Service       string `json:"service"`
	Caching       bool   `json:"caching"`
	CacheTTL      string `json:"cache_ttl"`
	CurrentCount  int    `json:"current_entries"`
	ForecastCount int    `json:"forecast_entries"`
	Workers       int    `json:"workers"`
	QueueLength   int    `json:"queue_length"`
}

func (d *Dashboard) GetCacheStats() CacheStats {
	return CacheStats{
		Service:       d.service.Name(),
		Caching:       d.caching,
		CacheTTL:      d.cacheTTL.String(),
		CurrentCount:  d.current.Len(),
		ForecastCount: d.forecast.Len(),
		Workers:       d.workers,
		QueueLength:   len(d.taskQueue),
	}
}
