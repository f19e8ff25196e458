package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nitinadonis1/Weather---app/internal/config"
	"github.com/Nitinadonis1/Weather---app/internal/dashboard"
	"github.com/Nitinadonis1/Weather---app/internal/server/handlers"
	"github.com/Nitinadonis1/Weather---app/internal/server/middlewares"
	"github.com/Nitinadonis1/Weather---app/internal/service"
	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/pkg/telemetry"
)

type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	server    *http.Server
	dashboard *dashboard.Dashboard
	metrics   *handlers.MetricsHandler
	logger    *zap.Logger
	tele      *telemetry.Telemetry
}

func NewServer(cfg *config.Config, svc service.WeatherService, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	dash := dashboard.NewDashboard(svc, &cfg.Weather, logger.Named("dashboard"), tele)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	metricsMiddleware := middlewares.NewMetricsMiddleware(logger, tele)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(metricsMiddleware.Handler())

	metrics := handlers.NewMetricsHandler(logger, metricsMiddleware.HTTPMetrics())
	dash.SetMetricsRecorder(metrics)

	s := &Server{
		cfg:       cfg,
		engine:    engine,
		dashboard: dash,
		metrics:   metrics,
		logger:    logger,
		tele:      tele,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	s.setupRoutes()
	return s
}

func (s *Server) mode() string {
	if s.cfg.Weather.DemoMode() {
		return "demo"
	}
	return "live"
}

func (s *Server) defaultUnits() units.System {
	system, err := units.ParseSystem(s.cfg.Weather.DefaultUnits)
	if err != nil {
		return units.Metric
	}
	return system
}

func (s *Server) setupRoutes() {
	weatherHandler := handlers.NewWeatherHandler(s.dashboard, s.defaultUnits(), s.logger)
	viewHandler := handlers.NewViewHandler(s.dashboard, s.cfg.Weather.DefaultCity, s.defaultUnits(), s.logger)
	healthHandler := handlers.NewHealthHandler(s.logger, s.dashboard, s.cfg.Version, s.mode())

	// Business endpoints
	api := s.engine.Group("/api")
	api.GET("/weather", weatherHandler.GetWeather)
	api.GET("/weather/coords", weatherHandler.GetWeatherByCoords)
	api.GET("/forecast", weatherHandler.GetForecast)
	api.GET("/forecast/coords", weatherHandler.GetForecastByCoords)
	api.GET("/chart", viewHandler.GetChart)
	api.GET("/dashboard", viewHandler.GetDashboard)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/health/live", healthHandler.Liveness)
	s.engine.GET("/health/ready", healthHandler.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", s.metrics.ServeMetrics)

	s.engine.NoRoute(handlers.NotFound)
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Dashboard() *dashboard.Dashboard {
	return s.dashboard
}

func (s *Server) prefetchQueries() []dashboard.Query {
	queries := make([]dashboard.Query, 0, len(s.cfg.Weather.PrefetchCities))
	for _, city := range s.cfg.Weather.PrefetchCities {
		queries = append(queries, dashboard.Query{City: city, Units: s.defaultUnits()})
	}
	return queries
}

// Start runs the cache warming workers, when caching applies, and then
// serves HTTP until Shutdown. It returns nil after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.dashboard.CachingEnabled() {
		if err := s.dashboard.Start(ctx); err != nil {
			return fmt.Errorf("start dashboard workers: %w", err)
		}
		interval := time.Duration(s.cfg.Weather.RefreshInterval) * time.Second
		go s.dashboard.RunRefreshLoop(ctx, interval, s.prefetchQueries())
	}

	s.logger.Info("Starting server",
		zap.String("addr", s.server.Addr),
		zap.String("mode", s.mode()),
		zap.String("service", s.dashboard.ServiceName()))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.dashboard.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
