package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nitinadonis1/Weather---app/internal/dashboard"
	"github.com/Nitinadonis1/Weather---app/internal/server/utils"
	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
)

func (r *CityRequest) normalize() {
	r.City = strings.TrimSpace(r.City)
	r.Units = strings.ToLower(strings.TrimSpace(r.Units))
}

func (r *CoordsRequest) normalize() {
	r.Units = strings.ToLower(strings.TrimSpace(r.Units))
}

type WeatherHandler struct {
	dashboard    *dashboard.Dashboard
	defaultUnits units.System
	logger       *zap.Logger
}

func NewWeatherHandler(d *dashboard.Dashboard, defaultUnits units.System, logger *zap.Logger) *WeatherHandler {
	if !defaultUnits.Valid() {
		defaultUnits = units.Metric
	}
	return &WeatherHandler{
		dashboard:    d,
		defaultUnits: defaultUnits,
		logger:       logger,
	}
}

func (h *WeatherHandler) system(raw string) units.System {
	if raw == "" {
		return h.defaultUnits
	}
	return units.System(raw)
}

func (h *WeatherHandler) cityQuery(c *gin.Context, reqLogger *zap.Logger) (dashboard.Query, bool) {
	var req CityRequest
	if !bindQuery(c, reqLogger, &req) {
		return dashboard.Query{}, false
	}
	return dashboard.Query{City: req.City, Units: h.system(req.Units)}, true
}

func (h *WeatherHandler) coordsQuery(c *gin.Context, reqLogger *zap.Logger) (dashboard.Query, bool) {
	var req CoordsRequest
	if !bindQuery(c, reqLogger, &req) {
		return dashboard.Query{}, false
	}
	return dashboard.Query{
		Coords: &weather.Coordinates{Lat: *req.Lat, Lon: *req.Lon},
		Units:  h.system(req.Units),
	}, true
}

func (h *WeatherHandler) GetWeather(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)
	q, ok := h.cityQuery(c, reqLogger)
	if !ok {
		return
	}
	h.current(c, reqLogger, q, q.City)
}

func (h *WeatherHandler) GetWeatherByCoords(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)
	q, ok := h.coordsQuery(c, reqLogger)
	if !ok {
		return
	}
	h.current(c, reqLogger, q, q.Coords.String())
}

func (h *WeatherHandler) GetForecast(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)
	q, ok := h.cityQuery(c, reqLogger)
	if !ok {
		return
	}
	h.forecast(c, reqLogger, q, q.City)
}

func (h *WeatherHandler) GetForecastByCoords(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)
	q, ok := h.coordsQuery(c, reqLogger)
	if !ok {
		return
	}
	h.forecast(c, reqLogger, q, q.Coords.String())
}

func (h *WeatherHandler) current(c *gin.Context, reqLogger *zap.Logger, q dashboard.Query, location string) {
	ctx := utils.GetContextFromGinContext(c)

	reqLogger.Info("Processing current weather request",
		zap.String("location", location),
		zap.String("units", q.Units.String()))

	data, err := h.dashboard.CurrentWeather(ctx, q)
	if err != nil {
		writeError(c, reqLogger, err, location)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *WeatherHandler) forecast(c *gin.Context, reqLogger *zap.Logger, q dashboard.Query, location string) {
	ctx := utils.GetContextFromGinContext(c)

	reqLogger.Info("Processing forecast request",
		zap.String("location", location),
		zap.String("units", q.Units.String()))

	data, err := h.dashboard.Forecast(ctx, q)
	if err != nil {
		writeError(c, reqLogger, err, location)
		return
	}

	reqLogger.Debug("Forecast request completed", zap.Int("days", len(data.Forecast)))
	c.JSON(http.StatusOK, data)
}
