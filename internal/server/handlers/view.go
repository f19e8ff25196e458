package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nitinadonis1/Weather---app/internal/chart"
	"github.com/Nitinadonis1/Weather---app/internal/dashboard"
	"github.com/Nitinadonis1/Weather---app/internal/server/utils"
	"github.com/Nitinadonis1/Weather---app/internal/units"
)

func (r *DashboardRequest) normalize() {
	r.City = strings.TrimSpace(r.City)
	r.Units = strings.ToLower(strings.TrimSpace(r.Units))
	r.Theme = strings.ToLower(strings.TrimSpace(r.Theme))
}

// ViewHandler serves the rendered dashboard state and its trend chart.
type ViewHandler struct {
	dashboard    *dashboard.Dashboard
	defaultCity  string
	defaultUnits units.System
	logger       *zap.Logger
}

func NewViewHandler(d *dashboard.Dashboard, defaultCity string, defaultUnits units.System, logger *zap.Logger) *ViewHandler {
	if !defaultUnits.Valid() {
		defaultUnits = units.Metric
	}
	return &ViewHandler{
		dashboard:    d,
		defaultCity:  defaultCity,
		defaultUnits: defaultUnits,
		logger:       logger,
	}
}

func (h *ViewHandler) request(c *gin.Context, reqLogger *zap.Logger) (dashboard.Query, chart.Theme, bool) {
	var req DashboardRequest
	if !bindQuery(c, reqLogger, &req) {
		return dashboard.Query{}, "", false
	}

	q := dashboard.Query{City: req.City, Units: h.defaultUnits}
	if q.City == "" {
		q.City = h.defaultCity
	}
	if req.Units != "" {
		q.Units = units.System(req.Units)
	}

	theme, err := chart.ParseTheme(req.Theme)
	if err != nil {
		writeError(c, reqLogger, err, q.City)
		return dashboard.Query{}, "", false
	}
	return q, theme, true
}

func (h *ViewHandler) GetChart(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)
	q, theme, ok := h.request(c, reqLogger)
	if !ok {
		return
	}

	forecast, err := h.dashboard.Forecast(utils.GetContextFromGinContext(c), q)
	if err != nil {
		writeError(c, reqLogger, err, q.City)
		return
	}

	c.JSON(http.StatusOK, chart.Temperature(forecast, theme))
}

func (h *ViewHandler) GetDashboard(c *gin.Context) {
	reqLogger := utils.RequestLogger(c, h.logger)
	q, theme, ok := h.request(c, reqLogger)
	if !ok {
		return
	}

	reqLogger.Info("Processing dashboard request",
		zap.String("city", q.City),
		zap.String("units", q.Units.String()),
		zap.String("theme", string(theme)))

	view, err := h.dashboard.Load(utils.GetContextFromGinContext(c), q, theme)
	if err != nil {
		writeError(c, reqLogger, err, q.City)
		return
	}

	c.JSON(http.StatusOK, view)
}
