package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nitinadonis1/Weather---app/internal/dashboard"
)

type HealthHandler struct {
	logger    *zap.Logger
	dashboard *dashboard.Dashboard
	version   string
	mode      string
	startTime time.Time
}

func NewHealthHandler(logger *zap.Logger, d *dashboard.Dashboard, version, mode string) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		dashboard: d,
		version:   version,
		mode:      mode,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) uptime() string {
	return time.Since(h.startTime).Round(time.Second).String()
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: h.uptime(),
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.dashboard == nil {
		h.logger.Warn("Readiness probe failed: dashboard not initialised")
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Uptime: h.uptime(),
		})
		return
	}

	stats := h.dashboard.GetCacheStats()
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: h.uptime(),
		Mode:   h.mode,
		Cache:  &stats,
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    h.uptime(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Mode:      h.mode,
	})
}
