package handlers

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nitinadonis1/Weather---app/internal/server/middlewares"
)

// AppMetrics holds application-level metrics (cache, services, etc.)
type AppMetrics struct {
	mutex         sync.RWMutex
	cacheHits     map[string]int64
	cacheMisses   map[string]int64
	serviceCalls  map[string]int64
	serviceErrors map[string]int64
}

// MetricsHandler records dashboard metrics and serves them, together with
// the HTTP middleware counters, in the Prometheus text format.
type MetricsHandler struct {
	logger      *zap.Logger
	httpMetrics *middlewares.HTTPMetrics
	appMetrics  *AppMetrics
}

func NewMetricsHandler(logger *zap.Logger, httpMetrics *middlewares.HTTPMetrics) *MetricsHandler {
	return &MetricsHandler{
		logger:      logger,
		httpMetrics: httpMetrics,
		appMetrics: &AppMetrics{
			cacheHits:     make(map[string]int64),
			cacheMisses:   make(map[string]int64),
			serviceCalls:  make(map[string]int64),
			serviceErrors: make(map[string]int64),
		},
	}
}

func (h *MetricsHandler) RecordCacheHit(_ context.Context, cacheType string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.cacheHits[cacheType]++
	h.appMetrics.mutex.Unlock()
}

func (h *MetricsHandler) RecordCacheMiss(_ context.Context, cacheType string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.cacheMisses[cacheType]++
	h.appMetrics.mutex.Unlock()
}

func (h *MetricsHandler) RecordServiceCall(_ context.Context, service string, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.serviceCalls[service]++
	if !success {
		h.appMetrics.serviceErrors[service]++
	}
	h.appMetrics.mutex.Unlock()
}

func writeMetric(b *strings.Builder, name, help, kind string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

func writeLabeled(b *strings.Builder, name, label string, values map[string]int64) {
	for _, key := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(b, "%s{%s=%q} %d\n", name, label, key, values[key])
	}
}

func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.httpMetrics != nil {
		snap := h.httpMetrics.Snapshot()

		writeMetric(&b, "http_requests_total", "Total number of HTTP requests", "counter")
		writeLabeled(&b, "http_requests_total", "route_status", snap.RequestsTotal)

		writeMetric(&b, "http_request_duration_seconds_avg", "Average duration of HTTP requests", "gauge")
		fmt.Fprintf(&b, "http_request_duration_seconds_avg %.6f\n", snap.AvgDurationSeconds)

		writeMetric(&b, "http_active_requests", "Number of active HTTP requests", "gauge")
		fmt.Fprintf(&b, "http_active_requests %d\n", snap.ActiveRequests)
	}

	h.appMetrics.mutex.RLock()
	writeMetric(&b, "dashboard_cache_hits_total", "Total cache hits", "counter")
	writeLabeled(&b, "dashboard_cache_hits_total", "cache", h.appMetrics.cacheHits)

	writeMetric(&b, "dashboard_cache_misses_total", "Total cache misses", "counter")
	writeLabeled(&b, "dashboard_cache_misses_total", "cache", h.appMetrics.cacheMisses)

	writeMetric(&b, "weather_service_calls_total", "Total weather service calls", "counter")
	writeLabeled(&b, "weather_service_calls_total", "service", h.appMetrics.serviceCalls)

	writeMetric(&b, "weather_service_errors_total", "Total weather service errors", "counter")
	writeLabeled(&b, "weather_service_errors_total", "service", h.appMetrics.serviceErrors)
	h.appMetrics.mutex.RUnlock()

	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}
