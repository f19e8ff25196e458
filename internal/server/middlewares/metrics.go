package middlewares

import (
	"maps"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nitinadonis1/Weather---app/pkg/telemetry"
)

const maxRecordedDurations = 1000

// HTTPMetrics holds only HTTP request metrics
type HTTPMetrics struct {
	mutex            sync.RWMutex
	requestsTotal    map[string]int64
	requestDurations []float64
	activeRequests   int64
}

// HTTPSnapshot is a point-in-time copy of HTTPMetrics.
type HTTPSnapshot struct {
	RequestsTotal      map[string]int64
	AvgDurationSeconds float64
	ActiveRequests     int64
}

func (m *HTTPMetrics) Snapshot() HTTPSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var avg float64
	if len(m.requestDurations) > 0 {
		sum := 0.0
		for _, d := range m.requestDurations {
			sum += d
		}
		avg = sum / float64(len(m.requestDurations))
	}

	return HTTPSnapshot{
		RequestsTotal:      maps.Clone(m.requestsTotal),
		AvgDurationSeconds: avg,
		ActiveRequests:     m.activeRequests,
	}
}

type MetricsMiddleware struct {
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics *HTTPMetrics
}

func NewMetricsMiddleware(logger *zap.Logger, tele *telemetry.Telemetry) *MetricsMiddleware {
	return &MetricsMiddleware{
		logger: logger,
		tele:   tele,
		metrics: &HTTPMetrics{
			requestsTotal:    make(map[string]int64),
			requestDurations: make([]float64, 0, maxRecordedDurations),
		},
	}
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.metrics.mutex.Lock()
		m.metrics.activeRequests++
		m.metrics.mutex.Unlock()

		c.Next()

		duration := time.Since(start).Seconds()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		key := method + " " + route + "_" + strconv.Itoa(c.Writer.Status())

		m.metrics.mutex.Lock()
		m.metrics.requestsTotal[key]++
		m.metrics.requestDurations = append(m.metrics.requestDurations, duration)
		m.metrics.activeRequests--

		if len(m.metrics.requestDurations) > maxRecordedDurations {
			m.metrics.requestDurations = m.metrics.requestDurations[len(m.metrics.requestDurations)-maxRecordedDurations:]
		}
		m.metrics.mutex.Unlock()

		if m.tele.IsEnabled() {
			m.logger.Debug("HTTP metrics recorded",
				zap.String("method", method),
				zap.String("route", route),
				zap.Int("status", c.Writer.Status()),
				zap.Float64("duration", duration))
		}
	}
}

func (m *MetricsMiddleware) HTTPMetrics() *HTTPMetrics {
	return m.metrics
}
