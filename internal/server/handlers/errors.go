package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nitinadonis1/Weather---app/internal/chart"
	"github.com/Nitinadonis1/Weather---app/internal/dashboard"
	"github.com/Nitinadonis1/Weather---app/internal/server/utils"
	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
)

const (
	CodeInvalidParams       = "INVALID_PARAMS"
	CodeCityNotFound        = "CITY_NOT_FOUND"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeUpstreamTimeout     = "UPSTREAM_TIMEOUT"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
	CodeNotFound            = "NOT_FOUND"
)

type normalizer interface {
	normalize()
}

// bindQuery binds and validates query parameters into req, answering 400
// itself when they are invalid.
func bindQuery(c *gin.Context, reqLogger *zap.Logger, req normalizer) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		writeInvalidParams(c, reqLogger, err.Error(), nil)
		return false
	}
	req.normalize()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		writeInvalidParams(c, reqLogger, errs[0].Message, errs)
		return false
	}
	return true
}

func writeInvalidParams(c *gin.Context, reqLogger *zap.Logger, message string, details any) {
	reqLogger.Warn("Invalid request parameters", zap.String("reason", message))
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request parameters",
		Message: message,
		Code:    CodeInvalidParams,
		Details: details,
	})
}

// writeError maps a lookup failure for location onto an HTTP error response.
func writeError(c *gin.Context, reqLogger *zap.Logger, err error, location string) {
	_ = c.Error(err)

	status, body := errorResponse(err, location)
	if status >= http.StatusInternalServerError {
		reqLogger.Error("Weather request failed", zap.String("location", location), zap.Error(err))
	} else {
		reqLogger.Warn("Weather request rejected", zap.String("location", location), zap.Error(err))
	}
	c.JSON(status, body)
}

func errorResponse(err error, location string) (int, ErrorResponse) {
	switch {
	case errors.Is(err, dashboard.ErrInvalidQuery),
		errors.Is(err, units.ErrUnknownSystem),
		errors.Is(err, chart.ErrUnknownTheme):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Message: err.Error(),
			Code:    CodeInvalidParams,
		}
	case errors.Is(err, weather.ErrCityNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error:   "City not found",
			Message: fmt.Sprintf("Could not find weather data for %q. Please check the spelling.", location),
			Code:    CodeCityNotFound,
		}
	case errors.Is(err, weather.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, ErrorResponse{
			Error:   "Timeout",
			Message: "Request timed out. Please check your internet connection.",
			Code:    CodeUpstreamTimeout,
		}
	case errors.Is(err, weather.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, ErrorResponse{
			Error:   "Network Error",
			Message: "Failed to connect to weather service. Please try again.",
			Code:    CodeUpstreamUnavailable,
		}
	case errors.Is(err, weather.ErrUpstream):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "API Error",
			Message: "Failed to fetch weather data. Please try again later.",
			Code:    CodeUpstreamError,
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Server Error",
			Message: "An unexpected error occurred. Please try again.",
			Code:    CodeInternal,
		}
	}
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   "Not Found",
		Message: "The requested resource was not found",
		Code:    CodeNotFound,
	})
}
