package handlers

import (
	"github.com/Nitinadonis1/Weather---app/internal/dashboard"
)

// CityRequest selects a city by name.
type CityRequest struct {
	City  string `form:"city" json:"city" validate:"required,max=100"`
	Units string `form:"units" json:"units" validate:"omitempty,oneof=metric imperial"`
}

// CoordsRequest selects a location by coordinates. Pointers distinguish a
// missing coordinate from 0.
type CoordsRequest struct {
	Lat   *float64 `form:"lat" json:"lat" validate:"required,latitude"`
	Lon   *float64 `form:"lon" json:"lon" validate:"required,longitude"`
	Units string   `form:"units" json:"units" validate:"omitempty,oneof=metric imperial"`
}

// DashboardRequest drives the chart and dashboard endpoints. City falls back
// to the configured default city.
type DashboardRequest struct {
	City  string `form:"city" json:"city" validate:"omitempty,max=100"`
	Units string `form:"units" json:"units" validate:"omitempty,oneof=metric imperial"`
	Theme string `form:"theme" json:"theme" validate:"omitempty,oneof=light dark"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string                `json:"status"`
	Uptime    string                `json:"uptime"`
	Timestamp string                `json:"timestamp,omitempty"`
	Version   string                `json:"version,omitempty"`
	Mode      string                `json:"mode,omitempty"`
	Cache     *dashboard.CacheStats `json:"cache,omitempty"`
}
