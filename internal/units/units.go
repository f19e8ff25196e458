package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// System is a display convention for temperatures and wind speeds.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

var ErrUnknownSystem = errors.New("unknown unit system")

// ParseSystem accepts "metric" or "imperial" in any case. An empty string
// selects Metric.
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Metric):
		return Metric, nil
	case string(Imperial):
		return Imperial, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSystem, s)
	}
}

func (s System) String() string {
	return string(s)
}

func (s System) Valid() bool {
	return s == Metric || s == Imperial
}

// ConvertTemperature converts value between unit systems and rounds the
// result half away from zero. Equal systems return value untouched.
func ConvertTemperature(value float64, from, to System) float64 {
	if from == to {
		return value
	}

	switch {
	case from == Metric && to == Imperial:
		return math.Round(value*9/5 + 32)
	case from == Imperial && to == Metric:
		return math.Round((value - 32) * 5 / 9)
	default:
		return value
	}
}

// ConvertDegrees is ConvertTemperature over whole degrees.
func ConvertDegrees(value int, from, to System) int {
	return int(ConvertTemperature(float64(value), from, to))
}

func TemperatureSymbol(s System) string {
	if s == Imperial {
		return "°F"
	}
	return "°C"
}

// WindSpeedUnit only names the unit; wind speeds are never rescaled here.
func WindSpeedUnit(s System) string {
	if s == Imperial {
		return "mph"
	}
	return "m/s"
}
