package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTemperature_KnownPoints(t *testing.T) {
	assert.Equal(t, 32.0, ConvertTemperature(0, Metric, Imperial))
	assert.Equal(t, 212.0, ConvertTemperature(100, Metric, Imperial))
	assert.Equal(t, 0.0, ConvertTemperature(32, Imperial, Metric))
	assert.Equal(t, -40.0, ConvertTemperature(-40, Metric, Imperial))
	assert.Equal(t, 59.0, ConvertTemperature(15, Metric, Imperial))
}

func TestConvertTemperature_SameSystemIsIdentity(t *testing.T) {
	assert.Equal(t, 12.34, ConvertTemperature(12.34, Metric, Metric))
	assert.Equal(t, -7.5, ConvertTemperature(-7.5, Imperial, Imperial))
}

func TestConvertTemperature_RoundsHalfAwayFromZero(t *testing.T) {
	// 7.5°C -> 45.5°F, -17.5°C -> 0.5°F, -22.5°C -> -8.5°F
	assert.Equal(t, 46.0, ConvertTemperature(7.5, Metric, Imperial))
	assert.Equal(t, 1.0, ConvertTemperature(-17.5, Metric, Imperial))
	assert.Equal(t, -9.0, ConvertTemperature(-22.5, Metric, Imperial))
	assert.Equal(t, 1.0, ConvertTemperature(33.8, Imperial, Metric))
}

func TestConvertTemperature_RoundTripWithinOneDegree(t *testing.T) {
	for x := -60; x <= 60; x++ {
		f := ConvertTemperature(float64(x), Metric, Imperial)
		back := ConvertTemperature(f, Imperial, Metric)
		assert.LessOrEqual(t, math.Abs(back-float64(x)), 1.0, "x=%d", x)
	}
}

func TestConvertDegrees(t *testing.T) {
	assert.Equal(t, 64, ConvertDegrees(18, Metric, Imperial))
	assert.Equal(t, 18, ConvertDegrees(18, Metric, Metric))
	assert.Equal(t, 18, ConvertDegrees(64, Imperial, Metric))
}

func TestSymbols(t *testing.T) {
	assert.Equal(t, "°C", TemperatureSymbol(Metric))
	assert.Equal(t, "°F", TemperatureSymbol(Imperial))
	assert.Equal(t, "m/s", WindSpeedUnit(Metric))
	assert.Equal(t, "mph", WindSpeedUnit(Imperial))
}

func TestParseSystem(t *testing.T) {
	s, err := ParseSystem("")
	require.NoError(t, err)
	assert.Equal(t, Metric, s)

	s, err = ParseSystem("Imperial")
	require.NoError(t, err)
	assert.Equal(t, Imperial, s)

	_, err = ParseSystem("kelvin")
	assert.ErrorIs(t, err, ErrUnknownSystem)
}
