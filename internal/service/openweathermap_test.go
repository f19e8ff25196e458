package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/time/rate"

	"github.com/Nitinadonis1/Weather---app/internal/config"
	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
	"github.com/Nitinadonis1/Weather---app/pkg/telemetry"
)

const parisCurrentJSON = `{
  "name": "Paris",
  "dt": 1700000000,
  "timezone": 3600,
  "visibility": 10000,
  "main": {"temp": 17.6, "feels_like": 16.4, "temp_min": 15.2, "temp_max": 20.5, "pressure": 1020, "humidity": 68},
  "wind": {"speed": 3.1, "deg": 270},
  "clouds": {"all": 20},
  "weather": [{"main": "Clouds", "description": "few clouds", "icon": "02d"}],
  "sys": {"country": "FR", "sunrise": 1700000000, "sunset": 1700040000}
}`

func newTestOWM(t *testing.T, baseURL string) *OpenWeatherMapService {
	t.Helper()
	cfg := config.OpenWeatherMapConfig{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		Timeout:           5,
		RequestsPerSecond: 1000,
		Burst:             10,
	}
	return NewOpenWeatherMapServiceWithConfig(cfg, zaptest.NewLogger(t), &telemetry.Telemetry{})
}

func TestOpenWeatherMap_CurrentWeather(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		gotQuery = map[string]string{
			"q":     r.URL.Query().Get("q"),
			"units": r.URL.Query().Get("units"),
			"appid": r.URL.Query().Get("appid"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(parisCurrentJSON))
	}))
	defer srv.Close()

	svc := newTestOWM(t, srv.URL)
	data, err := svc.CurrentWeather(context.Background(), "Paris", units.Imperial)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"q": "Paris", "units": "imperial", "appid": "test-key"}, gotQuery)

	assert.Equal(t, "Paris", data.City)
	assert.Equal(t, "FR", data.Country)
	assert.Equal(t, 18, data.Temperature)
	assert.Equal(t, 16, data.FeelsLike)
	assert.Equal(t, 15, data.TempMin)
	assert.Equal(t, 21, data.TempMax)
	assert.Equal(t, 10.0, data.Visibility)
	assert.Equal(t, 20, data.Clouds)
	assert.Equal(t, "Few Clouds", data.WeatherDescription)
	assert.Equal(t, "https://openweathermap.org/img/wn/02d@2x.png", data.IconURL)
	assert.Equal(t, "23:13", data.Sunrise)
	assert.Equal(t, "10:20", data.Sunset)
	assert.Equal(t, units.Imperial, data.Units)
	assert.Nil(t, data.Coords)
}

func TestOpenWeatherMap_CurrentWeatherByCoords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "48.85", r.URL.Query().Get("lat"))
		assert.Equal(t, "2.35", r.URL.Query().Get("lon"))
		assert.Empty(t, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(parisCurrentJSON))
	}))
	defer srv.Close()

	svc := newTestOWM(t, srv.URL)
	data, err := svc.CurrentWeatherByCoords(context.Background(), weather.Coordinates{Lat: 48.85, Lon: 2.35}, units.Metric)
	require.NoError(t, err)

	require.NotNil(t, data.Coords)
	assert.Equal(t, 2.35, data.Coords.Lon)
}

func forecastItem(dt int64, temp float64, humidity int, wind float64, icon, desc string) map[string]any {
	return map[string]any{
		"dt":      dt,
		"main":    map[string]any{"temp": temp, "humidity": humidity},
		"wind":    map[string]any{"speed": wind},
		"weather": []map[string]any{{"icon": icon, "description": desc}},
	}
}

func TestOpenWeatherMap_ForecastGroupsByLocalDay(t *testing.T) {
	const tz = 3600
	// Local midnight, 2026-02-03.
	day0 := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC).Unix() - tz
	const day = int64(24 * 3600)

	list := []map[string]any{
		forecastItem(day0+3*3600, 10.4, 70, 3.21, "03d", "scattered clouds"),
		forecastItem(day0+6*3600, 14.6, 75, 4.06, "04d", "broken clouds"),
		forecastItem(day0+9*3600, 12.0, 80, 2.0, "04d", "broken clouds"),
	}
	for i := int64(1); i <= 5; i++ {
		list = append(list, forecastItem(day0+i*day+12*3600, 5, 60, 1, "10d", "light rain"))
	}

	body, err := json.Marshal(map[string]any{
		"list": list,
		"city": map[string]any{"name": "London", "country": "GB", "timezone": tz},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	svc := newTestOWM(t, srv.URL)
	set, err := svc.Forecast(context.Background(), "London", units.Metric)
	require.NoError(t, err)

	assert.Equal(t, "London", set.City)
	assert.Equal(t, "GB", set.Country)
	require.Len(t, set.Forecast, ForecastDays)

	first := set.Forecast[0]
	assert.Equal(t, "Tue, Feb 03", first.Date)
	assert.Equal(t, "2026-02-03", first.DateFull)
	assert.Equal(t, 10, first.TempMin)
	assert.Equal(t, 15, first.TempMax)
	assert.Equal(t, 12, first.TempAvg)
	assert.Equal(t, 75, first.Humidity)
	assert.Equal(t, 4.1, first.WindSpeed)
	assert.Equal(t, "04d", first.WeatherIcon)
	assert.Equal(t, "Broken Clouds", first.WeatherDescription)
	assert.Equal(t, "Broken", first.WeatherMain)

	last := set.Forecast[4]
	assert.Equal(t, "2026-02-07", last.DateFull)
	assert.Equal(t, "Light Rain", last.WeatherDescription)
}

func TestOpenWeatherMap_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "not found", status: http.StatusNotFound, want: weather.ErrCityNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, want: weather.ErrUpstream},
		{name: "server error", status: http.StatusInternalServerError, want: weather.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"cod":"x","message":"nope"}`))
			}))
			defer srv.Close()

			svc := newTestOWM(t, srv.URL)
			_, err := svc.CurrentWeather(context.Background(), "Atlantis", units.Metric)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOpenWeatherMap_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"list": [`))
	}))
	defer srv.Close()

	svc := newTestOWM(t, srv.URL)
	_, err := svc.Forecast(context.Background(), "London", units.Metric)
	assert.ErrorIs(t, err, weather.ErrUpstream)
}

func TestOpenWeatherMap_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	svc := newTestOWM(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.CurrentWeather(ctx, "London", units.Metric)
	assert.ErrorIs(t, err, weather.ErrUpstreamTimeout)
}

func TestOpenWeatherMap_RateLimitWaitPastDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach upstream")
	}))
	defer srv.Close()

	svc := newTestOWM(t, srv.URL)
	svc.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, svc.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.CurrentWeather(ctx, "London", units.Metric)
	assert.ErrorIs(t, err, weather.ErrUpstreamTimeout)

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	_, err = svc.CurrentWeather(canceled, "London", units.Metric)
	assert.ErrorIs(t, err, weather.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenWeatherMap_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	svc := newTestOWM(t, url)
	_, err := svc.CurrentWeather(context.Background(), "London", units.Metric)
	assert.ErrorIs(t, err, weather.ErrUpstreamUnavailable)
}

func TestMostCommon(t *testing.T) {
	assert.Equal(t, "b", mostCommon([]string{"a", "b", "b", "a", "b"}))
	assert.Equal(t, "a", mostCommon([]string{"a", "b"}))
	assert.Equal(t, "", mostCommon(nil))
}

func TestNew_SelectsServiceByAPIKey(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cfg := config.NewDefaultConfig().Weather

	svc, err := New(cfg, logger, &telemetry.Telemetry{})
	require.NoError(t, err)
	assert.Equal(t, DemoServiceName, svc.Name())

	cfg.OpenWeatherMap.APIKey = "real"
	svc, err = New(cfg, logger, &telemetry.Telemetry{})
	require.NoError(t, err)
	assert.Equal(t, OpenWeatherMapServiceName, svc.Name())
	assert.False(t, IsVolatile(svc))
}
