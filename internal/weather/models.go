package weather

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Nitinadonis1/Weather---app/internal/units"
)

var (
	ErrCityNotFound        = errors.New("city not found")
	ErrUpstream            = errors.New("weather upstream error")
	ErrUpstreamTimeout     = errors.New("weather upstream timed out")
	ErrUpstreamUnavailable = errors.New("weather upstream unavailable")
)

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// IconURL returns the OpenWeatherMap image URL for an icon code such as "03d".
func IconURL(code string) string {
	return fmt.Sprintf(iconURLFormat, code)
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// CurrentWeather is the current conditions for one location, with
// temperatures expressed in Units.
type CurrentWeather struct {
	City               string       `json:"city"`
	Country            string       `json:"country"`
	Temperature        int          `json:"temperature"`
	FeelsLike          int          `json:"feels_like"`
	TempMin            int          `json:"temp_min"`
	TempMax            int          `json:"temp_max"`
	Humidity           int          `json:"humidity"`
	Pressure           int          `json:"pressure"`
	WindSpeed          float64      `json:"wind_speed"`
	WindDeg            int          `json:"wind_deg"`
	Visibility         float64      `json:"visibility"`
	Clouds             int          `json:"clouds"`
	WeatherMain        string       `json:"weather_main"`
	WeatherDescription string       `json:"weather_description"`
	WeatherIcon        string       `json:"weather_icon"`
	IconURL            string       `json:"icon_url"`
	Sunrise            string       `json:"sunrise"`
	Sunset             string       `json:"sunset"`
	Timezone           int          `json:"timezone"`
	DT                 int64        `json:"dt"`
	Units              units.System `json:"units"`
	Coords             *Coordinates `json:"coords,omitempty"`
	// Fallback is set when the requested city was unknown and the default
	// city's conditions were returned under the requested name.
	Fallback bool `json:"fallback"`
}

func (w *CurrentWeather) Clone() *CurrentWeather {
	if w == nil {
		return nil
	}
	c := *w
	if w.Coords != nil {
		coords := *w.Coords
		c.Coords = &coords
	}
	return &c
}

type ForecastEntry struct {
	Date               string  `json:"date"`
	DateFull           string  `json:"date_full"`
	TempMin            int     `json:"temp_min"`
	TempMax            int     `json:"temp_max"`
	TempAvg            int     `json:"temp_avg"`
	Humidity           int     `json:"humidity"`
	WindSpeed          float64 `json:"wind_speed"`
	WeatherIcon        string  `json:"weather_icon"`
	IconURL            string  `json:"icon_url"`
	WeatherDescription string  `json:"weather_description"`
	WeatherMain        string  `json:"weather_main"`
}

// ForecastSet is a chronological daily outlook starting today.
type ForecastSet struct {
	City     string          `json:"city"`
	Country  string          `json:"country"`
	Forecast []ForecastEntry `json:"forecast"`
	Units    units.System    `json:"units"`
	Fallback bool            `json:"fallback"`
}

func (f *ForecastSet) Clone() *ForecastSet {
	if f == nil {
		return nil
	}
	c := *f
	c.Forecast = slices.Clone(f.Forecast)
	return &c
}
