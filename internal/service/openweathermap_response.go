package service

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
)

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmCurrentResponse struct {
	Name       string  `json:"name"`
	Dt         int64   `json:"dt"`
	Timezone   int     `json:"timezone"`
	Visibility float64 `json:"visibility"`
	Main       struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Weather []owmCondition `json:"weather"`
	Sys     struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

type owmForecastItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []owmCondition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmForecastResponse struct {
	List []owmForecastItem `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

func (r *owmCurrentResponse) toCurrentWeather(system units.System) *weather.CurrentWeather {
	var cond owmCondition
	if len(r.Weather) > 0 {
		cond = r.Weather[0]
	}

	return &weather.CurrentWeather{
		City:               r.Name,
		Country:            r.Sys.Country,
		Temperature:        roundInt(r.Main.Temp),
		FeelsLike:          roundInt(r.Main.FeelsLike),
		TempMin:            roundInt(r.Main.TempMin),
		TempMax:            roundInt(r.Main.TempMax),
		Humidity:           r.Main.Humidity,
		Pressure:           r.Main.Pressure,
		WindSpeed:          r.Wind.Speed,
		WindDeg:            r.Wind.Deg,
		Visibility:         r.Visibility / 1000,
		Clouds:             r.Clouds.All,
		WeatherMain:        cond.Main,
		WeatherDescription: titleCase(cond.Description),
		WeatherIcon:        cond.Icon,
		IconURL:            weather.IconURL(cond.Icon),
		Sunrise:            clockTime(r.Sys.Sunrise, r.Timezone),
		Sunset:             clockTime(r.Sys.Sunset, r.Timezone),
		Timezone:           r.Timezone,
		DT:                 r.Dt,
		Units:              system,
	}
}

type dailyBucket struct {
	date         time.Time
	temps        []float64
	humidity     []int
	windSpeeds   []float64
	icons        []string
	descriptions []string
}

// toForecastSet folds 3-hourly samples into at most ForecastDays daily
// summaries, keyed by the city's local date, in the order dates appear.
func (r *owmForecastResponse) toForecastSet(system units.System) *weather.ForecastSet {
	var order []string
	buckets := make(map[string]*dailyBucket)

	for _, item := range r.List {
		local := time.Unix(item.Dt+int64(r.City.Timezone), 0).UTC()
		key := local.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &dailyBucket{date: local}
			buckets[key] = b
			order = append(order, key)
		}

		b.temps = append(b.temps, item.Main.Temp)
		b.humidity = append(b.humidity, item.Main.Humidity)
		b.windSpeeds = append(b.windSpeeds, item.Wind.Speed)
		if len(item.Weather) > 0 {
			b.icons = append(b.icons, item.Weather[0].Icon)
			b.descriptions = append(b.descriptions, item.Weather[0].Description)
		}
	}

	if len(order) > ForecastDays {
		order = order[:ForecastDays]
	}

	entries := make([]weather.ForecastEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, buckets[key].summary())
	}

	return &weather.ForecastSet{
		City:     r.City.Name,
		Country:  r.City.Country,
		Forecast: entries,
		Units:    system,
	}
}

func (b *dailyBucket) summary() weather.ForecastEntry {
	minTemp, maxTemp, sumTemp := math.Inf(1), math.Inf(-1), 0.0
	for _, t := range b.temps {
		minTemp = math.Min(minTemp, t)
		maxTemp = math.Max(maxTemp, t)
		sumTemp += t
	}

	sumHumidity := 0
	for _, h := range b.humidity {
		sumHumidity += h
	}

	maxWind := 0.0
	for _, w := range b.windSpeeds {
		maxWind = math.Max(maxWind, w)
	}

	icon := mostCommon(b.icons)
	description := mostCommon(b.descriptions)

	main := ""
	if fields := strings.Fields(description); len(fields) > 0 {
		main = titleCase(fields[0])
	}

	n := float64(len(b.temps))
	return weather.ForecastEntry{
		Date:               b.date.Format("Mon, Jan 02"),
		DateFull:           b.date.Format("2006-01-02"),
		TempMin:            roundInt(minTemp),
		TempMax:            roundInt(maxTemp),
		TempAvg:            roundInt(sumTemp / n),
		Humidity:           roundInt(float64(sumHumidity) / n),
		WindSpeed:          math.Round(maxWind*10) / 10,
		WeatherIcon:        icon,
		IconURL:            weather.IconURL(icon),
		WeatherDescription: titleCase(description),
		WeatherMain:        main,
	}
}

// mostCommon returns the most frequent value; the earliest one wins ties.
func mostCommon(values []string) string {
	counts := make(map[string]int, len(values))
	best, bestCount := "", 0
	for _, v := range values {
		counts[v]++
	}
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

func titleCase(s string) string {
	// A Caser is stateful, so one is built per call.
	return cases.Title(language.English).String(s)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func clockTime(unix int64, offsetSeconds int) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix+int64(offsetSeconds), 0).UTC().Format("15:04")
}
