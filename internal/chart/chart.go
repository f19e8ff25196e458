// Package chart builds the temperature trend chart for a forecast, as a
// Chart.js line chart configuration the dashboard front end renders as-is.
package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

var ErrUnknownTheme = errors.New("unknown theme")

// ParseTheme accepts "light" or "dark"; an empty string selects Light.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case "", Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
}

const (
	highColor     = "#f59e0b"
	highFillColor = "rgba(245, 158, 11, 0.1)"
	lowColor      = "#3b82f6"
	lowFillColor  = "rgba(59, 130, 246, 0.1)"
	fontFamily    = "'Inter', sans-serif"
)

type palette struct {
	Text          string
	Grid          string
	TooltipBg     string
	TooltipBorder string
}

func paletteFor(theme Theme) palette {
	if theme == Dark {
		return palette{
			Text:          "#f1f5f9",
			Grid:          "rgba(255, 255, 255, 0.1)",
			TooltipBg:     "rgba(30, 41, 59, 0.9)",
			TooltipBorder: "rgba(255, 255, 255, 0.1)",
		}
	}
	return palette{
		Text:          "#1a202c",
		Grid:          "rgba(0, 0, 0, 0.1)",
		TooltipBg:     "rgba(255, 255, 255, 0.9)",
		TooltipBorder: "rgba(0, 0, 0, 0.1)",
	}
}

type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label                string  `json:"label"`
	Data                 []int   `json:"data"`
	BorderColor          string  `json:"borderColor"`
	BackgroundColor      string  `json:"backgroundColor"`
	BorderWidth          int     `json:"borderWidth"`
	Tension              float64 `json:"tension"`
	Fill                 bool    `json:"fill"`
	PointBackgroundColor string  `json:"pointBackgroundColor"`
	PointBorderColor     string  `json:"pointBorderColor"`
	PointBorderWidth     int     `json:"pointBorderWidth"`
	PointRadius          int     `json:"pointRadius"`
	PointHoverRadius     int     `json:"pointHoverRadius"`
}

type Font struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
}

type Options struct {
	Responsive          bool        `json:"responsive"`
	MaintainAspectRatio bool        `json:"maintainAspectRatio"`
	Interaction         Interaction `json:"interaction"`
	Plugins             Plugins     `json:"plugins"`
	Scales              Scales      `json:"scales"`
	Animation           Animation   `json:"animation"`
}

type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type Plugins struct {
	Legend  Legend  `json:"legend"`
	Tooltip Tooltip `json:"tooltip"`
}

type Legend struct {
	Position string       `json:"position"`
	Labels   LegendLabels `json:"labels"`
}

type LegendLabels struct {
	Color         string `json:"color"`
	Font          Font   `json:"font"`
	UsePointStyle bool   `json:"usePointStyle"`
	Padding       int    `json:"padding"`
}

type Tooltip struct {
	BackgroundColor string `json:"backgroundColor"`
	TitleColor      string `json:"titleColor"`
	BodyColor       string `json:"bodyColor"`
	BorderColor     string `json:"borderColor"`
	BorderWidth     int    `json:"borderWidth"`
	Padding         int    `json:"padding"`
	CornerRadius    int    `json:"cornerRadius"`
	DisplayColors   bool   `json:"displayColors"`
}

type Scales struct {
	X Axis `json:"x"`
	Y Axis `json:"y"`
}

type Axis struct {
	Grid  Grid  `json:"grid"`
	Ticks Ticks `json:"ticks"`
}

type Grid struct {
	Color      string `json:"color"`
	DrawBorder bool   `json:"drawBorder"`
}

// Ticks.Suffix is appended to every tick value by the front end.
type Ticks struct {
	Color  string `json:"color"`
	Font   Font   `json:"font"`
	Suffix string `json:"suffix,omitempty"`
}

type Animation struct {
	Duration int    `json:"duration"`
	Easing   string `json:"easing"`
}

// Temperature charts daily highs and lows of a forecast. Labels are the
// weekday part of each entry's date label.
func Temperature(forecast *weather.ForecastSet, theme Theme) Config {
	var entries []weather.ForecastEntry
	system := units.Metric
	if forecast != nil {
		entries = forecast.Forecast
		system = forecast.Units
	}

	labels := make([]string, 0, len(entries))
	highs := make([]int, 0, len(entries))
	lows := make([]int, 0, len(entries))
	for _, e := range entries {
		day, _, _ := strings.Cut(e.Date, ",")
		labels = append(labels, day)
		highs = append(highs, e.TempMax)
		lows = append(lows, e.TempMin)
	}

	symbol := units.TemperatureSymbol(system)
	p := paletteFor(theme)

	return Config{
		Type: "line",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{
				series(fmt.Sprintf("High (%s)", symbol), highs, highColor, highFillColor),
				series(fmt.Sprintf("Low (%s)", symbol), lows, lowColor, lowFillColor),
			},
		},
		Options: Options{
			Responsive:          true,
			MaintainAspectRatio: false,
			Interaction:         Interaction{Mode: "index", Intersect: false},
			Plugins: Plugins{
				Legend: Legend{
					Position: "top",
					Labels: LegendLabels{
						Color:         p.Text,
						Font:          Font{Family: fontFamily, Size: 12},
						UsePointStyle: true,
						Padding:       20,
					},
				},
				Tooltip: Tooltip{
					BackgroundColor: p.TooltipBg,
					TitleColor:      p.Text,
					BodyColor:       p.Text,
					BorderColor:     p.TooltipBorder,
					BorderWidth:     1,
					Padding:         12,
					CornerRadius:    8,
					DisplayColors:   true,
				},
			},
			Scales: Scales{
				X: axis(p, ""),
				Y: axis(p, "°"),
			},
			Animation: Animation{Duration: 1000, Easing: "easeOutQuart"},
		},
	}
}

func series(label string, data []int, color, fill string) Dataset {
	return Dataset{
		Label:                label,
		Data:                 data,
		BorderColor:          color,
		BackgroundColor:      fill,
		BorderWidth:          3,
		Tension:              0.4,
		Fill:                 true,
		PointBackgroundColor: color,
		PointBorderColor:     "#fff",
		PointBorderWidth:     2,
		PointRadius:          5,
		PointHoverRadius:     7,
	}
}

func axis(p palette, suffix string) Axis {
	return Axis{
		Grid: Grid{Color: p.Grid, DrawBorder: false},
		Ticks: Ticks{
			Color:  p.Text,
			Font:   Font{Family: fontFamily, Size: 11},
			Suffix: suffix,
		},
	}
}
