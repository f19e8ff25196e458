package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Nitinadonis1/Weather---app/internal/config"
	"github.com/Nitinadonis1/Weather---app/internal/service"
	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
)

const (
	outputJSON = "json"
	outputText = "text"
)

type lookupFlags struct {
	city   string
	units  string
	output string
}

func (f *lookupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.city, "city", "", "city name (default: weather.default_city)")
	cmd.Flags().StringVarP(&f.units, "units", "u", "", "metric or imperial (default: weather.default_units)")
	cmd.Flags().StringVarP(&f.output, "output", "o", outputText, "output format: text or json")
}

// resolve fills in configured defaults and validates the flags.
func (f *lookupFlags) resolve(cfg *config.Config) (string, units.System, error) {
	switch f.output {
	case outputJSON, outputText:
	default:
		return "", "", fmt.Errorf("unknown output format %q", f.output)
	}

	city := f.city
	if city == "" {
		city = cfg.Weather.DefaultCity
	}

	raw := f.units
	if raw == "" {
		raw = cfg.Weather.DefaultUnits
	}
	system, err := units.ParseSystem(raw)
	if err != nil {
		return "", "", err
	}
	return city, system, nil
}

func currentCmd() *cobra.Command {
	var flags lookupFlags
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Print current weather for a city",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			city, system, err := flags.resolve(cfg)
			if err != nil {
				return err
			}

			svc, err := service.New(cfg.Weather, log.Logger, tele)
			if err != nil {
				return err
			}

			data, err := svc.CurrentWeather(cmd.Context(), city, system)
			if err != nil {
				return err
			}
			return renderCurrent(cmd.OutOrStdout(), data, flags.output)
		},
	}
	flags.register(cmd)
	return cmd
}

func forecastCmd() *cobra.Command {
	var flags lookupFlags
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print the five-day forecast for a city",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			city, system, err := flags.resolve(cfg)
			if err != nil {
				return err
			}

			svc, err := service.New(cfg.Weather, log.Logger, tele)
			if err != nil {
				return err
			}

			data, err := svc.Forecast(cmd.Context(), city, system)
			if err != nil {
				return err
			}
			return renderForecast(cmd.OutOrStdout(), data, flags.output)
		},
	}
	flags.register(cmd)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCurrent(w io.Writer, data *weather.CurrentWeather, format string) error {
	if format == outputJSON {
		return writeJSON(w, data)
	}

	symbol := units.TemperatureSymbol(data.Units)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s, %s\n", data.City, data.Country)
	if data.Fallback {
		fmt.Fprintln(tw, "(city not in demo data, showing default city)")
	}
	fmt.Fprintf(tw, "Conditions:\t%s\n", data.WeatherDescription)
	fmt.Fprintf(tw, "Temperature:\t%d%s (feels like %d%s)\n", data.Temperature, symbol, data.FeelsLike, symbol)
	fmt.Fprintf(tw, "Low / High:\t%d%s / %d%s\n", data.TempMin, symbol, data.TempMax, symbol)
	fmt.Fprintf(tw, "Humidity:\t%d%%\n", data.Humidity)
	fmt.Fprintf(tw, "Wind:\t%.1f %s\n", data.WindSpeed, units.WindSpeedUnit(data.Units))
	fmt.Fprintf(tw, "Pressure:\t%d hPa\n", data.Pressure)
	fmt.Fprintf(tw, "Sunrise / Sunset:\t%s / %s\n", data.Sunrise, data.Sunset)
	return tw.Flush()
}

func renderForecast(w io.Writer, data *weather.ForecastSet, format string) error {
	if format == outputJSON {
		return writeJSON(w, data)
	}

	symbol := units.TemperatureSymbol(data.Units)
	fmt.Fprintf(w, "%s, %s\n", data.City, data.Country)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tLOW\tHIGH\tAVG\tHUMIDITY\tWIND\tCONDITIONS")
	for _, day := range data.Forecast {
		fmt.Fprintf(tw, "%s\t%d%s\t%d%s\t%d%s\t%d%%\t%.1f %s\t%s\n",
			day.Date,
			day.TempMin, symbol,
			day.TempMax, symbol,
			day.TempAvg, symbol,
			day.Humidity,
			day.WindSpeed, units.WindSpeedUnit(data.Units),
			day.WeatherDescription)
	}
	return tw.Flush()
}
