package service

import "github.com/Nitinadonis1/Weather---app/internal/weather"

// Demo city templates, metric units.
var demoCities = []weather.CurrentWeather{
	{
		City:               "London",
		Country:            "GB",
		Temperature:        15,
		FeelsLike:          13,
		TempMin:            12,
		TempMax:            18,
		Humidity:           72,
		Pressure:           1015,
		WindSpeed:          3.5,
		WindDeg:            220,
		Visibility:         10,
		Clouds:             40,
		WeatherMain:        "Clouds",
		WeatherDescription: "Scattered Clouds",
		WeatherIcon:        "03d",
		Sunrise:            "06:23",
		Sunset:             "19:45",
		Timezone:           0,
		DT:                 1700000000,
	},
	{
		City:               "New York",
		Country:            "US",
		Temperature:        22,
		FeelsLike:          21,
		TempMin:            18,
		TempMax:            25,
		Humidity:           65,
		Pressure:           1018,
		WindSpeed:          4.2,
		WindDeg:            180,
		Visibility:         10,
		Clouds:             20,
		WeatherMain:        "Clear",
		WeatherDescription: "Clear Sky",
		WeatherIcon:        "01d",
		Sunrise:            "06:15",
		Sunset:             "19:30",
		Timezone:           -14400,
		DT:                 1700000000,
	},
	{
		City:               "Tokyo",
		Country:            "JP",
		Temperature:        28,
		FeelsLike:          31,
		TempMin:            25,
		TempMax:            30,
		Humidity:           80,
		Pressure:           1010,
		WindSpeed:          2.8,
		WindDeg:            90,
		Visibility:         8,
		Clouds:             60,
		WeatherMain:        "Rain",
		WeatherDescription: "Light Rain",
		WeatherIcon:        "10d",
		Sunrise:            "05:30",
		Sunset:             "18:15",
		Timezone:           32400,
		DT:                 1700000000,
	},
	{
		City:               "Paris",
		Country:            "FR",
		Temperature:        18,
		FeelsLike:          17,
		TempMin:            15,
		TempMax:            21,
		Humidity:           68,
		Pressure:           1020,
		WindSpeed:          3.0,
		WindDeg:            270,
		Visibility:         10,
		Clouds:             30,
		WeatherMain:        "Clear",
		WeatherDescription: "Few Clouds",
		WeatherIcon:        "02d",
		Sunrise:            "06:45",
		Sunset:             "20:00",
		Timezone:           3600,
		DT:                 1700000000,
	},
	{
		City:               "Sydney",
		Country:            "AU",
		Temperature:        25,
		FeelsLike:          26,
		TempMin:            22,
		TempMax:            28,
		Humidity:           55,
		Pressure:           1015,
		WindSpeed:          5.5,
		WindDeg:            120,
		Visibility:         10,
		Clouds:             10,
		WeatherMain:        "Clear",
		WeatherDescription: "Sunny",
		WeatherIcon:        "01d",
		Sunrise:            "06:00",
		Sunset:             "19:45",
		Timezone:           36000,
		DT:                 1700000000,
	},
}

type condition struct {
	Icon        string
	Description string
	Main        string
}

// Icon and description share one index so they always describe the same sky.
var demoConditions = []condition{
	{Icon: "01d", Description: "Sunny", Main: "Clear"},
	{Icon: "02d", Description: "Few Clouds", Main: "Clouds"},
	{Icon: "03d", Description: "Scattered Clouds", Main: "Clouds"},
	{Icon: "04d", Description: "Broken Clouds", Main: "Clouds"},
	{Icon: "09d", Description: "Light Rain", Main: "Rain"},
	{Icon: "10d", Description: "Showers", Main: "Rain"},
}
