package model

import "time"

// WeatherSnapshot is point-in-time weather for a place, fetched fresh per
// query. The forecast is best-effort and may be empty.
type WeatherSnapshot struct {
	Location    string          `json:"location"` // "City, CC" as reported by the provider
	Requested   string          `json:"requested"`
	Temperature float64         `json:"temperature"` // Celsius
	Humidity    int             `json:"humidity"`    // Percent
	Description string          `json:"description"`
	WindSpeed   float64         `json:"windSpeed"` // m/s
	Pressure    int             `json:"pressure"`  // hPa
	Forecast    []ForecastEntry `json:"forecast,omitempty"`
}

// ForecastEntry is one dated entry of the short-range forecast
type ForecastEntry struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    int       `json:"humidity"`
	Description string    `json:"description"`
}
