package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bhoomisetu/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentWeatherBody = `{
	"name": "Vijayawada",
	"main": {"temp": 31.4, "humidity": 72, "pressure": 1005},
	"weather": [{"description": "scattered clouds"}],
	"wind": {"speed": 3.6}
}`

const forecastBody = `{
	"list": [
		{"dt": 1754450400, "main": {"temp": 30.1, "humidity": 75}, "weather": [{"description": "light rain"}]},
		{"dt": 1754461200, "main": {"temp": 29.0, "humidity": 80}, "weather": [{"description": "light rain"}]}
	]
}`

func newWeatherTestServer(forecastStatus int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/weather":
			w.Write([]byte(currentWeatherBody))
		case "/forecast":
			if forecastStatus != http.StatusOK {
				http.Error(w, "upstream error", forecastStatus)
				return
			}
			w.Write([]byte(forecastBody))
		default:
			http.NotFound(w, r)
		}
	}))
}

func weatherServiceFor(srv *httptest.Server) *WeatherService {
	return NewWeatherService(&config.Config{
		WeatherAPIKey: "test-key",
		WeatherBase:   srv.URL,
	})
}

func TestWeatherSnapshot(t *testing.T) {
	srv := newWeatherTestServer(http.StatusOK)
	defer srv.Close()

	snap, err := weatherServiceFor(srv).Snapshot(context.Background(), "vijayawada")
	require.NoError(t, err)
	assert.Equal(t, "Vijayawada", snap.Location)
	assert.Equal(t, "vijayawada", snap.Requested)
	assert.InDelta(t, 31.4, snap.Temperature, 0.001)
	assert.Equal(t, 72, snap.Humidity)
	assert.Equal(t, "scattered clouds", snap.Description)
	require.Len(t, snap.Forecast, 2)
	assert.Equal(t, "light rain", snap.Forecast[0].Description)
}

func TestWeatherSnapshotForecastFailureIsTolerated(t *testing.T) {
	srv := newWeatherTestServer(http.StatusBadGateway)
	defer srv.Close()

	snap, err := weatherServiceFor(srv).Snapshot(context.Background(), "vijayawada")
	require.NoError(t, err, "forecast failure must not fail the snapshot")
	assert.Equal(t, "Vijayawada", snap.Location)
	assert.Empty(t, snap.Forecast)
}

func TestWeatherSnapshotUnconfigured(t *testing.T) {
	s := NewWeatherService(&config.Config{})
	_, err := s.Snapshot(context.Background(), "vijayawada")
	assert.ErrorIs(t, err, ErrWeatherNotConfigured)
}
