package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"bhoomisetu/internal/config"
	"bhoomisetu/internal/model"

	"golang.org/x/sync/errgroup"
)

var ErrWeatherNotConfigured = errors.New("weather service not configured")

const forecastEntries = 5

// WeatherService fetches current conditions and a short forecast from
// OpenWeather. Current conditions are required; a forecast failure only
// logs and leaves the forecast empty.
type WeatherService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewWeatherService(cfg *config.Config) *WeatherService {
	return &WeatherService{
		apiKey:  cfg.WeatherAPIKey,
		baseURL: cfg.WeatherBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WeatherService) IsConfigured() bool {
	return s.apiKey != ""
}

type currentWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
		Pressure int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

// Snapshot fetches current conditions and the forecast concurrently for
// the given place name.
func (s *WeatherService) Snapshot(ctx context.Context, place string) (*model.WeatherSnapshot, error) {
	if !s.IsConfigured() {
		return nil, ErrWeatherNotConfigured
	}

	var current currentWeatherResponse
	var forecast forecastResponse
	forecastOK := true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.getJSON(gctx, "/weather", place, &current)
	})
	g.Go(func() error {
		if err := s.getJSON(gctx, "/forecast", place, &forecast); err != nil {
			// Forecast is best-effort
			log.Printf("[Weather] forecast for %q unavailable: %v", place, err)
			forecastOK = false
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching weather for %q: %w", place, err)
	}

	snap := &model.WeatherSnapshot{
		Location:    current.Name,
		Requested:   place,
		Temperature: current.Main.Temp,
		Humidity:    current.Main.Humidity,
		Pressure:    current.Main.Pressure,
		WindSpeed:   current.Wind.Speed,
	}
	if len(current.Weather) > 0 {
		snap.Description = current.Weather[0].Description
	}
	if forecastOK {
		for i, entry := range forecast.List {
			if i >= forecastEntries {
				break
			}
			fe := model.ForecastEntry{
				Time:        time.Unix(entry.Dt, 0).UTC(),
				Temperature: entry.Main.Temp,
				Humidity:    entry.Main.Humidity,
			}
			if len(entry.Weather) > 0 {
				fe.Description = entry.Weather[0].Description
			}
			snap.Forecast = append(snap.Forecast, fe)
		}
	}
	return snap, nil
}

func (s *WeatherService) getJSON(ctx context.Context, path, place string, out any) error {
	q := url.Values{}
	q.Set("q", place)
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}
