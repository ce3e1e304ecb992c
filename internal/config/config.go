package config

import "os"

// Config holds server and external-service configuration
type Config struct {
	HTTPPort      string
	RedisAddr     string
	WeatherAPIKey string
	WeatherBase   string
	MarketAPIKey  string
	MarketBase    string
	EnginePath    string // Optional YAML file overriding engine defaults
	FallbackCSV   string // Optional path overriding the embedded price snapshot
}

// Load reads configuration from the environment with defaults
func Load() *Config {
	return &Config{
		HTTPPort:      getEnv("PORT", "8080"),
		RedisAddr:     getEnv("REDIS_URI", ""),
		WeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		WeatherBase:   getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		MarketAPIKey:  getEnv("DATA_GOV_API_KEY", ""),
		MarketBase:    getEnv("DATA_GOV_BASE_URL", "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"),
		EnginePath:    getEnv("ENGINE_CONFIG", ""),
		FallbackCSV:   getEnv("FALLBACK_PRICES_CSV", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
