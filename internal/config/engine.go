package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RankingWeights are the additive relevance bonuses used by the price
// arbitrator. Only their relative order is load-bearing; the defaults
// mirror the values the system has always shipped with.
type RankingWeights struct {
	MarketMatch    int `yaml:"market_match"`    // Requested place appears in the market name
	DistrictMatch  int `yaml:"district_match"`  // Requested place appears in the district
	StateMatch     int `yaml:"state_match"`     // Record is in the requested state
	HomeState      int `yaml:"home_state"`      // Requester's home state
	NeighborState  int `yaml:"neighbor_state"`  // State adjacent to the requester's home
	HomeDistrict   int `yaml:"home_district"`   // Requester's own district
	NearbyDistrict int `yaml:"nearby_district"` // District adjacent to the requester's
	Freshness      int `yaml:"freshness"`       // Newest arrival date seen in the batch
}

// EngineConfig holds the tunable policy of the price arbitrator: source
// selection lists, tie-break priority, commodity synonyms and ranking
// weights. Loaded once at startup, read-only thereafter.
type EngineConfig struct {
	Weights RankingWeights `yaml:"weights"`

	// LiveCoverageStates have good live-API coverage; the live source is
	// tried first for them (and whenever no state was resolved).
	LiveCoverageStates []string `yaml:"live_coverage_states"`

	// PreferFallbackStates have poor live coverage; the live source is
	// skipped and the bundled snapshot wins outright when it has rows.
	PreferFallbackStates []string `yaml:"prefer_fallback_states"`

	// StatePriority breaks score ties deterministically
	StatePriority []string `yaml:"state_priority"`

	// HomeCities mark requesters whose records get Krishna-basin affinity
	HomeCities      []string `yaml:"home_cities"`
	NearbyDistricts []string `yaml:"nearby_districts"`

	CommoditySynonyms map[string][]string `yaml:"commodity_synonyms"`

	LiveRowLimit int `yaml:"live_row_limit"`
}

// DefaultEngineConfig returns the built-in arbitrator policy
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Weights: RankingWeights{
			MarketMatch:    50000,
			DistrictMatch:  30000,
			StateMatch:     20000,
			HomeState:      20000,
			NeighborState:  15000,
			HomeDistrict:   15000,
			NearbyDistrict: 10000,
			Freshness:      5000,
		},
		LiveCoverageStates:   []string{"Bihar", "Gujarat", "Haryana", "Jammu and Kashmir", "Kerala", "Uttarakhand"},
		PreferFallbackStates: []string{"Andhra Pradesh", "Telangana"},
		StatePriority:        []string{"Andhra Pradesh", "Telangana", "Karnataka", "Tamil Nadu", "Kerala"},
		HomeCities:           []string{"vijayawada", "guntur", "tirupati"},
		NearbyDistricts:      []string{"Guntur", "West Godavari", "East Godavari"},
		CommoditySynonyms: map[string][]string{
			"tomato":    {"Tomato"},
			"onion":     {"Onion"},
			"potato":    {"Potato"},
			"rice":      {"Paddy(Dhan)(Common)", "Rice"},
			"wheat":     {"Wheat"},
			"cotton":    {"Cotton"},
			"groundnut": {"Groundnut"},
			"maize":     {"Maize"},
			"chilli":    {"Dry Chillies", "Green Chilli"},
			"turmeric":  {"Turmeric"},
			"banana":    {"Banana"},
			"mango":     {"Mango"},
			"coconut":   {"Coconut"},
		},
		LiveRowLimit: 1000,
	}
}

// LoadEngineConfig returns the defaults, overlaid with a YAML file when a
// path is given.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading engine config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing engine config: %w", err)
	}
	return cfg, nil
}
