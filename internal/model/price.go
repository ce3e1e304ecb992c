package model

// Provenance identifies which price data source produced a result
type Provenance string

const (
	SourceLive     Provenance = "live"     // Remote government price API
	SourceFallback Provenance = "fallback" // Bundled tabular snapshot
	SourceNone     Provenance = "none"     // No source returned rows
)

// PriceRecord is one market observation. Not persisted.
type PriceRecord struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety,omitempty"`
	ArrivalDate string `json:"arrivalDate"` // DD/MM/YYYY as published by the source
	MinPrice    int    `json:"minPrice"`    // Rupees per quintal
	MaxPrice    int    `json:"maxPrice"`
	ModalPrice  int    `json:"modalPrice"`
}

// ScoredRecord pairs a record with its computed relevance score
type ScoredRecord struct {
	PriceRecord
	Score int `json:"score"`
}

// RankedResult is the arbitrator output: records sorted non-increasingly
// by relevance score, with provenance. An empty result carries a
// human-readable message instead of an error.
type RankedResult struct {
	Records    []ScoredRecord `json:"records"`
	Source     Provenance     `json:"source"`
	Message    string         `json:"message,omitempty"`  // Set when Records is empty
	NotPrice   bool           `json:"notPrice,omitempty"` // Raw query was classified as non-price; caller routes elsewhere
	Intent     Intent         `json:"intent,omitempty"`   // Detected intent when NotPrice is set
}
