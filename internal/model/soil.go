package model

// SoilProfile is static agronomic reference data for a place. Loaded once
// at startup, read-only thereafter.
type SoilProfile struct {
	Location      string               `json:"location"`
	SoilType      string               `json:"soilType"` // black, red, clayey, sandy, loamy
	SuitableCrops []string             `json:"suitableCrops"`
	CropGuidance  map[string]CropHints `json:"cropGuidance,omitempty"`
	Default       bool                 `json:"default"` // True when the place was not in the table and the fixed default was used
}

// CropHints are fertilizer and nutrient hints for one crop on one soil type
type CropHints struct {
	Fertilizer  string `json:"fertilizer"`
	Nitrogen    int    `json:"nitrogen"`
	Phosphorous int    `json:"phosphorous"`
	Potassium   int    `json:"potassium"`
}
