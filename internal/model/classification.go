package model

// Intent is the coarse category of what the user is asking about
type Intent string

const (
	IntentWeather           Intent = "weather"
	IntentWeatherCropAdvice Intent = "weather_and_crop_advice" // Weather with farming context (survival, protection)
	IntentPrice             Intent = "price"
	IntentCropAdvice        Intent = "crop_advice"
	IntentFinancial         Intent = "financial"
	IntentDisease           Intent = "disease"
	IntentGeneral           Intent = "general"
)

// Valid reports whether i is one of the fixed intent values
func (i Intent) Valid() bool {
	switch i {
	case IntentWeather, IntentWeatherCropAdvice, IntentPrice,
		IntentCropAdvice, IntentFinancial, IntentDisease, IntentGeneral:
		return true
	}
	return false
}

// IsPriceRelated reports whether the intent routes to the price arbitrator
func (i Intent) IsPriceRelated() bool {
	return i == IntentPrice
}

// ClassifierTier identifies which classification strategy produced a result
type ClassifierTier string

const (
	TierPrimary   ClassifierTier = "primary"   // Full inference service
	TierSecondary ClassifierTier = "secondary" // Smaller inference service, narrow intent set
	TierKeyword   ClassifierTier = "keyword"   // Deterministic word-list rules
	TierNone      ClassifierTier = "none"      // All tiers failed
)

// Classification is the extractor output for one query. It always carries
// exactly one intent; when every tier fails the intent is IntentGeneral
// with zero confidence.
type Classification struct {
	Intent         Intent         `json:"intent"`
	Commodity      string         `json:"commodity,omitempty"`
	Place          string         `json:"place,omitempty"`
	CorrectedQuery string         `json:"correctedQuery"`
	Urgent         bool           `json:"urgent,omitempty"`
	Confidence     float64        `json:"confidence"` // 0-1
	Tier           ClassifierTier `json:"tier"`
}
