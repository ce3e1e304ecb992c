package model

// ResolvedPlace is a normalized location. Normalizing an already-canonical
// name returns it unchanged.
type ResolvedPlace struct {
	Name     string  `json:"name"`     // Canonical lowercase city name
	District string  `json:"district"` // Administrative sub-region
	State    string  `json:"state"`    // Administrative region
	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
}
