package model

// Query is one user turn. Created per request, immutable.
type Query struct {
	Text     string               `json:"text"`
	Location string               `json:"location,omitempty"` // Explicit place hint, overrides extraction
	Context  *ConversationContext `json:"context,omitempty"`
}

// ConversationContext carries the little cross-turn state the caller may
// hold on the user's behalf. The engine itself persists nothing.
type ConversationContext struct {
	ConversationID string `json:"conversationId,omitempty"`
	KnownLocation  string `json:"knownLocation,omitempty"` // Last location the user resolved to
}

// Caveat flags degraded or partial results inside a StructuredAnswer.
// None of these are errors; the pipeline always answers.
type Caveat string

const (
	CaveatClassificationDegraded Caveat = "classification_degraded" // A classifier tier failed, a lower tier was used
	CaveatLocationUnresolved     Caveat = "location_unresolved"     // Place could not be mapped, ask the user
	CaveatContextPartial         Caveat = "context_partial"         // Weather or soil unavailable
	CaveatSoilDefaulted          Caveat = "soil_defaulted"          // Soil profile is the fixed default, not a table match
	CaveatNoPriceData            Caveat = "no_price_data"           // Neither price source returned rows
)

// StructuredAnswer bundles everything the response composer needs: the
// classification plus whichever context blocks were relevant to the
// detected intent, with provenance and caveats so nothing has to be
// re-derived downstream.
type StructuredAnswer struct {
	ConversationID string          `json:"conversationId"`
	Classification *Classification `json:"classification"`
	Place          *ResolvedPlace  `json:"place,omitempty"`
	NeedsLocation  bool            `json:"needsLocation,omitempty"` // Deictic query with no known location
	Weather        *WeatherSnapshot `json:"weather,omitempty"`
	WeatherError   string          `json:"weatherError,omitempty"`
	Soil           *SoilProfile    `json:"soil,omitempty"`
	Prices         *RankedResult   `json:"prices,omitempty"`
	Season         string          `json:"season,omitempty"` // Kharif / Rabi / Zaid
	Caveats        []Caveat        `json:"caveats,omitempty"`
}

// HasCaveat reports whether a specific caveat is set
func (a *StructuredAnswer) HasCaveat(c Caveat) bool {
	for _, have := range a.Caveats {
		if have == c {
			return true
		}
	}
	return false
}

// AddCaveat appends a caveat if not already present
func (a *StructuredAnswer) AddCaveat(c Caveat) {
	if !a.HasCaveat(c) {
		a.Caveats = append(a.Caveats, c)
	}
}
