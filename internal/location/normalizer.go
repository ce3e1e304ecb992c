// Package location maps free-text place names to canonical administrative
// context. It is pure: two static tables, no side effects.
package location

import (
	"errors"
	"strings"

	"bhoomisetu/internal/model"
)

var (
	ErrEmptyInput = errors.New("location: empty input")
	ErrNotFound   = errors.New("location: place not recognized")
)

// corrections maps common misspellings to canonical spellings
var corrections = map[string]string{
	"banglore":  "bangalore",
	"bangalor":  "bangalore",
	"bangaluru": "bangalore",
	"bengaluru": "bangalore",
	"deli":      "delhi",
	"mumbay":    "mumbai",
	"chenai":    "chennai",
	"kolkatta":  "kolkata",
	"hyderabd":  "hyderabad",
	"vijayawda": "vijayawada",
	"vizag":     "visakhapatnam",
	"trupati":   "tirupati",
}

// places maps canonical city names to administrative context
var places = map[string]model.ResolvedPlace{
	"bangalore":     {Name: "bangalore", District: "Bangalore Urban", State: "Karnataka", Lat: 12.97, Lon: 77.59},
	"mysore":        {Name: "mysore", District: "Mysore", State: "Karnataka", Lat: 12.30, Lon: 76.64},
	"delhi":         {Name: "delhi", District: "New Delhi", State: "Delhi", Lat: 28.61, Lon: 77.21},
	"mumbai":        {Name: "mumbai", District: "Mumbai", State: "Maharashtra", Lat: 19.08, Lon: 72.88},
	"pune":          {Name: "pune", District: "Pune", State: "Maharashtra", Lat: 18.52, Lon: 73.86},
	"kolkata":       {Name: "kolkata", District: "Kolkata", State: "West Bengal", Lat: 22.57, Lon: 88.36},
	"chennai":       {Name: "chennai", District: "Chennai", State: "Tamil Nadu", Lat: 13.08, Lon: 80.27},
	"coimbatore":    {Name: "coimbatore", District: "Coimbatore", State: "Tamil Nadu", Lat: 11.02, Lon: 76.96},
	"hyderabad":     {Name: "hyderabad", District: "Hyderabad", State: "Telangana", Lat: 17.39, Lon: 78.49},
	"warangal":      {Name: "warangal", District: "Warangal", State: "Telangana", Lat: 17.98, Lon: 79.60},
	"vijayawada":    {Name: "vijayawada", District: "Krishna", State: "Andhra Pradesh", Lat: 16.51, Lon: 80.65},
	"visakhapatnam": {Name: "visakhapatnam", District: "Visakhapatnam", State: "Andhra Pradesh", Lat: 17.69, Lon: 83.22},
	"guntur":        {Name: "guntur", District: "Guntur", State: "Andhra Pradesh", Lat: 16.31, Lon: 80.44},
	"tirupati":      {Name: "tirupati", District: "Chittoor", State: "Andhra Pradesh", Lat: 13.63, Lon: 79.42},
	"kochi":         {Name: "kochi", District: "Ernakulam", State: "Kerala", Lat: 9.93, Lon: 76.27},
	"ahmedabad":     {Name: "ahmedabad", District: "Ahmedabad", State: "Gujarat", Lat: 23.02, Lon: 72.57},
	"patna":         {Name: "patna", District: "Patna", State: "Bihar", Lat: 25.59, Lon: 85.14},
	"lucknow":       {Name: "lucknow", District: "Lucknow", State: "Uttar Pradesh", Lat: 26.85, Lon: 80.95},
}

// deicticTerms are generic location words the caller must substitute a
// previously known location for; the normalizer never guesses.
var deicticTerms = []string{"here", "my location", "current location", "my place", "near me"}

// IsDeictic reports whether raw is a generic location reference
func IsDeictic(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, term := range deicticTerms {
		if s == term {
			return true
		}
	}
	return false
}

// CorrectSpelling fixes common misspellings of known place names. Unknown
// input passes through lowercased and trimmed.
func CorrectSpelling(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if fixed, ok := corrections[s]; ok {
		return fixed
	}
	return s
}

// Normalize resolves a raw place string to canonical administrative
// context. Deictic and unknown inputs return ErrNotFound; only empty
// input returns ErrEmptyInput.
func Normalize(raw string) (model.ResolvedPlace, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return model.ResolvedPlace{}, ErrEmptyInput
	}
	if IsDeictic(s) {
		return model.ResolvedPlace{}, ErrNotFound
	}
	s = CorrectSpelling(s)
	place, ok := places[s]
	if !ok {
		return model.ResolvedPlace{}, ErrNotFound
	}
	return place, nil
}

// Known reports whether a canonical name is present in the place table
func Known(name string) bool {
	_, ok := places[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
