package service

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"bhoomisetu/internal/model"
)

//go:embed data/soil_profiles.csv
var soilProfilesCSV []byte

// defaultSoilType is used for places missing from the soil table
const defaultSoilType = "black"

// placeSoil maps city names to their dominant soil type. Static reference
// data; places not listed here get defaultSoilType.
var placeSoil = map[string]string{
	"vijayawada":    "black",
	"guntur":        "black",
	"warangal":      "black",
	"nagpur":        "black",
	"indore":        "black",
	"hyderabad":     "red",
	"bangalore":     "red",
	"mysore":        "red",
	"tirupati":      "red",
	"visakhapatnam": "red",
	"coimbatore":    "red",
	"chennai":       "clayey",
	"kolkata":       "clayey",
	"thanjavur":     "clayey",
	"kochi":         "loamy",
	"pune":          "loamy",
	"ahmedabad":     "sandy",
	"jodhpur":       "sandy",
	"rajkot":        "sandy",
	"delhi":         "alluvial",
	"lucknow":       "alluvial",
	"patna":         "alluvial",
	"kanpur":        "alluvial",
	"varanasi":      "alluvial",
}

// SoilService serves static soil reference data loaded from the embedded
// table at startup. Lookup never fails; unknown places get the default
// profile, flagged as such.
type SoilService struct {
	crops    map[string][]string                   // soil type -> suitable crops, table order
	guidance map[string]map[string]model.CropHints // soil type -> crop -> hints
}

// NewSoilService parses the embedded soil table
func NewSoilService() (*SoilService, error) {
	s := &SoilService{
		crops:    make(map[string][]string),
		guidance: make(map[string]map[string]model.CropHints),
	}

	r := csv.NewReader(bytes.NewReader(soilProfilesCSV))
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading soil table header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"soil_type", "crop", "fertilizer", "nitrogen", "phosphorous", "potassium"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("soil table missing column %q", required)
		}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading soil table: %w", err)
		}
		soilType := strings.ToLower(strings.TrimSpace(row[col["soil_type"]]))
		crop := strings.ToLower(strings.TrimSpace(row[col["crop"]]))
		if soilType == "" || crop == "" {
			continue
		}
		s.crops[soilType] = append(s.crops[soilType], crop)
		if s.guidance[soilType] == nil {
			s.guidance[soilType] = make(map[string]model.CropHints)
		}
		s.guidance[soilType][crop] = model.CropHints{
			Fertilizer:  strings.TrimSpace(row[col["fertilizer"]]),
			Nitrogen:    atoiOrZero(row[col["nitrogen"]]),
			Phosphorous: atoiOrZero(row[col["phosphorous"]]),
			Potassium:   atoiOrZero(row[col["potassium"]]),
		}
	}

	if _, ok := s.crops[defaultSoilType]; !ok {
		return nil, fmt.Errorf("soil table has no rows for default type %q", defaultSoilType)
	}
	log.Printf("[Soil] loaded %d soil types", len(s.crops))
	return s, nil
}

// Lookup returns the soil profile for a place. Matching is by containment
// in either direction so "near guntur" and "guntur" both resolve; places
// with no match get the default profile with Default set.
func (s *SoilService) Lookup(place string) *model.SoilProfile {
	lowered := strings.ToLower(strings.TrimSpace(place))

	soilType := ""
	if lowered != "" {
		if st, ok := placeSoil[lowered]; ok {
			soilType = st
		} else {
			for city, st := range placeSoil {
				if strings.Contains(lowered, city) || strings.Contains(city, lowered) {
					soilType = st
					break
				}
			}
		}
	}

	isDefault := soilType == ""
	if isDefault {
		soilType = defaultSoilType
		log.Printf("[Soil] no soil entry for %q, using default %q", place, defaultSoilType)
	}

	return &model.SoilProfile{
		Location:      lowered,
		SoilType:      soilType,
		SuitableCrops: s.crops[soilType],
		CropGuidance:  s.guidance[soilType],
		Default:       isDefault,
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
