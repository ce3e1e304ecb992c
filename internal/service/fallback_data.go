package service

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"bhoomisetu/internal/model"
)

//go:embed data/market_prices.csv
var fallbackPricesCSV []byte

// FallbackDataset is the bundled mandi price snapshot consulted when the
// live feed is unavailable or skipped. Loaded once, read-only thereafter.
type FallbackDataset struct {
	records  []model.PriceRecord
	synonyms map[string][]string // User term -> dataset commodity spellings
}

// NewFallbackDataset loads the snapshot from path, or from the embedded
// copy when path is empty.
func NewFallbackDataset(path string, synonyms map[string][]string) (*FallbackDataset, error) {
	data := fallbackPricesCSV
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading fallback snapshot %s: %w", path, err)
		}
	}

	records, err := parsePriceCSV(data)
	if err != nil {
		return nil, err
	}
	log.Printf("[Fallback] loaded %d price records", len(records))
	return &FallbackDataset{records: records, synonyms: synonyms}, nil
}

// parsePriceCSV reads snapshot rows. The government export encodes spaces
// in price column names as "_x0020_"; both that form and plain names are
// accepted.
func parsePriceCSV(data []byte) ([]model.PriceRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading snapshot header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, "_x0020_", "_")
		key = strings.ReplaceAll(key, " ", "_")
		col[key] = i
	}
	for _, required := range []string{"state", "district", "market", "commodity", "arrival_date", "min_price", "max_price", "modal_price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("snapshot missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []model.PriceRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading snapshot row: %w", err)
		}
		rec := model.PriceRecord{
			State:       field(row, "state"),
			District:    field(row, "district"),
			Market:      field(row, "market"),
			Commodity:   field(row, "commodity"),
			ArrivalDate: field(row, "arrival_date"),
			MinPrice:    parsePrice(field(row, "min_price")),
			MaxPrice:    parsePrice(field(row, "max_price")),
			ModalPrice:  parsePrice(field(row, "modal_price")),
		}
		if i, ok := col["variety"]; ok && i < len(row) {
			rec.Variety = strings.TrimSpace(row[i])
		}
		if rec.Commodity == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Len returns the number of loaded records
func (d *FallbackDataset) Len() int {
	return len(d.records)
}

// Query returns snapshot rows matching the commodity (via the synonym
// table) and, when non-empty, a state filter applied as a case-insensitive
// substring.
func (d *FallbackDataset) Query(commodity, state string) []model.PriceRecord {
	terms := d.commodityTerms(commodity)
	stateFilter := strings.ToLower(strings.TrimSpace(state))

	var out []model.PriceRecord
	for _, rec := range d.records {
		if !matchesCommodity(rec.Commodity, terms) {
			continue
		}
		if stateFilter != "" && !strings.Contains(strings.ToLower(rec.State), stateFilter) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// commodityTerms expands a user commodity term through the synonym table.
// An empty commodity matches everything.
func (d *FallbackDataset) commodityTerms(commodity string) []string {
	c := strings.ToLower(strings.TrimSpace(commodity))
	if c == "" {
		return nil
	}
	terms := []string{c}
	for _, syn := range d.synonyms[c] {
		terms = append(terms, strings.ToLower(syn))
	}
	return terms
}

func matchesCommodity(recorded string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	lowered := strings.ToLower(recorded)
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
