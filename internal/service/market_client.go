package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bhoomisetu/internal/config"
	"bhoomisetu/internal/model"
)

var ErrMarketNotConfigured = errors.New("market client not configured")

// LiveSource is the remote commodity price feed consulted by the price
// arbitrator.
type LiveSource interface {
	Fetch(ctx context.Context, commodity, state string, limit int) ([]model.PriceRecord, error)
	IsConfigured() bool
}

// MarketClient fetches mandi prices from the government open-data feed.
// One request, no retries; the arbitrator has the bundled snapshot to
// fall back on, so a slow feed should not stall the answer.
type MarketClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewMarketClient(cfg *config.Config) *MarketClient {
	return &MarketClient{
		baseURL: cfg.MarketBase,
		apiKey:  cfg.MarketAPIKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *MarketClient) IsConfigured() bool {
	return c.apiKey != ""
}

// liveRecord matches the feed's JSON row shape. Prices arrive as strings.
type liveRecord struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	ArrivalDate string `json:"arrival_date"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
}

type liveResponse struct {
	Records []liveRecord `json:"records"`
}

// Fetch queries the live feed filtered by commodity and, when non-empty,
// state. The commodity is title-cased to match the feed's conventions.
func (c *MarketClient) Fetch(ctx context.Context, commodity, state string, limit int) ([]model.PriceRecord, error) {
	if !c.IsConfigured() {
		return nil, ErrMarketNotConfigured
	}
	if limit <= 0 {
		limit = 100
	}

	q := url.Values{}
	q.Set("api-key", c.apiKey)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))
	if commodity != "" {
		q.Set("filters[commodity]", titleCase(commodity))
	}
	if state != "" {
		q.Set("filters[state]", titleCase(state))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating market request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling market feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading market response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market feed status %d: %s", resp.StatusCode, string(body))
	}

	var parsed liveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing market response: %w", err)
	}

	records := make([]model.PriceRecord, 0, len(parsed.Records))
	for _, r := range parsed.Records {
		records = append(records, model.PriceRecord{
			State:       strings.TrimSpace(r.State),
			District:    strings.TrimSpace(r.District),
			Market:      strings.TrimSpace(r.Market),
			Commodity:   strings.TrimSpace(r.Commodity),
			Variety:     strings.TrimSpace(r.Variety),
			ArrivalDate: strings.TrimSpace(r.ArrivalDate),
			MinPrice:    parsePrice(r.MinPrice),
			MaxPrice:    parsePrice(r.MaxPrice),
			ModalPrice:  parsePrice(r.ModalPrice),
		})
	}
	return records, nil
}

// parsePrice tolerates "1200", "1200.00" and blank values
func parsePrice(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// titleCase uppercases the first letter of each word, matching how the
// feed spells commodity and state filters.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
