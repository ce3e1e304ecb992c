package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"bhoomisetu/internal/config"
	"bhoomisetu/internal/location"
	"bhoomisetu/internal/model"
)

// ClassifierService extracts structured intent from free-text farmer
// queries. It tries the primary inference tier, then the secondary, and
// always lands on the deterministic keyword tier, so classification never
// fails outright.
type ClassifierService struct {
	cfg       *config.AIConfig
	chat      *chatClient
	commodity []string // Known commodity terms, longest first
	now       func() time.Time
}

// NewClassifierService creates a classifier. The engine config supplies
// the commodity vocabulary shared with the price arbitrator.
func NewClassifierService(ai *config.AIConfig, engine *config.EngineConfig) *ClassifierService {
	terms := make([]string, 0, len(engine.CommoditySynonyms))
	for term := range engine.CommoditySynonyms {
		terms = append(terms, term)
	}
	// Longest first so "groundnut" wins over "nut" style prefixes
	sort.Slice(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })

	return &ClassifierService{
		cfg:       ai,
		chat:      newChatClient(ai.TimeoutMS),
		commodity: terms,
		now:       time.Now,
	}
}

// Classify returns exactly one classification for the query. Tier order is
// primary inference, secondary inference, keyword matching; a tier that
// errors or replies with malformed JSON is logged and skipped.
func (s *ClassifierService) Classify(ctx context.Context, query, knownLocation string) *model.Classification {
	if err := ctx.Err(); err != nil {
		log.Printf("[Classifier] context done before classification: %v", err)
		return &model.Classification{Intent: model.IntentGeneral, Tier: model.TierNone}
	}

	if s.cfg.Primary.IsEnabled() {
		c, err := s.classifyWithTier(ctx, &s.cfg.Primary, model.TierPrimary, fullIntentEnum, query, knownLocation)
		if err == nil {
			return c
		}
		log.Printf("[Classifier] primary tier failed: %v", err)
	}

	if s.cfg.Secondary.IsEnabled() {
		c, err := s.classifyWithTier(ctx, &s.cfg.Secondary, model.TierSecondary, narrowIntentEnum, query, knownLocation)
		if err == nil {
			return c
		}
		log.Printf("[Classifier] secondary tier failed: %v", err)
	}

	return s.classifyByKeywords(query)
}

// tierReply is the JSON contract both inference tiers are prompted to
// return. Null fields unmarshal to their zero values.
type tierReply struct {
	Intent         string  `json:"intent"`
	Commodity      string  `json:"commodity"`
	Location       string  `json:"location"`
	CorrectedQuery string  `json:"corrected_query"`
	Urgent         bool    `json:"urgent"`
	Confidence     float64 `json:"confidence"`
}

func (s *ClassifierService) classifyWithTier(ctx context.Context, tier *config.InferenceTier, name model.ClassifierTier, intents, query, knownLocation string) (*model.Classification, error) {
	reply, err := s.chat.complete(ctx, tier, s.systemPrompt(intents, knownLocation), query)
	if err != nil {
		return nil, err
	}

	block, err := extractJSONBlock(reply)
	if err != nil {
		return nil, err
	}

	var parsed tierReply
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return nil, fmt.Errorf("decoding %s reply: %w", name, err)
	}

	intent := model.Intent(strings.ToLower(strings.TrimSpace(parsed.Intent)))
	if !intent.Valid() {
		return nil, fmt.Errorf("%s returned unknown intent %q", name, parsed.Intent)
	}

	corrected := strings.TrimSpace(parsed.CorrectedQuery)
	if corrected == "" {
		corrected = query
	}
	confidence := parsed.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 0.5
	}

	return &model.Classification{
		Intent:         intent,
		Commodity:      strings.ToLower(strings.TrimSpace(parsed.Commodity)),
		Place:          location.CorrectSpelling(parsed.Location),
		CorrectedQuery: corrected,
		Urgent:         parsed.Urgent,
		Confidence:     confidence,
		Tier:           name,
	}, nil
}

// Intent enums offered to the tiers. The secondary model is smaller, so
// it gets the narrow set the original routing actually needs from it.
const (
	fullIntentEnum   = `"weather", "weather_and_crop_advice", "price", "crop_advice", "financial", "disease", "general"`
	narrowIntentEnum = `"price", "weather", "weather_and_crop_advice", "general"`
)

func (s *ClassifierService) systemPrompt(intents, knownLocation string) string {
	now := s.now()
	var b strings.Builder
	b.WriteString("You are an agricultural query classifier for Indian farmers.\n")
	fmt.Fprintf(&b, "Today is %s. Current crop season: %s.\n", now.Format("2 January 2006"), CurrentSeason(now))
	if knownLocation != "" {
		fmt.Fprintf(&b, "The farmer's known location is %s.\n", knownLocation)
	}
	fmt.Fprintf(&b, `Classify the query and reply with ONLY a JSON object:
{"intent": one of [%s],
"commodity": crop or commodity name in English lowercase, or null,
"location": place name with spelling corrected, or null,
"corrected_query": the query with typos fixed,
"urgent": true if the farmer needs help today,
"confidence": 0.0 to 1.0}
Use "weather_and_crop_advice" when the query mixes weather with farming decisions.
Fix common typos: "tomaot" means tomato, "banglor" means bangalore.
Reply with the JSON object and nothing else.`, intents)
	return b.String()
}

// Keyword sets for the deterministic tier. Matching precedence is fixed:
// price, weather, crop advice, financial, disease, then general.
var (
	priceKeywords   = []string{"price", "rate", "market", "mandi", "cost", "sell", "selling"}
	weatherKeywords = []string{"weather", "rain", "rainfall", "temperature", "climate", "forecast", "humidity", "monsoon"}
	cropKeywords    = []string{"crop", "seed", "variety", "sow", "sowing", "plant", "planting", "harvest", "irrigation", "fertilizer"}
	financeKeywords = []string{"loan", "credit", "scheme", "subsidy", "insurance", "finance", "pm-kisan"}
	diseaseKeywords = []string{"disease", "pest", "fungus", "blight", "insect", "spray", "infection", "wilt"}
	locationMarkers = []string{" in ", " at ", " near "}
)

// commodityCorrections covers misspellings the deterministic tier fixes
// itself; the inference tiers handle anything beyond these.
var commodityCorrections = map[string]string{
	"tomaot":   "tomato",
	"tomatoe":  "tomato",
	"tamatar":  "tomato",
	"oniun":    "onion",
	"potatoe":  "potato",
	"chili":    "chilli",
	"chillies": "chilli",
}

// classifyByKeywords is the always-available last tier. Deterministic,
// fixed confidence, no network.
func (s *ClassifierService) classifyByKeywords(query string) *model.Classification {
	lowered := correctWords(strings.ToLower(query))

	intent := model.IntentGeneral
	switch {
	case containsAny(lowered, priceKeywords):
		intent = model.IntentPrice
	case containsAny(lowered, weatherKeywords):
		intent = model.IntentWeather
		if containsAny(lowered, cropKeywords) {
			intent = model.IntentWeatherCropAdvice
		}
	case containsAny(lowered, cropKeywords):
		intent = model.IntentCropAdvice
	case containsAny(lowered, financeKeywords):
		intent = model.IntentFinancial
	case containsAny(lowered, diseaseKeywords):
		intent = model.IntentDisease
	}

	return &model.Classification{
		Intent:         intent,
		Commodity:      s.extractCommodity(lowered),
		Place:          extractPlace(lowered),
		CorrectedQuery: lowered,
		Confidence:     0.5,
		Tier:           model.TierKeyword,
	}
}

func (s *ClassifierService) extractCommodity(lowered string) string {
	for _, term := range s.commodity {
		if strings.Contains(lowered, term) {
			return term
		}
	}
	return ""
}

// extractPlace picks the word after "in"/"at"/"near", or any known place
// name appearing anywhere in the query.
func extractPlace(lowered string) string {
	for _, marker := range locationMarkers {
		idx := strings.Index(lowered, marker)
		if idx < 0 {
			continue
		}
		rest := strings.Fields(lowered[idx+len(marker):])
		if len(rest) > 0 {
			candidate := strings.Trim(rest[0], ".,!?")
			if candidate != "" {
				return location.CorrectSpelling(candidate)
			}
		}
	}
	for _, word := range strings.Fields(lowered) {
		word = strings.Trim(word, ".,!?")
		if location.Known(location.CorrectSpelling(word)) {
			return location.CorrectSpelling(word)
		}
	}
	return ""
}

// correctWords fixes place and commodity misspellings one word at a time,
// leaving punctuation attached to the word intact.
func correctWords(lowered string) string {
	words := strings.Fields(lowered)
	for i, w := range words {
		trimmed := strings.Trim(w, ".,!?")
		fixed, ok := commodityCorrections[trimmed]
		if !ok {
			fixed = location.CorrectSpelling(trimmed)
		}
		if fixed != trimmed {
			words[i] = strings.Replace(w, trimmed, fixed, 1)
		}
	}
	return strings.Join(words, " ")
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// CurrentSeason maps a date to the Indian crop season.
func CurrentSeason(t time.Time) string {
	switch m := t.Month(); {
	case m >= time.June && m <= time.September:
		return "Kharif"
	case m >= time.October || m <= time.March:
		return "Rabi"
	default:
		return "Zaid"
	}
}
