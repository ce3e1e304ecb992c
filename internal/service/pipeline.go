package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"bhoomisetu/internal/cache"
	"bhoomisetu/internal/location"
	"bhoomisetu/internal/model"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyQuery = errors.New("query text is empty")

// WeatherProvider fetches a point-in-time weather snapshot
type WeatherProvider interface {
	Snapshot(ctx context.Context, place string) (*model.WeatherSnapshot, error)
}

// SoilProvider serves static soil reference data
type SoilProvider interface {
	Lookup(place string) *model.SoilProfile
}

// PriceResolver arbitrates and ranks commodity prices
type PriceResolver interface {
	ResolvePrices(ctx context.Context, commodity, place, rawQuery string) *model.RankedResult
}

// Pipeline runs one query end to end: classify, resolve the place, gather
// context concurrently, and bundle everything into a StructuredAnswer.
// Per-source failures degrade the answer with caveats; the only error the
// pipeline itself returns is an empty query.
type Pipeline struct {
	classifier Classifier
	weather    WeatherProvider
	soil       SoilProvider
	prices     PriceResolver
	places     cache.PlaceCache
	now        func() time.Time
}

func NewPipeline(classifier Classifier, weather WeatherProvider, soil SoilProvider, prices PriceResolver, places cache.PlaceCache) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		weather:    weather,
		soil:       soil,
		prices:     prices,
		places:     places,
		now:        time.Now,
	}
}

// AnswerQuery processes one user turn. The explicit location, when given,
// overrides anything extracted from the text; the conversation context
// supplies the last known location for deictic queries.
func (p *Pipeline) AnswerQuery(ctx context.Context, text, explicitLocation string, conv *model.ConversationContext) (*model.StructuredAnswer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	known := ""
	conversationID := uuid.New().String()
	if conv != nil {
		known = conv.KnownLocation
		if conv.ConversationID != "" {
			conversationID = conv.ConversationID
		}
	}

	hint := explicitLocation
	if hint == "" {
		hint = known
	}
	c := p.classifier.Classify(ctx, text, hint)

	answer := &model.StructuredAnswer{
		ConversationID: conversationID,
		Classification: c,
		Season:         CurrentSeason(p.now()),
	}
	if c.Tier != model.TierPrimary {
		answer.AddCaveat(model.CaveatClassificationDegraded)
	}

	raw := effectivePlace(explicitLocation, c.Place, known)
	if raw == "" {
		answer.NeedsLocation = true
		answer.AddCaveat(model.CaveatLocationUnresolved)
	} else {
		place := p.resolvePlace(ctx, raw)
		if place == nil {
			answer.AddCaveat(model.CaveatLocationUnresolved)
		}
		answer.Place = place
	}

	g, gctx := errgroup.WithContext(ctx)
	if answer.Place != nil {
		place := *answer.Place
		g.Go(func() error {
			snap, err := p.weather.Snapshot(gctx, place.Name)
			if err != nil {
				log.Printf("[Pipeline] weather unavailable for %q: %v", place.Name, err)
				answer.WeatherError = "weather data unavailable"
				return nil
			}
			answer.Weather = snap
			return nil
		})
		answer.Soil = p.soil.Lookup(place.Name)
	}
	if c.Intent.IsPriceRelated() {
		g.Go(func() error {
			answer.Prices = p.prices.ResolvePrices(gctx, c.Commodity, raw, "")
			return nil
		})
	}
	g.Wait()

	if answer.WeatherError != "" {
		answer.AddCaveat(model.CaveatContextPartial)
	}
	if answer.Soil != nil && answer.Soil.Default {
		answer.AddCaveat(model.CaveatSoilDefaulted)
	}
	if answer.Prices != nil && len(answer.Prices.Records) == 0 {
		answer.AddCaveat(model.CaveatNoPriceData)
	}
	return answer, nil
}

// effectivePlace picks the place to use: explicit hint first, then the
// classifier extraction, then the conversation's known location. Deictic
// values defer to the known location.
func effectivePlace(explicit, extracted, known string) string {
	for _, candidate := range []string{explicit, extracted} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if location.IsDeictic(candidate) {
			break
		}
		return candidate
	}
	return strings.TrimSpace(known)
}

// resolvePlace normalizes via the place cache. Cache errors are logged and
// treated as misses; an unresolvable place returns nil.
func (p *Pipeline) resolvePlace(ctx context.Context, raw string) *model.ResolvedPlace {
	if cached, err := p.places.Get(ctx, raw); err != nil {
		log.Printf("[Pipeline] place cache get failed for %q: %v", raw, err)
	} else if cached != nil {
		return cached
	}

	place, err := location.Normalize(raw)
	if err != nil {
		return nil
	}
	if err := p.places.Set(ctx, raw, &place); err != nil {
		log.Printf("[Pipeline] place cache set failed for %q: %v", raw, err)
	}
	return &place
}
