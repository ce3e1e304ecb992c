package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"bhoomisetu/internal/config"
	"bhoomisetu/internal/location"
	"bhoomisetu/internal/model"
)

const arrivalDateLayout = "02/01/2006"

// Classifier extracts structured intent from raw query text
type Classifier interface {
	Classify(ctx context.Context, query, knownLocation string) *model.Classification
}

// PriceService arbitrates between the live price feed and the bundled
// snapshot, then ranks whichever rows it kept by deterministic relevance.
type PriceService struct {
	cfg        *config.EngineConfig
	classifier Classifier
	live       LiveSource
	fallback   *FallbackDataset
}

func NewPriceService(cfg *config.EngineConfig, classifier Classifier, live LiveSource, fallback *FallbackDataset) *PriceService {
	return &PriceService{cfg: cfg, classifier: classifier, live: live, fallback: fallback}
}

// ResolvePrices answers a price request. Callers pass either a
// pre-extracted commodity and place, or a raw query to be classified
// first; a raw query classified as non-price returns NotPrice so the
// caller can route it elsewhere. The result is never an error: an empty
// result carries a message instead.
func (s *PriceService) ResolvePrices(ctx context.Context, commodity, place, rawQuery string) *model.RankedResult {
	if commodity == "" && place == "" && rawQuery != "" {
		c := s.classifier.Classify(ctx, rawQuery, "")
		if !c.Intent.IsPriceRelated() {
			return &model.RankedResult{Source: model.SourceNone, NotPrice: true, Intent: c.Intent}
		}
		commodity = c.Commodity
		place = c.Place
	}

	target, resolved := s.resolveTarget(place)

	var liveRanked []model.ScoredRecord
	liveTried := false
	if s.shouldTryLive(target.State) && s.live != nil && s.live.IsConfigured() {
		liveTried = true
		rows, err := s.live.Fetch(ctx, commodity, target.State, s.cfg.LiveRowLimit)
		if err != nil {
			log.Printf("[Price] live feed failed for %q: %v", commodity, err)
		} else {
			liveRanked = s.rank(rows, target, resolved, place)
		}
	}

	stateFilter := target.State
	if !resolved {
		stateFilter = place
	}
	fallbackRanked := s.rank(s.fallback.Query(commodity, stateFilter), target, resolved, place)
	if len(fallbackRanked) == 0 && stateFilter != "" {
		// Region filter may be a city name the snapshot cannot match on
		fallbackRanked = s.rank(s.fallback.Query(commodity, ""), target, resolved, place)
	}

	switch {
	case s.prefersFallback(target.State) && len(fallbackRanked) > 0:
		return &model.RankedResult{Records: fallbackRanked, Source: model.SourceFallback}
	case liveTried && len(liveRanked) > 0:
		return &model.RankedResult{Records: liveRanked, Source: model.SourceLive}
	case len(fallbackRanked) > 0:
		return &model.RankedResult{Records: fallbackRanked, Source: model.SourceFallback}
	}

	where := place
	if where == "" {
		where = "your area"
	}
	return &model.RankedResult{
		Source:  model.SourceNone,
		Message: fmt.Sprintf("no price data available for %s in %s", commodity, where),
	}
}

// resolveTarget maps a free-text place to administrative context. When the
// place is unknown the zero value is returned with resolved false and the
// raw text is used downstream as a loose filter.
func (s *PriceService) resolveTarget(place string) (model.ResolvedPlace, bool) {
	if strings.TrimSpace(place) == "" {
		return model.ResolvedPlace{}, false
	}
	target, err := location.Normalize(place)
	if err != nil {
		return model.ResolvedPlace{}, false
	}
	return target, true
}

// shouldTryLive implements source selection: states with known live
// coverage and states on neither list consult the live feed; only
// prefer-fallback states skip it. An unresolved state always tries live.
func (s *PriceService) shouldTryLive(state string) bool {
	if state == "" || containsFold(s.cfg.LiveCoverageStates, state) {
		return true
	}
	return !containsFold(s.cfg.PreferFallbackStates, state)
}

// prefersFallback reports whether the snapshot wins outright for the state
func (s *PriceService) prefersFallback(state string) bool {
	return state != "" && containsFold(s.cfg.PreferFallbackStates, state)
}

// rank scores every record and sorts non-increasingly by score. Ties break
// by configured state priority, then by modal price ascending, so equal
// inputs always produce the same order.
func (s *PriceService) rank(records []model.PriceRecord, target model.ResolvedPlace, resolved bool, rawPlace string) []model.ScoredRecord {
	if len(records) == 0 {
		return nil
	}

	newest := newestArrival(records)
	requested := strings.ToLower(target.Name)
	if requested == "" {
		requested = strings.ToLower(strings.TrimSpace(rawPlace))
	}
	homeRequester := resolved && containsFold(s.cfg.HomeCities, target.Name)
	w := s.cfg.Weights

	scored := make([]model.ScoredRecord, 0, len(records))
	for _, rec := range records {
		score := 0
		market := strings.ToLower(rec.Market)
		district := strings.ToLower(rec.District)

		if requested != "" {
			switch {
			case strings.Contains(market, requested):
				score += w.MarketMatch
			case strings.Contains(district, requested):
				score += w.DistrictMatch
			}
		}
		if resolved && strings.EqualFold(rec.State, target.State) {
			score += w.StateMatch
		}
		if resolved && strings.EqualFold(rec.District, target.District) && !strings.Contains(market, requested) {
			score += w.HomeDistrict
		}
		if homeRequester {
			switch {
			case strings.EqualFold(rec.State, "Andhra Pradesh"):
				score += w.HomeState
			case strings.EqualFold(rec.State, "Telangana"):
				score += w.NeighborState
			}
			if containsFold(s.cfg.NearbyDistricts, rec.District) {
				score += w.NearbyDistrict
			}
		}
		if !newest.IsZero() {
			if d, err := time.Parse(arrivalDateLayout, rec.ArrivalDate); err == nil && d.Equal(newest) {
				score += w.Freshness
			}
		}
		scored = append(scored, model.ScoredRecord{PriceRecord: rec, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		pi, pj := s.statePriority(scored[i].State), s.statePriority(scored[j].State)
		if pi != pj {
			return pi < pj
		}
		return scored[i].ModalPrice < scored[j].ModalPrice
	})
	return scored
}

// statePriority returns the index in the configured priority list, or a
// value past the end for unlisted states.
func (s *PriceService) statePriority(state string) int {
	for i, name := range s.cfg.StatePriority {
		if strings.EqualFold(name, state) {
			return i
		}
	}
	return len(s.cfg.StatePriority)
}

// newestArrival returns the latest parseable arrival date in the batch
func newestArrival(records []model.PriceRecord) time.Time {
	var newest time.Time
	for _, rec := range records {
		d, err := time.Parse(arrivalDateLayout, rec.ArrivalDate)
		if err != nil {
			continue
		}
		if d.After(newest) {
			newest = d
		}
	}
	return newest
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
