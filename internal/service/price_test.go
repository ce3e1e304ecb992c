package service

import (
	"context"
	"errors"
	"testing"

	"bhoomisetu/internal/config"
	"bhoomisetu/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLive struct {
	records []model.PriceRecord
	err     error
	calls   int
}

func (f *fakeLive) IsConfigured() bool { return true }

func (f *fakeLive) Fetch(ctx context.Context, commodity, state string, limit int) ([]model.PriceRecord, error) {
	f.calls++
	return f.records, f.err
}

type fakeClassifier struct {
	result *model.Classification
}

func (f *fakeClassifier) Classify(ctx context.Context, query, knownLocation string) *model.Classification {
	return f.result
}

func newTestPriceService(t *testing.T, live LiveSource) *PriceService {
	t.Helper()
	cfg := config.DefaultEngineConfig()
	fallback, err := NewFallbackDataset("", cfg.CommoditySynonyms)
	require.NoError(t, err)
	classifier := &fakeClassifier{result: &model.Classification{Intent: model.IntentGeneral}}
	return NewPriceService(cfg, classifier, live, fallback)
}

func TestResolvePricesPreferFallbackStateSkipsLive(t *testing.T) {
	live := &fakeLive{records: []model.PriceRecord{{State: "Andhra Pradesh", Market: "Live Mandi", Commodity: "Tomato", ModalPrice: 1}}}
	s := newTestPriceService(t, live)

	res := s.ResolvePrices(context.Background(), "tomato", "vijayawada", "")
	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Zero(t, live.calls, "live feed must be skipped for prefer-fallback states")
	require.NotEmpty(t, res.Records)
	assert.Equal(t, "Vijayawada", res.Records[0].Market, "requester's own market should rank first")
}

func TestResolvePricesLiveWinsElsewhere(t *testing.T) {
	live := &fakeLive{records: []model.PriceRecord{
		{State: "Karnataka", District: "Bangalore Urban", Market: "KR Market", Commodity: "Tomato", ArrivalDate: "06/08/2025", ModalPrice: 1850},
	}}
	s := newTestPriceService(t, live)

	res := s.ResolvePrices(context.Background(), "tomato", "bangalore", "")
	assert.Equal(t, model.SourceLive, res.Source)
	assert.Equal(t, 1, live.calls)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "KR Market", res.Records[0].Market)
}

func TestResolvePricesLiveFailureFallsBack(t *testing.T) {
	live := &fakeLive{err: errors.New("feed down")}
	s := newTestPriceService(t, live)

	res := s.ResolvePrices(context.Background(), "tomato", "bangalore", "")
	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, 1, live.calls)
	require.NotEmpty(t, res.Records)
	assert.Equal(t, "Bangalore Urban", res.Records[0].District, "district match should rank first")
}

func TestResolvePricesLiveEmptyFallsBack(t *testing.T) {
	live := &fakeLive{}
	s := newTestPriceService(t, live)

	res := s.ResolvePrices(context.Background(), "tomato", "chennai", "")
	assert.Equal(t, model.SourceFallback, res.Source)
	require.NotEmpty(t, res.Records)
	assert.Equal(t, "Koyambedu", res.Records[0].Market)
}

func TestResolvePricesNoData(t *testing.T) {
	s := newTestPriceService(t, nil)

	res := s.ResolvePrices(context.Background(), "saffron", "kochi", "")
	assert.Equal(t, model.SourceNone, res.Source)
	assert.Empty(t, res.Records)
	assert.Contains(t, res.Message, "saffron")
}

func TestResolvePricesRawQueryNonPrice(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	fallback, err := NewFallbackDataset("", cfg.CommoditySynonyms)
	require.NoError(t, err)
	classifier := &fakeClassifier{result: &model.Classification{Intent: model.IntentWeather, Tier: model.TierKeyword}}
	s := NewPriceService(cfg, classifier, nil, fallback)

	res := s.ResolvePrices(context.Background(), "", "", "will it rain in delhi")
	assert.True(t, res.NotPrice)
	assert.Equal(t, model.IntentWeather, res.Intent)
	assert.Equal(t, model.SourceNone, res.Source)
}

func TestResolvePricesRawQueryExtraction(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	fallback, err := NewFallbackDataset("", cfg.CommoditySynonyms)
	require.NoError(t, err)
	classifier := &fakeClassifier{result: &model.Classification{
		Intent: model.IntentPrice, Commodity: "tomato", Place: "bangalore", Tier: model.TierKeyword,
	}}
	s := NewPriceService(cfg, classifier, nil, fallback)

	res := s.ResolvePrices(context.Background(), "", "", "tomaot price in bangalor")
	assert.Equal(t, model.SourceFallback, res.Source)
	require.NotEmpty(t, res.Records)
	assert.Equal(t, "Karnataka", res.Records[0].State)
}

func TestRankingIsDeterministic(t *testing.T) {
	s := newTestPriceService(t, nil)

	first := s.ResolvePrices(context.Background(), "tomato", "vijayawada", "")
	second := s.ResolvePrices(context.Background(), "tomato", "vijayawada", "")
	require.Equal(t, len(first.Records), len(second.Records))
	for i := range first.Records {
		assert.Equal(t, first.Records[i], second.Records[i], "equal inputs must produce identical order")
	}
}

func TestRankingScoresOrderedNonIncreasing(t *testing.T) {
	s := newTestPriceService(t, nil)

	res := s.ResolvePrices(context.Background(), "tomato", "vijayawada", "")
	require.NotEmpty(t, res.Records)
	for i := 1; i < len(res.Records); i++ {
		assert.GreaterOrEqual(t, res.Records[i-1].Score, res.Records[i].Score)
	}
}

func TestRankingFreshnessBonus(t *testing.T) {
	s := newTestPriceService(t, nil)
	records := []model.PriceRecord{
		{State: "Kerala", District: "Ernakulam", Market: "A", Commodity: "Coconut", ArrivalDate: "04/08/2025", ModalPrice: 1700},
		{State: "Kerala", District: "Ernakulam", Market: "B", Commodity: "Coconut", ArrivalDate: "05/08/2025", ModalPrice: 1900},
	}

	ranked := s.rank(records, model.ResolvedPlace{}, false, "")
	require.Len(t, ranked, 2)
	assert.Equal(t, "B", ranked[0].Market, "newest arrival should rank first")
	assert.Equal(t, s.cfg.Weights.Freshness, ranked[0].Score-ranked[1].Score)
}

func TestRankingTieBreakByModalPrice(t *testing.T) {
	s := newTestPriceService(t, nil)
	records := []model.PriceRecord{
		{State: "Kerala", Market: "Costly", Commodity: "Coconut", ArrivalDate: "05/08/2025", ModalPrice: 2100},
		{State: "Kerala", Market: "Cheap", Commodity: "Coconut", ArrivalDate: "05/08/2025", ModalPrice: 1700},
	}

	ranked := s.rank(records, model.ResolvedPlace{}, false, "")
	require.Len(t, ranked, 2)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, "Cheap", ranked[0].Market, "equal scores break by cheaper modal price")
}
