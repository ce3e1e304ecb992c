package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bhoomisetu/internal/cache"
	"bhoomisetu/internal/config"
	"bhoomisetu/internal/model"
	"bhoomisetu/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the full stack with no external services: inference
// tiers disabled (keyword classification), weather unconfigured, prices
// served from the bundled snapshot.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	engineCfg := config.DefaultEngineConfig()
	aiConfig := &config.AIConfig{TimeoutMS: 1000}

	soilSvc, err := service.NewSoilService()
	require.NoError(t, err)
	fallback, err := service.NewFallbackDataset("", engineCfg.CommoditySynonyms)
	require.NoError(t, err)

	classifier := service.NewClassifierService(aiConfig, engineCfg)
	weatherSvc := service.NewWeatherService(&config.Config{})
	priceSvc := service.NewPriceService(engineCfg, classifier, nil, fallback)
	pipeline := service.NewPipeline(classifier, weatherSvc, soilSvc, priceSvc, cache.NewMemoryPlaceCache())

	return NewRouter(&Container{
		AuthService:    service.NewAuthService(),
		Pipeline:       pipeline,
		PriceService:   priceSvc,
		WeatherService: weatherSvc,
	})
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()
	body := bytes.NewBufferString(`{"username":"admin","password":"password123"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)
	body := bytes.NewBufferString(`{"username":"admin","password":"wrong"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", body))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/prices?commodity=tomato", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQueryEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	body := bytes.NewBufferString(`{"text":"tomaot price in bangalor"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/query", body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var answer model.StructuredAnswer
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&answer))
	assert.Equal(t, model.IntentPrice, answer.Classification.Intent)
	require.NotNil(t, answer.Place)
	assert.Equal(t, "Karnataka", answer.Place.State)
	require.NotNil(t, answer.Prices)
	assert.Equal(t, model.SourceFallback, answer.Prices.Source)
	assert.NotEmpty(t, answer.Prices.Records)
}

func TestQueryEndpointEmptyText(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewBufferString(`{"text":"  "}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPricesEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/v1/prices?commodity=tomato&place=vijayawada", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.RankedResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, model.SourceFallback, result.Source)
	require.NotEmpty(t, result.Records)
	assert.Equal(t, "Vijayawada", result.Records[0].Market)
}

func TestPricesEndpointMissingParams(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/v1/prices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeatherEndpointUnconfigured(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/v1/weather/vijayawada", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
