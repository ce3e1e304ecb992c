package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"bhoomisetu/internal/model"
	"bhoomisetu/internal/service"

	"github.com/gorilla/mux"
)

// QueryHandler handles query, price and weather endpoints
type QueryHandler struct {
	pipeline   *service.Pipeline
	priceSvc   *service.PriceService
	weatherSvc *service.WeatherService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(pipeline *service.Pipeline, priceSvc *service.PriceService, weatherSvc *service.WeatherService) *QueryHandler {
	return &QueryHandler{
		pipeline:   pipeline,
		priceSvc:   priceSvc,
		weatherSvc: weatherSvc,
	}
}

// Ask handles POST /v1/query
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req model.Query
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.pipeline.AnswerQuery(r.Context(), req.Text, req.Location, req.Context)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "query text is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to process query")
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// Prices handles GET /v1/prices?commodity=&place=&q=
func (h *QueryHandler) Prices(w http.ResponseWriter, r *http.Request) {
	commodity := r.URL.Query().Get("commodity")
	place := r.URL.Query().Get("place")
	raw := r.URL.Query().Get("q")

	if commodity == "" && raw == "" {
		writeError(w, http.StatusBadRequest, "commodity or q parameter is required")
		return
	}

	result := h.priceSvc.ResolvePrices(r.Context(), commodity, place, raw)
	writeJSON(w, http.StatusOK, result)
}

// Weather handles GET /v1/weather/{place}
func (h *QueryHandler) Weather(w http.ResponseWriter, r *http.Request) {
	place := mux.Vars(r)["place"]

	snap, err := h.weatherSvc.Snapshot(r.Context(), place)
	if err != nil {
		if errors.Is(err, service.ErrWeatherNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "weather service not configured")
			return
		}
		writeError(w, http.StatusBadGateway, "weather data unavailable")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
