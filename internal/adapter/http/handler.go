package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
	"github.com/angel-codi/fxnow/internal/domain/ports"
	"github.com/angel-codi/fxnow/internal/metrics"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type ratesPayload struct {
	Rates     model.RateTable `json:"rates"`
	FetchedAt time.Time       `json:"fetched_at"`
}

type Handler struct {
	service ports.WidgetService
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewHandler(service ports.WidgetService, log zerolog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("component", "handler").Logger(),
		metrics: m,
	}
}

func (h *Handler) GetRatesHandler(w http.ResponseWriter, r *http.Request) {
	table, fetchedAt := h.service.CurrentRates(r.Context())
	h.sendSuccessResponse(w, ratesPayload{Rates: table, FetchedAt: fetchedAt})
}

func (h *Handler) ConvertHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.ConversionRequestsTotal.Inc()

	from := model.Currency(r.URL.Query().Get("from"))
	to := model.Currency(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: from and to")
		return
	}

	amount, ok := h.parseAmount(w, r, 1)
	if !ok {
		return
	}

	result, err := h.service.Convert(r.Context(), model.ConversionRequest{
		From:   from,
		To:     to,
		Amount: amount,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, result)
}

func (h *Handler) GetSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	from := model.Currency(r.URL.Query().Get("from"))
	to := model.Currency(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: from and to")
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), from, to)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, snapshot)
}

func (h *Handler) GetDecisionHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.DecisionRequestsTotal.Inc()

	from := model.Currency(r.URL.Query().Get("from"))
	to := model.Currency(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: from and to")
		return
	}

	amount, ok := h.parseAmount(w, r, 1)
	if !ok {
		return
	}

	decision, err := h.service.Decide(r.Context(), from, to, amount)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, decision)
}

func (h *Handler) parseAmount(w http.ResponseWriter, r *http.Request, defaultValue float64) (float64, bool) {
	amountStr := r.URL.Query().Get("amount")
	if amountStr == "" {
		return defaultValue, true
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid amount parameter")
		return 0, false
	}

	return amount, true
}

func (h *Handler) sendSuccessResponse(w http.ResponseWriter, data interface{}) {
	response := Response{
		Success: true,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := Response{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("failed to encode error response")
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorMessage := "internal server error"

	switch {
	case errors.Is(err, apperrors.ErrInvalidCurrency):
		statusCode = http.StatusBadRequest
		errorMessage = "invalid currency"
	case errors.Is(err, apperrors.ErrInvalidAmount):
		statusCode = http.StatusBadRequest
		errorMessage = "invalid amount"
	case errors.Is(err, apperrors.ErrRatesUnavailable):
		statusCode = http.StatusServiceUnavailable
		errorMessage = "rates not available yet"
	}

	h.log.Error().Err(err).Int("status_code", statusCode).Msg("service error")
	h.sendErrorResponse(w, statusCode, errorMessage)
}
