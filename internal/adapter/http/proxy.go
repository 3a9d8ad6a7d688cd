package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
	"github.com/angel-codi/fxnow/internal/domain/ports"
	"github.com/angel-codi/fxnow/internal/metrics"
	"github.com/angel-codi/fxnow/pkg/dateutil"
)

// ProxyHandler serves the browser-facing proxy endpoints that forward to
// the national-bank and Eximbank feeds, keeping the API keys server-side
// and normalizing upstream failures into a stable error shape.
type ProxyHandler struct {
	pivot    ports.PivotHistorySource
	official ports.OfficialRateSource
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

type proxyError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type historicalRowsPayload struct {
	Rows []proxyRow `json:"rows"`
}

type proxyRow struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type officialTablePayload struct {
	Success bool               `json:"success"`
	Rates   map[string]float64 `json:"rates"`
}

type officialRatePayload struct {
	Success  bool           `json:"success"`
	Currency model.Currency `json:"currency"`
	Rate     float64        `json:"rate"`
	Date     string         `json:"date"`
}

func NewProxyHandler(pivot ports.PivotHistorySource, official ports.OfficialRateSource, log zerolog.Logger, m *metrics.Metrics) *ProxyHandler {
	return &ProxyHandler{
		pivot:    pivot,
		official: official,
		log:      log.With().Str("component", "proxy").Logger(),
		metrics:  m,
	}
}

// HistoricalRateHandler proxies the national-bank range query:
// GET /historical-rate?currency=USD&startDate=YYYYMMDD&endDate=YYYYMMDD
func (p *ProxyHandler) HistoricalRateHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	currency := model.Currency(query.Get("currency"))
	if !currency.IsSupported() || currency.IsPivot() {
		p.writeProxyError(w, http.StatusBadRequest, "INVALID_PARAMS", "currency must be a supported foreign currency")
		return
	}

	start, errStart := dateutil.ParseCompact(query.Get("startDate"))
	end, errEnd := dateutil.ParseCompact(query.Get("endDate"))
	if errStart != nil || errEnd != nil || start.After(end) {
		p.writeProxyError(w, http.StatusBadRequest, "INVALID_PARAMS", "startDate and endDate must be YYYYMMDD with startDate <= endDate")
		return
	}

	rows, err := p.pivot.FetchRange(r.Context(), currency, start, end)
	if err != nil {
		p.metrics.ProxyRequestsTotal.WithLabelValues("historical-rate", "error").Inc()
		p.writeUpstreamError(w, err)
		return
	}
	p.metrics.ProxyRequestsTotal.WithLabelValues("historical-rate", "ok").Inc()

	payload := historicalRowsPayload{Rows: make([]proxyRow, 0, len(rows))}
	for _, row := range rows {
		payload.Rows = append(payload.Rows, proxyRow{
			Date:  dateutil.FormatISO(row.Date),
			Value: row.Value,
		})
	}

	p.writeJSON(w, http.StatusOK, payload)
}

// CurrentRateHandler proxies the Eximbank official quotation feed:
// GET /current-rate?type=current|historical&currency=USD&date=YYYYMMDD
func (p *ProxyHandler) CurrentRateHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	switch query.Get("type") {
	case "current":
		rates, err := p.official.FetchCurrent(r.Context())
		if err != nil {
			p.metrics.ProxyRequestsTotal.WithLabelValues("current-rate", "error").Inc()
			p.writeUpstreamError(w, err)
			return
		}
		p.metrics.ProxyRequestsTotal.WithLabelValues("current-rate", "ok").Inc()

		payload := officialTablePayload{Success: true, Rates: make(map[string]float64, len(rates))}
		for c, rate := range rates {
			payload.Rates[c.String()] = rate
		}
		p.writeJSON(w, http.StatusOK, payload)

	case "historical":
		currency := model.Currency(query.Get("currency"))
		if !currency.IsSupported() || currency.IsPivot() {
			p.writeProxyError(w, http.StatusBadRequest, "INVALID_PARAMS", "currency must be a supported foreign currency")
			return
		}

		date, err := dateutil.ParseCompact(query.Get("date"))
		if err != nil {
			p.writeProxyError(w, http.StatusBadRequest, "INVALID_PARAMS", "date must be YYYYMMDD")
			return
		}

		rate, err := p.official.FetchOn(r.Context(), currency, date)
		if err != nil {
			p.metrics.ProxyRequestsTotal.WithLabelValues("current-rate", "error").Inc()
			p.writeUpstreamError(w, err)
			return
		}
		p.metrics.ProxyRequestsTotal.WithLabelValues("current-rate", "ok").Inc()

		p.writeJSON(w, http.StatusOK, officialRatePayload{
			Success:  true,
			Currency: currency,
			Rate:     rate,
			Date:     dateutil.FormatCompact(date),
		})

	default:
		p.writeProxyError(w, http.StatusBadRequest, "INVALID_PARAMS", "type must be current or historical")
	}
}

// writeUpstreamError maps the error taxonomy onto the proxy wire shape.
// NO_DATA travels as a 200: to the widget an empty period is an answer,
// not a fault.
func (p *ProxyHandler) writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNoData):
		p.writeProxyError(w, http.StatusOK, "NO_DATA", "no rate data for the period, possibly a weekend or holiday")
	case errors.Is(err, apperrors.ErrConfig):
		p.writeProxyError(w, http.StatusInternalServerError, "CONFIG_ERROR", "upstream API credential is not configured")
	case errors.Is(err, apperrors.ErrTimeout):
		p.writeProxyError(w, http.StatusGatewayTimeout, "TIMEOUT", "upstream API did not answer in time")
	default:
		p.log.Error().Err(err).Msg("upstream proxy failure")
		p.writeProxyError(w, http.StatusBadGateway, "API_ERROR", "upstream API request failed")
	}
}

func (p *ProxyHandler) writeProxyError(w http.ResponseWriter, statusCode int, code, message string) {
	p.writeJSON(w, statusCode, proxyError{Error: code, Message: message})
}

func (p *ProxyHandler) writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		p.log.Error().Err(err).Msg("failed to encode proxy response")
	}
}
