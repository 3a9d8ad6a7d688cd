package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
)

type fakePivot struct {
	fn func(currency model.Currency, start, end time.Time) ([]model.RateRow, error)
}

func (f *fakePivot) FetchRange(ctx context.Context, currency model.Currency, start, end time.Time) ([]model.RateRow, error) {
	return f.fn(currency, start, end)
}

type fakeOfficial struct {
	currentFn func() (map[model.Currency]float64, error)
	onFn      func(currency model.Currency, date time.Time) (float64, error)
}

func (f *fakeOfficial) FetchCurrent(ctx context.Context) (map[model.Currency]float64, error) {
	return f.currentFn()
}

func (f *fakeOfficial) FetchOn(ctx context.Context, currency model.Currency, date time.Time) (float64, error) {
	return f.onFn(currency, date)
}

func newTestProxy(pivot *fakePivot, official *fakeOfficial) *ProxyHandler {
	return NewProxyHandler(pivot, official, zerolog.Nop(), testMetrics)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func TestHistoricalRateHandler(t *testing.T) {
	pivot := &fakePivot{fn: func(currency model.Currency, start, end time.Time) ([]model.RateRow, error) {
		return []model.RateRow{
			{Date: time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), Value: 1438.5},
			{Date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), Value: 1442.1},
		}, nil
	}}
	p := newTestProxy(pivot, &fakeOfficial{})

	rec := httptest.NewRecorder()
	p.HistoricalRateHandler(rec, httptest.NewRequest(http.MethodGet, "/historical-rate?currency=USD&startDate=20260801&endDate=20260820", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload historicalRowsPayload
	decodeBody(t, rec, &payload)
	require.Len(t, payload.Rows, 2)
	assert.Equal(t, "2026-08-18", payload.Rows[0].Date)
	assert.Equal(t, 1438.5, payload.Rows[0].Value)
	assert.Equal(t, "2026-08-20", payload.Rows[1].Date)
}

func TestHistoricalRateHandler_NoDataIsAnAnswer(t *testing.T) {
	pivot := &fakePivot{fn: func(model.Currency, time.Time, time.Time) ([]model.RateRow, error) {
		return nil, apperrors.ErrNoData
	}}
	p := newTestProxy(pivot, &fakeOfficial{})

	rec := httptest.NewRecorder()
	p.HistoricalRateHandler(rec, httptest.NewRequest(http.MethodGet, "/historical-rate?currency=USD&startDate=20260801&endDate=20260803", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload proxyError
	decodeBody(t, rec, &payload)
	assert.Equal(t, "NO_DATA", payload.Error)
}

func TestHistoricalRateHandler_InvalidParams(t *testing.T) {
	p := newTestProxy(&fakePivot{}, &fakeOfficial{})

	tests := []struct {
		name   string
		target string
	}{
		{"pivot currency", "/historical-rate?currency=KRW&startDate=20260801&endDate=20260820"},
		{"unsupported currency", "/historical-rate?currency=XYZ&startDate=20260801&endDate=20260820"},
		{"bad date format", "/historical-rate?currency=USD&startDate=2026-08-01&endDate=20260820"},
		{"reversed range", "/historical-rate?currency=USD&startDate=20260820&endDate=20260801"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			p.HistoricalRateHandler(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var payload proxyError
			decodeBody(t, rec, &payload)
			assert.Equal(t, "INVALID_PARAMS", payload.Error)
		})
	}
}

func TestHistoricalRateHandler_UpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"config", apperrors.ErrConfig, http.StatusInternalServerError, "CONFIG_ERROR"},
		{"timeout", apperrors.ErrTimeout, http.StatusGatewayTimeout, "TIMEOUT"},
		{"upstream", apperrors.ErrUpstream, http.StatusBadGateway, "API_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pivot := &fakePivot{fn: func(model.Currency, time.Time, time.Time) ([]model.RateRow, error) {
				return nil, tc.err
			}}
			p := newTestProxy(pivot, &fakeOfficial{})

			rec := httptest.NewRecorder()
			p.HistoricalRateHandler(rec, httptest.NewRequest(http.MethodGet, "/historical-rate?currency=USD&startDate=20260801&endDate=20260820", nil))

			assert.Equal(t, tc.wantStatus, rec.Code)

			var payload proxyError
			decodeBody(t, rec, &payload)
			assert.Equal(t, tc.wantCode, payload.Error)
		})
	}
}

func TestCurrentRateHandler_CurrentType(t *testing.T) {
	official := &fakeOfficial{currentFn: func() (map[model.Currency]float64, error) {
		return map[model.Currency]float64{model.USD: 1458.40, model.JPY: 9.74}, nil
	}}
	p := newTestProxy(&fakePivot{}, official)

	rec := httptest.NewRecorder()
	p.CurrentRateHandler(rec, httptest.NewRequest(http.MethodGet, "/current-rate?type=current", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload officialTablePayload
	decodeBody(t, rec, &payload)
	assert.True(t, payload.Success)
	assert.Equal(t, 1458.40, payload.Rates["USD"])
	assert.Equal(t, 9.74, payload.Rates["JPY"])
}

func TestCurrentRateHandler_HistoricalType(t *testing.T) {
	var gotDate time.Time
	official := &fakeOfficial{onFn: func(currency model.Currency, date time.Time) (float64, error) {
		gotDate = date
		return 1455.20, nil
	}}
	p := newTestProxy(&fakePivot{}, official)

	rec := httptest.NewRecorder()
	p.CurrentRateHandler(rec, httptest.NewRequest(http.MethodGet, "/current-rate?type=historical&currency=USD&date=20260824", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), gotDate)

	var payload officialRatePayload
	decodeBody(t, rec, &payload)
	assert.True(t, payload.Success)
	assert.Equal(t, model.USD, payload.Currency)
	assert.Equal(t, 1455.20, payload.Rate)
	assert.Equal(t, "20260824", payload.Date)
}

func TestCurrentRateHandler_InvalidType(t *testing.T) {
	p := newTestProxy(&fakePivot{}, &fakeOfficial{})

	rec := httptest.NewRecorder()
	p.CurrentRateHandler(rec, httptest.NewRequest(http.MethodGet, "/current-rate?type=weekly", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var payload proxyError
	decodeBody(t, rec, &payload)
	assert.Equal(t, "INVALID_PARAMS", payload.Error)
}

func TestCurrentRateHandler_ConfigError(t *testing.T) {
	official := &fakeOfficial{currentFn: func() (map[model.Currency]float64, error) {
		return nil, apperrors.ErrConfig
	}}
	p := newTestProxy(&fakePivot{}, official)

	rec := httptest.NewRecorder()
	p.CurrentRateHandler(rec, httptest.NewRequest(http.MethodGet, "/current-rate?type=current", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var payload proxyError
	decodeBody(t, rec, &payload)
	assert.Equal(t, "CONFIG_ERROR", payload.Error)
}
