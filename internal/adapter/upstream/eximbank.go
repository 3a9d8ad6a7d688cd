package upstream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
	"github.com/angel-codi/fxnow/pkg/dateutil"
)

// Eximbank queries the Korea Eximbank official daily quotation feed.
type Eximbank struct {
	baseURL string
	apiKey  string
	client  *client
	log     zerolog.Logger
}

type eximItem struct {
	Result   int    `json:"result"`
	CurUnit  string `json:"cur_unit"`
	DealBasR string `json:"deal_bas_r"`
}

func NewEximbank(baseURL, apiKey string, timeout time.Duration, retryNum uint64, retryDelay time.Duration, log zerolog.Logger) *Eximbank {
	return &Eximbank{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  newClient(timeout, retryNum, retryDelay),
		log:     log.With().Str("source", "eximbank").Logger(),
	}
}

// FetchCurrent returns today's official won rates for the supported
// foreign currencies.
func (e *Eximbank) FetchCurrent(ctx context.Context) (map[model.Currency]float64, error) {
	return e.fetch(ctx, "")
}

// FetchOn returns the official won rate for one currency on the given
// date. Days without a quotation (weekends, holidays) are
// apperrors.ErrNoData.
func (e *Eximbank) FetchOn(ctx context.Context, currency model.Currency, date time.Time) (float64, error) {
	rates, err := e.fetch(ctx, dateutil.FormatCompact(date))
	if err != nil {
		return 0, err
	}

	rate, ok := rates[currency]
	if !ok {
		return 0, fmt.Errorf("%w: no %s quotation", apperrors.ErrNoData, currency)
	}
	return rate, nil
}

func (e *Eximbank) fetch(ctx context.Context, searchDate string) (map[model.Currency]float64, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("%w: EXIM_API_KEY not set", apperrors.ErrConfig)
	}

	url := fmt.Sprintf("%s/exchangeJSON?authkey=%s&data=AP01", e.baseURL, e.apiKey)
	if searchDate != "" {
		url += "&searchdate=" + searchDate
	}

	var items []eximItem
	if err := e.client.getJSON(ctx, url, &items); err != nil {
		return nil, fmt.Errorf("fetch quotations: %w", err)
	}

	// The feed answers an empty array on days without a quotation.
	if len(items) == 0 {
		return nil, apperrors.ErrNoData
	}

	if items[0].Result != 1 {
		return nil, fmt.Errorf("%w: result code %d", apperrors.ErrUpstream, items[0].Result)
	}

	rates := make(map[model.Currency]float64)
	for _, item := range items {
		value, err := strconv.ParseFloat(strings.ReplaceAll(item.DealBasR, ",", ""), 64)
		if err != nil || value <= 0 {
			continue
		}

		switch item.CurUnit {
		case "USD":
			rates[model.USD] = value
		case "JPY(100)":
			rates[model.JPY] = value / 100
		case "EUR":
			rates[model.EUR] = value
		case "GBP":
			rates[model.GBP] = value
		case "CNY", "CNH": // offshore yuan quoted as CNH
			rates[model.CNY] = value
		}
	}

	if len(rates) == 0 {
		return nil, apperrors.ErrNoData
	}

	return rates, nil
}
