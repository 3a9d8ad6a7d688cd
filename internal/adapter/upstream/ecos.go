package upstream

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
	"github.com/angel-codi/fxnow/pkg/dateutil"
)

// ecosStatTable is the BOK daily won-per-currency statistics table.
const ecosStatTable = "036Y001"

// ECOS queries the Bank of Korea statistics API for dated won rates.
// The feed publishes with a settlement lag of several business days; the
// resolver compensates, this adapter only reports what the feed has.
type ECOS struct {
	baseURL string
	apiKey  string
	client  *client
	log     zerolog.Logger
}

type ecosResult struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

type ecosRow struct {
	Time      string `json:"TIME"`
	DataValue string `json:"DATA_VALUE"`
}

type ecosResponse struct {
	Result          *ecosResult `json:"RESULT"`
	StatisticSearch *struct {
		Row []ecosRow `json:"row"`
	} `json:"StatisticSearch"`
}

func NewECOS(baseURL, apiKey string, timeout time.Duration, retryNum uint64, retryDelay time.Duration, log zerolog.Logger) *ECOS {
	return &ECOS{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  newClient(timeout, retryNum, retryDelay),
		log:     log.With().Str("source", "ecos").Logger(),
	}
}

// FetchRange returns the dated observations for currency within
// [start, end], oldest first, normalized to KRW per 1 unit. An empty range
// is apperrors.ErrNoData, typical around weekends and holidays.
func (e *ECOS) FetchRange(ctx context.Context, currency model.Currency, start, end time.Time) ([]model.RateRow, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("%w: BOK_API_KEY not set", apperrors.ErrConfig)
	}

	unit := currency.EximUnit()
	if unit == "" {
		return nil, fmt.Errorf("%w: %s has no national-bank series", apperrors.ErrInvalidCurrency, currency)
	}

	url := fmt.Sprintf("%s/StatisticSearch/%s/json/kr/1/100/%s/D/%s/%s/%s",
		e.baseURL, e.apiKey, ecosStatTable,
		dateutil.FormatCompact(start), dateutil.FormatCompact(end), unit,
	)

	var resp ecosResponse
	if err := e.client.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch statistic range: %w", err)
	}

	if resp.Result != nil {
		switch resp.Result.Code {
		case "INFO-000":
			// success envelope, rows follow
		case "INFO-200":
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNoData, resp.Result.Message)
		default:
			return nil, fmt.Errorf("%w: %s (%s)", apperrors.ErrUpstream, resp.Result.Message, resp.Result.Code)
		}
	}

	if resp.StatisticSearch == nil || len(resp.StatisticSearch.Row) == 0 {
		return nil, apperrors.ErrNoData
	}

	rows := make([]model.RateRow, 0, len(resp.StatisticSearch.Row))
	for _, raw := range resp.StatisticSearch.Row {
		date, err := dateutil.ParseCompact(raw.Time)
		if err != nil {
			e.log.Warn().Str("time", raw.Time).Msg("skipping row with unparseable date")
			continue
		}

		value, err := strconv.ParseFloat(raw.DataValue, 64)
		if err != nil || value <= 0 {
			e.log.Warn().Str("value", raw.DataValue).Msg("skipping row with unparseable value")
			continue
		}

		// The yen series is quoted per 100 yen.
		if currency == model.JPY {
			value /= 100
		}

		rows = append(rows, model.RateRow{Date: date, Value: value})
	}

	if len(rows) == 0 {
		return nil, apperrors.ErrNoData
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	return rows, nil
}
