package upstream

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
	"github.com/angel-codi/fxnow/pkg/dateutil"
)

// Frankfurter fetches historical cross rates for non-pivot pairs by exact
// calendar date.
type Frankfurter struct {
	baseURL string
	client  *client
	log     zerolog.Logger
}

type frankfurterResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func NewFrankfurter(baseURL string, timeout time.Duration, retryNum uint64, retryDelay time.Duration, log zerolog.Logger) *Frankfurter {
	return &Frankfurter{
		baseURL: baseURL,
		client:  newClient(timeout, retryNum, retryDelay),
		log:     log.With().Str("source", "frankfurter").Logger(),
	}
}

func (f *Frankfurter) FetchOn(ctx context.Context, from, to model.Currency, date time.Time) (float64, error) {
	url := fmt.Sprintf("%s/%s?from=%s&to=%s", f.baseURL, dateutil.FormatISO(date), from, to)

	var resp frankfurterResponse
	if err := f.client.getJSON(ctx, url, &resp); err != nil {
		return 0, fmt.Errorf("fetch historical rate: %w", err)
	}

	rate, ok := resp.Rates[to.String()]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: no %s rate on %s", apperrors.ErrNoData, to, dateutil.FormatISO(date))
	}

	return rate, nil
}
