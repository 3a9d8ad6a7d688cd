package upstream

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
)

// MidMarket fetches the live mid-market snapshot from the global rate API
// (USD base) and re-pivots it to KRW.
type MidMarket struct {
	baseURL string
	client  *client
	log     zerolog.Logger
}

type midMarketResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func NewMidMarket(baseURL string, timeout time.Duration, retryNum uint64, retryDelay time.Duration, log zerolog.Logger) *MidMarket {
	return &MidMarket{
		baseURL: baseURL,
		client:  newClient(timeout, retryNum, retryDelay),
		log:     log.With().Str("source", "midmarket").Logger(),
	}
}

// FetchLatest returns a full KRW-pivot table. The upstream quotes every
// currency per 1 USD, so KRW per X is derived as (KRW per USD)/(X per USD).
func (m *MidMarket) FetchLatest(ctx context.Context) (model.RateTable, error) {
	url := fmt.Sprintf("%s/latest/USD", m.baseURL)

	var resp midMarketResponse
	if err := m.client.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch latest rates: %w", err)
	}

	usdKrw, ok := resp.Rates[model.KRW.String()]
	if !ok || usdKrw <= 0 {
		return nil, fmt.Errorf("%w: KRW quote missing", apperrors.ErrUpstream)
	}

	table := model.RateTable{
		model.KRW: 1,
		model.USD: usdKrw,
	}
	for _, c := range []model.Currency{model.JPY, model.EUR, model.GBP, model.CNY} {
		perUSD, ok := resp.Rates[c.String()]
		if !ok || perUSD <= 0 {
			return nil, fmt.Errorf("%w: %s quote missing", apperrors.ErrUpstream, c)
		}
		table[c] = usdKrw / perUSD
	}

	if !table.Valid() {
		return nil, fmt.Errorf("%w: derived table invalid", apperrors.ErrUpstream)
	}

	m.log.Debug().Float64("usd_krw", usdKrw).Msg("fetched mid-market snapshot")
	return table, nil
}
