package ports

import (
	"context"
	"time"

	"github.com/angel-codi/fxnow/internal/domain/model"
)

// SpotSource provides the live mid-market snapshot, already normalized to
// the KRW pivot.
type SpotSource interface {
	FetchLatest(ctx context.Context) (model.RateTable, error)
}

// PivotHistorySource provides dated national-bank observations for one
// foreign currency over a calendar range. Implementations return
// apperrors.ErrNoData when the range holds no rows.
type PivotHistorySource interface {
	FetchRange(ctx context.Context, currency model.Currency, start, end time.Time) ([]model.RateRow, error)
}

// CrossHistorySource provides the historical cross rate for a non-pivot
// pair on an exact calendar date.
type CrossHistorySource interface {
	FetchOn(ctx context.Context, from, to model.Currency, date time.Time) (float64, error)
}

// OfficialRateSource provides the Eximbank official daily quotations,
// either the latest table or a single currency on a given date.
type OfficialRateSource interface {
	FetchCurrent(ctx context.Context) (map[model.Currency]float64, error)
	FetchOn(ctx context.Context, currency model.Currency, date time.Time) (float64, error)
}
