package ports

import (
	"context"
	"time"

	"github.com/angel-codi/fxnow/internal/domain/model"
)

// HistoryCache memoizes resolved national-bank rates keyed by currency and
// window end date, so a pair change does not re-query the upstream for
// windows it already answered.
type HistoryCache interface {
	Get(ctx context.Context, currency model.Currency, windowEnd time.Time) (float64, bool)
	Set(ctx context.Context, currency model.Currency, windowEnd time.Time, rate float64) error
	ClearExpired(ctx context.Context) error
}
