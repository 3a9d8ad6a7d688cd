package ports

import (
	"context"
	"time"

	"github.com/angel-codi/fxnow/internal/domain/model"
)

// WidgetService is the facade the HTTP handlers talk to. It is implemented
// by the snapshot controller, which owns the current rate table and the
// per-pair snapshot.
type WidgetService interface {
	CurrentRates(ctx context.Context) (model.RateTable, time.Time)
	Convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error)
	Snapshot(ctx context.Context, from, to model.Currency) (model.RateSnapshot, error)
	Decide(ctx context.Context, from, to model.Currency, amount float64) (*model.Decision, error)
	Refresh(ctx context.Context) error
}
