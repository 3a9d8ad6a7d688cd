package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
	"github.com/angel-codi/fxnow/internal/metrics"
)

// Controller owns the application state: the current rate table and the
// snapshot for the active pair. Both are replaced as whole values under
// the mutex, never field by field. Every historical batch carries a
// monotonic sequence number; a batch that lands after a newer one was
// dispatched is discarded instead of overwriting fresher data.
type Controller struct {
	rates   *RateService
	history *HistoryResolver
	log     zerolog.Logger
	metrics *metrics.Metrics

	dispatched atomic.Uint64

	mutex       sync.RWMutex
	table       model.RateTable
	tableAt     time.Time
	snapshot    model.RateSnapshot
	hasSnapshot bool
}

func NewController(rates *RateService, history *HistoryResolver, log zerolog.Logger, m *metrics.Metrics) *Controller {
	return &Controller{
		rates:   rates,
		history: history,
		log:     log.With().Str("component", "controller").Logger(),
		metrics: m,
	}
}

func (c *Controller) CurrentRates(ctx context.Context) (model.RateTable, time.Time) {
	c.mutex.RLock()
	if c.table != nil {
		table, at := c.table.Clone(), c.tableAt
		c.mutex.RUnlock()
		return table, at
	}
	c.mutex.RUnlock()

	return c.refreshTable(ctx)
}

func (c *Controller) refreshTable(ctx context.Context) (model.RateTable, time.Time) {
	table := c.rates.CurrentRates(ctx)
	now := time.Now()

	c.mutex.Lock()
	c.table = table
	c.tableAt = now
	c.mutex.Unlock()

	return table.Clone(), now
}

func (c *Controller) Convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error) {
	table, _ := c.CurrentRates(ctx)
	return Convert(req.Amount, req.From, req.To, table)
}

// Snapshot returns the rate snapshot for the pair, reusing the stored one
// when the pair matches and dispatching a fresh batch otherwise.
func (c *Controller) Snapshot(ctx context.Context, from, to model.Currency) (model.RateSnapshot, error) {
	if !from.IsSupported() || !to.IsSupported() {
		return model.RateSnapshot{}, apperrors.ErrInvalidCurrency
	}

	c.mutex.RLock()
	if c.hasSnapshot && c.snapshot.From == from && c.snapshot.To == to {
		snap := c.snapshot
		c.mutex.RUnlock()
		return snap, nil
	}
	c.mutex.RUnlock()

	table, _ := c.CurrentRates(ctx)
	batch := c.dispatched.Add(1)
	snap := c.buildSnapshot(ctx, from, to, table, batch)
	c.store(snap)

	return snap, nil
}

func (c *Controller) Decide(ctx context.Context, from, to model.Currency, amount float64) (*model.Decision, error) {
	if !validAmount(amount) {
		return nil, apperrors.ErrInvalidAmount
	}

	snap, err := c.Snapshot(ctx, from, to)
	if err != nil {
		return nil, err
	}

	decision := Decide(snap, amount)
	return &decision, nil
}

// Refresh is the scheduled full refresh: current table plus a fresh
// historical batch for the active pair.
func (c *Controller) Refresh(ctx context.Context) error {
	table, _ := c.refreshTable(ctx)

	c.mutex.RLock()
	from, to := c.snapshot.From, c.snapshot.To
	if !c.hasSnapshot {
		// default pair until the first request chooses one
		from, to = model.Pivot, model.USD
	}
	c.mutex.RUnlock()

	batch := c.dispatched.Add(1)
	snap := c.buildSnapshot(ctx, from, to, table, batch)
	c.store(snap)

	outcome := "ok"
	if !snap.HistoryAvailable() {
		outcome = "pending_history"
	}
	c.metrics.RefreshTotal.WithLabelValues(outcome).Inc()
	c.log.Info().Str("pair", model.CurrencyPair{From: from, To: to}.String()).Str("outcome", outcome).Msg("refreshed rates")

	return ctx.Err()
}

func (c *Controller) buildSnapshot(ctx context.Context, from, to model.Currency, table model.RateTable, batch uint64) model.RateSnapshot {
	if from == to {
		return model.SameCurrencySnapshot(from, batch)
	}

	return model.RateSnapshot{
		From:       from,
		To:         to,
		Spot:       table.CrossRate(from, to),
		Historical: c.history.Resolve(ctx, from, to, table),
		Batch:      batch,
		FetchedAt:  time.Now(),
	}
}

func (c *Controller) store(snap model.RateSnapshot) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Read the dispatch counter under the lock: a batch dispatched while
	// this store was waiting for the mutex must still win.
	if latest := c.dispatched.Load(); snap.Batch < latest {
		c.metrics.StaleBatchesDiscarded.Inc()
		c.log.Debug().Uint64("batch", snap.Batch).Uint64("latest", latest).Msg("discarding stale batch")
		return
	}

	c.snapshot = snap
	c.hasSnapshot = true
}
