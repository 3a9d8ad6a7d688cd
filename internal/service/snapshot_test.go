package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angel-codi/fxnow/internal/adapter/cache"
	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
)

type fakeSpotSource struct {
	fn func() (model.RateTable, error)
}

func (f *fakeSpotSource) FetchLatest(ctx context.Context) (model.RateTable, error) {
	return f.fn()
}

func newTestController(spot *fakeSpotSource, pivot *fakePivotSource) *Controller {
	rates := NewRateService(spot, zerolog.Nop(), testMetrics)
	resolver := NewHistoryResolver(pivot, &fakeCrossSource{}, cache.NewMemoryCache(time.Hour, zerolog.Nop()), zerolog.Nop(), testMetrics)
	return NewController(rates, resolver, zerolog.Nop(), testMetrics)
}

func liveSpotSource() *fakeSpotSource {
	return &fakeSpotSource{fn: func() (model.RateTable, error) {
		return testTable(), nil
	}}
}

func historicalPivotSource() *fakePivotSource {
	return &fakePivotSource{fn: func(currency model.Currency, start, end time.Time) ([]model.RateRow, error) {
		return []model.RateRow{{Date: end, Value: 1430}}, nil
	}}
}

func TestController_SnapshotForPair(t *testing.T) {
	c := newTestController(liveSpotSource(), historicalPivotSource())

	snap, err := c.Snapshot(context.Background(), model.USD, model.KRW)
	require.NoError(t, err)

	assert.Equal(t, model.USD, snap.From)
	assert.Equal(t, model.KRW, snap.To)
	assert.Equal(t, 1440.0, snap.Spot)
	assert.True(t, snap.HistoryAvailable())
	for _, h := range model.Horizons {
		assert.Equal(t, 1430.0, snap.Historical[h].Rate)
	}
}

func TestController_SnapshotReusedWhilePairUnchanged(t *testing.T) {
	c := newTestController(liveSpotSource(), historicalPivotSource())

	first, err := c.Snapshot(context.Background(), model.USD, model.KRW)
	require.NoError(t, err)
	second, err := c.Snapshot(context.Background(), model.USD, model.KRW)
	require.NoError(t, err)

	assert.Equal(t, first.Batch, second.Batch)

	// Switching the pair dispatches a fresh batch.
	third, err := c.Snapshot(context.Background(), model.KRW, model.EUR)
	require.NoError(t, err)
	assert.Greater(t, third.Batch, first.Batch)
}

func TestController_SnapshotRejectsUnknownCurrency(t *testing.T) {
	c := newTestController(liveSpotSource(), historicalPivotSource())

	_, err := c.Snapshot(context.Background(), model.Currency("XYZ"), model.KRW)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCurrency)
}

func TestController_SameCurrencySnapshot(t *testing.T) {
	c := newTestController(liveSpotSource(), historicalPivotSource())

	snap, err := c.Snapshot(context.Background(), model.USD, model.USD)
	require.NoError(t, err)

	assert.Equal(t, 1.0, snap.Spot)
	for _, h := range model.Horizons {
		assert.Equal(t, model.AvailableRate(1), snap.Historical[h])
	}

	decision, err := c.Decide(context.Background(), model.USD, model.USD, 100)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionSameCurrency, decision.Category)
}

func TestController_StaleBatchDiscarded(t *testing.T) {
	c := newTestController(liveSpotSource(), historicalPivotSource())

	slow := c.dispatched.Add(1)
	fresh := c.dispatched.Add(1)

	c.store(model.RateSnapshot{From: model.USD, To: model.KRW, Spot: 1440, Batch: fresh})
	c.store(model.RateSnapshot{From: model.USD, To: model.KRW, Spot: 1200, Batch: slow})

	c.mutex.RLock()
	defer c.mutex.RUnlock()
	assert.Equal(t, fresh, c.snapshot.Batch)
	assert.Equal(t, 1440.0, c.snapshot.Spot)
}

// A batch dispatched while a store is waiting for the mutex must still win:
// the guard has to read the dispatch counter under the lock, not before it.
func TestController_StoreChecksDispatchCounterUnderLock(t *testing.T) {
	c := newTestController(liveSpotSource(), historicalPivotSource())

	slow := c.dispatched.Add(1)
	stale := model.RateSnapshot{From: model.USD, To: model.KRW, Spot: 1200, Batch: slow}

	c.mutex.Lock()
	done := make(chan struct{})
	go func() {
		c.store(stale)
		close(done)
	}()

	// Let the store reach the lock, then dispatch a newer batch before
	// releasing it.
	time.Sleep(10 * time.Millisecond)
	c.dispatched.Add(1)
	c.mutex.Unlock()
	<-done

	c.mutex.RLock()
	defer c.mutex.RUnlock()
	assert.False(t, c.hasSnapshot, "stale batch must not land after a newer one was dispatched")
}

func TestController_DecideRejectsInvalidAmount(t *testing.T) {
	c := newTestController(liveSpotSource(), historicalPivotSource())

	for _, amount := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := c.Decide(context.Background(), model.USD, model.KRW, amount)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	}
}

func TestController_RefreshSeedsDefaultPair(t *testing.T) {
	c := newTestController(liveSpotSource(), historicalPivotSource())

	require.NoError(t, c.Refresh(context.Background()))

	refreshed, err := c.Snapshot(context.Background(), model.Pivot, model.USD)
	require.NoError(t, err)
	assert.Equal(t, model.Pivot, refreshed.From)
	assert.Equal(t, model.USD, refreshed.To)
	assert.InDelta(t, 1.0/1440, refreshed.Spot, 1e-12)
}

func TestController_ConvertUsesCurrentTable(t *testing.T) {
	c := newTestController(liveSpotSource(), historicalPivotSource())

	result, err := c.Convert(context.Background(), model.ConversionRequest{
		From:   model.KRW,
		To:     model.USD,
		Amount: 100000,
	})
	require.NoError(t, err)
	assert.InDelta(t, 69.44, result.ConvertedAmount, 0.001)
}
