package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
	"github.com/angel-codi/fxnow/internal/domain/ports"
	"github.com/angel-codi/fxnow/internal/metrics"
	"github.com/angel-codi/fxnow/pkg/dateutil"
)

const (
	// lagPadding compensates for the national-bank feed publishing several
	// business days behind the calendar: each horizon's query window ends
	// lagPadding days earlier than the nominal offset.
	lagPadding = 5
	// windowDays is the width of the range query; wide enough that a run
	// of weekends and holidays still leaves at least one row.
	windowDays = 30
)

// HistoryResolver retrieves one historical cross rate per horizon,
// choosing the national-bank path for pivot-involved pairs and the general
// historical API otherwise. It degrades to sentinel values, never to the
// caller's error path.
type HistoryResolver struct {
	pivot   ports.PivotHistorySource
	cross   ports.CrossHistorySource
	cache   ports.HistoryCache
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewHistoryResolver(pivot ports.PivotHistorySource, cross ports.CrossHistorySource, cache ports.HistoryCache, log zerolog.Logger, m *metrics.Metrics) *HistoryResolver {
	return &HistoryResolver{
		pivot:   pivot,
		cross:   cross,
		cache:   cache,
		log:     log.With().Str("component", "history").Logger(),
		metrics: m,
	}
}

// Resolve fetches all four horizons concurrently and joins them before
// returning; partial availability is kept per-horizon. Faults surface only
// in the log, as unavailable horizons.
func (r *HistoryResolver) Resolve(ctx context.Context, from, to model.Currency, table model.RateTable) map[model.Horizon]model.HistoricalRate {
	pair := model.CurrencyPair{From: from, To: to}
	spot := table.CrossRate(from, to)

	results := make(map[model.Horizon]model.HistoricalRate, len(model.Horizons))

	var (
		wg    sync.WaitGroup
		mutex sync.Mutex
		errs  *multierror.Error
	)

	for _, h := range model.Horizons {
		h := h
		wg.Add(1)
		go func() {
			defer wg.Done()

			rate, err := r.resolveHorizon(ctx, pair, h, spot)

			mutex.Lock()
			defer mutex.Unlock()
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", h, err))
			}
			results[h] = rate
		}()
	}
	wg.Wait()

	if err := errs.ErrorOrNil(); err != nil {
		r.log.Warn().Err(err).Str("pair", pair.String()).Msg("some horizons did not resolve")
	}

	return results
}

func (r *HistoryResolver) resolveHorizon(ctx context.Context, pair model.CurrencyPair, h model.Horizon, spot float64) (model.HistoricalRate, error) {
	if pair.HasPivot() {
		return r.resolvePivot(ctx, pair, h)
	}
	return r.resolveCross(ctx, pair, h, spot)
}

// resolvePivot queries the national-bank source over a padded date window
// and takes the most recent row in it, never the row nearest the nominal
// target date. An empty window resolves to unavailable, not to an error.
func (r *HistoryResolver) resolvePivot(ctx context.Context, pair model.CurrencyPair, h model.Horizon) (model.HistoricalRate, error) {
	foreign := pair.Foreign()
	end := dateutil.DaysAgo(h.DaysAgo() + lagPadding)
	start := end.AddDate(0, 0, -windowDays)

	won, cached := r.cache.Get(ctx, foreign, end)
	if !cached {
		rows, err := r.pivot.FetchRange(ctx, foreign, start, end)
		if err != nil {
			r.metrics.UpstreamRequestsTotal.WithLabelValues("ecos", outcomeLabel(err)).Inc()
			if errors.Is(err, apperrors.ErrNoData) {
				return model.UnavailableRate(), nil
			}
			return model.UnavailableRate(), err
		}
		r.metrics.UpstreamRequestsTotal.WithLabelValues("ecos", "ok").Inc()

		won = rows[len(rows)-1].Value
		_ = r.cache.Set(ctx, foreign, end, won)
	}

	// The source reports KRW per 1 unit of the foreign currency; a
	// pivot-to-foreign pair needs the reciprocal.
	if pair.From.IsPivot() {
		return model.AvailableRate(1 / won), nil
	}
	return model.AvailableRate(won), nil
}

// resolveCross queries the general historical API for the exact calendar
// date. Missing data falls back to the live spot rate for that horizon,
// an asymmetry with the pivot path that is deliberate: the general API has
// no publication lag, so a gap there means a non-trading day and the spot
// rate is the closest honest answer.
func (r *HistoryResolver) resolveCross(ctx context.Context, pair model.CurrencyPair, h model.Horizon, spot float64) (model.HistoricalRate, error) {
	date := dateutil.DaysAgo(h.DaysAgo())

	rate, err := r.cross.FetchOn(ctx, pair.From, pair.To, date)
	if err != nil {
		r.metrics.UpstreamRequestsTotal.WithLabelValues("frankfurter", outcomeLabel(err)).Inc()
		if !errors.Is(err, apperrors.ErrNoData) {
			r.log.Debug().Err(err).Str("pair", pair.String()).Str("horizon", h.String()).Msg("cross history fetch failed, using spot")
		}
		return model.AvailableRate(spot), nil
	}
	r.metrics.UpstreamRequestsTotal.WithLabelValues("frankfurter", "ok").Inc()

	return model.AvailableRate(rate), nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNoData):
		return "no_data"
	case errors.Is(err, apperrors.ErrTimeout):
		return "timeout"
	case errors.Is(err, apperrors.ErrConfig):
		return "config"
	default:
		return "error"
	}
}
