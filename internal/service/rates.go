package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/domain/model"
	"github.com/angel-codi/fxnow/internal/domain/ports"
	"github.com/angel-codi/fxnow/internal/metrics"
)

// fallbackRates is the static last-resort table used before the first
// successful fetch. After that, a failed fetch degrades to the
// last-known-good table instead.
var fallbackRates = model.RateTable{
	model.KRW: 1,
	model.USD: 1458.40,
	model.JPY: 9.74,
	model.EUR: 1604.50,
	model.GBP: 1847.30,
	model.CNY: 200.45,
}

// RateService is the rate source adapter: it never fails the caller.
type RateService struct {
	source  ports.SpotSource
	log     zerolog.Logger
	metrics *metrics.Metrics

	mutex    sync.RWMutex
	lastGood model.RateTable
}

func NewRateService(source ports.SpotSource, log zerolog.Logger, m *metrics.Metrics) *RateService {
	return &RateService{
		source:  source,
		log:     log.With().Str("component", "rates").Logger(),
		metrics: m,
	}
}

// CurrentRates returns a valid table for all six currencies, live if the
// upstream answered, degraded otherwise.
func (s *RateService) CurrentRates(ctx context.Context) model.RateTable {
	table, err := s.source.FetchLatest(ctx)
	if err != nil {
		s.metrics.UpstreamRequestsTotal.WithLabelValues("midmarket", "error").Inc()
		s.log.Warn().Err(err).Msg("live rate fetch failed, using degraded table")

		s.mutex.RLock()
		defer s.mutex.RUnlock()
		if s.lastGood != nil {
			return s.lastGood.Clone()
		}
		return fallbackRates.Clone()
	}

	s.metrics.UpstreamRequestsTotal.WithLabelValues("midmarket", "ok").Inc()

	s.mutex.Lock()
	s.lastGood = table
	s.mutex.Unlock()

	return table.Clone()
}
