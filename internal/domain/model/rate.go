package model

import (
	"fmt"
	"math"
	"time"
)

// RateTable holds the pivot-relative rates for all supported currencies:
// KRW per 1 unit of each currency. RateTable[KRW] is 1 by definition.
// A table is replaced wholesale on refresh, never partially mutated.
type RateTable map[Currency]float64

// Valid reports whether the table carries a positive rate for every
// supported currency and the pivot is pinned to 1.
func (t RateTable) Valid() bool {
	if len(t) == 0 {
		return false
	}
	for _, c := range SupportedCurrencies {
		rate, ok := t[c]
		if !ok || rate <= 0 || !isFinite(rate) {
			return false
		}
	}
	return t[Pivot] == 1
}

// CrossRate returns units of to per 1 unit of from.
func (t RateTable) CrossRate(from, to Currency) float64 {
	if from == to {
		return 1
	}
	return t[from] / t[to]
}

func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for c, r := range t {
		out[c] = r
	}
	return out
}

// Horizon is one of the fixed historical lookback windows.
type Horizon string

const (
	HorizonYesterday Horizon = "yesterday"
	HorizonWeek      Horizon = "week"
	HorizonMonth     Horizon = "month"
	HorizonYear      Horizon = "year"
)

var Horizons = []Horizon{HorizonYesterday, HorizonWeek, HorizonMonth, HorizonYear}

func (h Horizon) DaysAgo() int {
	switch h {
	case HorizonYesterday:
		return 1
	case HorizonWeek:
		return 7
	case HorizonMonth:
		return 30
	case HorizonYear:
		return 365
	}
	return 0
}

func (h Horizon) String() string {
	return string(h)
}

// HistoricalRate is a tagged-optional cross rate. The original data model
// overloaded 0 to mean both "computed zero" and "no data"; the Available
// flag removes that ambiguity while Value() keeps 0 on the wire for
// consumers that still treat 0 as absent.
type HistoricalRate struct {
	Rate      float64 `json:"rate"`
	Available bool    `json:"available"`
}

func AvailableRate(rate float64) HistoricalRate {
	return HistoricalRate{Rate: rate, Available: true}
}

func UnavailableRate() HistoricalRate {
	return HistoricalRate{}
}

// Value returns the rate, or 0 when the horizon is unavailable.
func (r HistoricalRate) Value() float64 {
	if !r.Available {
		return 0
	}
	return r.Rate
}

// RateSnapshot is the aggregate rate state for one currency pair: the live
// spot cross rate plus one historical reference per horizon. Snapshots are
// value types produced whole by the aggregator; Batch orders them so a
// slow-resolving stale batch can be discarded.
type RateSnapshot struct {
	From       Currency                   `json:"from"`
	To         Currency                   `json:"to"`
	Spot       float64                    `json:"spot"`
	Historical map[Horizon]HistoricalRate `json:"historical"`
	Batch      uint64                     `json:"-"`
	FetchedAt  time.Time                  `json:"fetched_at"`
}

// HistoryAvailable reports whether at least one horizon resolved. When it
// is false the snapshot's historical block is pending and no timing
// analysis is meaningful.
func (s RateSnapshot) HistoryAvailable() bool {
	for _, h := range Horizons {
		if s.Historical[h].Available {
			return true
		}
	}
	return false
}

// Deviation returns the percentage deviation of spot from the horizon's
// historical rate. It is exactly 0 when the horizon is unavailable, zero or
// non-finite, for any spot value.
func (s RateSnapshot) Deviation(h Horizon) float64 {
	hist := s.Historical[h]
	if !hist.Available || hist.Rate == 0 || !isFinite(hist.Rate) {
		return 0
	}
	diff := (s.Spot - hist.Rate) / hist.Rate * 100
	if !isFinite(diff) {
		return 0
	}
	return diff
}

// SameCurrencySnapshot is the degenerate snapshot for from == to: spot and
// every horizon pinned to 1.
func SameCurrencySnapshot(c Currency, batch uint64) RateSnapshot {
	historical := make(map[Horizon]HistoricalRate, len(Horizons))
	for _, h := range Horizons {
		historical[h] = AvailableRate(1)
	}
	return RateSnapshot{
		From:       c,
		To:         c,
		Spot:       1,
		Historical: historical,
		Batch:      batch,
		FetchedAt:  time.Now(),
	}
}

type CurrencyPair struct {
	From Currency `json:"from"`
	To   Currency `json:"to"`
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s-%s", p.From, p.To)
}

func (p CurrencyPair) Same() bool {
	return p.From == p.To
}

// HasPivot reports whether one side of the pair is the pivot currency,
// which selects the national-bank data path for historical rates.
func (p CurrencyPair) HasPivot() bool {
	return p.From.IsPivot() || p.To.IsPivot()
}

// Foreign returns the non-pivot side of a pivot-involved pair.
func (p CurrencyPair) Foreign() Currency {
	if p.From.IsPivot() {
		return p.To
	}
	return p.From
}

// RateRow is one dated observation from the national-bank statistics feed,
// expressed as KRW per 1 unit of the queried currency.
type RateRow struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
