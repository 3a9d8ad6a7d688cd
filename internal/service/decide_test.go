package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angel-codi/fxnow/internal/domain/model"
)

func snapshotWith(from, to model.Currency, spot float64, historical map[model.Horizon]model.HistoricalRate) model.RateSnapshot {
	return model.RateSnapshot{
		From:       from,
		To:         to,
		Spot:       spot,
		Historical: historical,
	}
}

func allAvailable(yesterday, week, month, year float64) map[model.Horizon]model.HistoricalRate {
	return map[model.Horizon]model.HistoricalRate{
		model.HorizonYesterday: model.AvailableRate(yesterday),
		model.HorizonWeek:      model.AvailableRate(week),
		model.HorizonMonth:     model.AvailableRate(month),
		model.HorizonYear:      model.AvailableRate(year),
	}
}

func TestDecide_SameCurrency(t *testing.T) {
	snap := model.SameCurrencySnapshot(model.USD, 1)

	decision := Decide(snap, 100)

	assert.Equal(t, model.DecisionSameCurrency, decision.Category)
	assert.Contains(t, decision.Headline, "USD")
	assert.Empty(t, decision.ProfitLoss)
}

func TestDecide_PendingWithoutMonthHorizon(t *testing.T) {
	historical := allAvailable(1430, 1420, 0, 1380)
	historical[model.HorizonMonth] = model.UnavailableRate()

	decision := Decide(snapshotWith(model.USD, model.KRW, 1440, historical), 100)

	assert.Equal(t, model.DecisionPending, decision.Category)
	assert.Zero(t, decision.MonthDeltaPct)
	assert.Empty(t, decision.ProfitLoss)
}

// The sign-to-label mapping depends on which side of the pair is the
// pivot: the same positive month deviation is favorable when selling
// KRW and unfavorable when selling the foreign currency.
func TestDecide_SignInversion(t *testing.T) {
	tests := []struct {
		name  string
		from  model.Currency
		to    model.Currency
		spot  float64
		month float64
		want  model.DecisionCategory
	}{
		{"KRW->USD spot above average", model.KRW, model.USD, 1.0 / 1440, (1.0 / 1440) / 1.05, model.DecisionFavorable},
		{"USD->KRW spot above average", model.USD, model.KRW, 1440, 1440 / 1.05, model.DecisionUnfavorable},
		{"KRW->USD spot below average", model.KRW, model.USD, 1.0 / 1440, (1.0 / 1440) * 1.05, model.DecisionUnfavorable},
		{"USD->KRW spot below average", model.USD, model.KRW, 1440, 1440 * 1.05, model.DecisionFavorable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			historical := allAvailable(tc.spot, tc.spot, tc.month, tc.spot)

			decision := Decide(snapshotWith(tc.from, tc.to, tc.spot, historical), 100)

			assert.Equal(t, tc.want, decision.Category)
			assert.NotEmpty(t, decision.Headline)
		})
	}
}

func TestDecide_NeutralBand(t *testing.T) {
	// +0.5% against the month average stays inside the neutral band.
	historical := allAvailable(1440, 1440, 1440/1.005, 1440)

	decision := Decide(snapshotWith(model.USD, model.KRW, 1440, historical), 100)

	assert.Equal(t, model.DecisionNeutral, decision.Category)
	assert.InDelta(t, 0.5, decision.MonthDeltaPct, 0.01)
}

func TestDecide_ShortTermNote(t *testing.T) {
	// +3% over the week earns a note; the month horizon stays neutral.
	historical := allAvailable(1440, 1440/1.03, 1440, 1440)

	decision := Decide(snapshotWith(model.USD, model.KRW, 1440, historical), 100)

	assert.Equal(t, model.DecisionNeutral, decision.Category)
	assert.NotEmpty(t, decision.ShortTermNote)
	assert.Contains(t, decision.ShortTermNote, "Up")
}

func TestDecide_NoShortTermNoteInsideBand(t *testing.T) {
	historical := allAvailable(1440, 1440/1.01, 1440, 1440)

	decision := Decide(snapshotWith(model.USD, model.KRW, 1440, historical), 100)

	assert.Empty(t, decision.ShortTermNote)
}

func TestDecide_ProfitLoss(t *testing.T) {
	historical := allAvailable(1430, 1440.005, 1440, 1380)
	historical[model.HorizonWeek] = model.UnavailableRate()

	decision := Decide(snapshotWith(model.USD, model.KRW, 1440, historical), 10)

	// yesterday: 10 * (1440 - 1430) = +100
	yesterday := decision.ProfitLoss[model.HorizonYesterday]
	assert.InDelta(t, 100, yesterday.Delta, 0.001)
	assert.Equal(t, model.ProfitLossGain, yesterday.Direction)

	// unavailable horizon counts as spot, so it reads flat
	week := decision.ProfitLoss[model.HorizonWeek]
	assert.Zero(t, week.Delta)
	assert.Equal(t, model.ProfitLossFlat, week.Direction)

	// month matches spot exactly
	month := decision.ProfitLoss[model.HorizonMonth]
	assert.Equal(t, model.ProfitLossFlat, month.Direction)

	// the year horizon is analysis-only, not part of the breakdown
	_, hasYear := decision.ProfitLoss[model.HorizonYear]
	assert.False(t, hasYear)
}

func TestDecide_ProfitLossNoiseFloor(t *testing.T) {
	historical := allAvailable(1440.0000005, 1440, 1440, 1440)

	decision := Decide(snapshotWith(model.USD, model.KRW, 1440, historical), 1)

	assert.Equal(t, model.ProfitLossFlat, decision.ProfitLoss[model.HorizonYesterday].Direction)
}

func TestSnapshot_DeviationSafety(t *testing.T) {
	snap := snapshotWith(model.USD, model.KRW, 1440, map[model.Horizon]model.HistoricalRate{
		model.HorizonYesterday: model.UnavailableRate(),
		model.HorizonWeek:      model.AvailableRate(0),
	})

	assert.Zero(t, snap.Deviation(model.HorizonYesterday))
	assert.Zero(t, snap.Deviation(model.HorizonWeek))
	assert.Zero(t, snap.Deviation(model.HorizonMonth))
}
