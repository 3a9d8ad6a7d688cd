package service

import (
	"fmt"
	"math"

	"github.com/angel-codi/fxnow/internal/domain/model"
)

const (
	// neutralBandPct: month-horizon deviations inside this band are
	// "about average", no directional call.
	neutralBandPct = 1.0
	// shortTermBandPct: week-horizon deviations beyond this band earn a
	// secondary note without changing the primary category.
	shortTermBandPct = 2.0
	// profitNoiseFloor: per-horizon deltas under this are reported flat so
	// floating-point noise never flips the signal.
	profitNoiseFloor = 0.01
)

// profitLossHorizons are the horizons shown in the profit/loss breakdown.
var profitLossHorizons = []model.Horizon{model.HorizonYesterday, model.HorizonWeek, model.HorizonMonth}

// Decide is the decision engine: pure, deterministic. The classification
// runs on the month horizon; the sign-to-label mapping inverts depending
// on which side of the pair is the pivot currency.
func Decide(snapshot model.RateSnapshot, amount float64) model.Decision {
	if snapshot.From == snapshot.To {
		return model.Decision{
			Category: model.DecisionSameCurrency,
			Headline: fmt.Sprintf("Same currency (%s) on both sides. Pick a different target currency.", snapshot.From),
		}
	}

	// The month horizon anchors the whole analysis; without it the card
	// stays in the pending state even if other horizons resolved.
	if !snapshot.Historical[model.HorizonMonth].Available {
		return model.Decision{
			Category: model.DecisionPending,
			Headline: "Waiting on historical rate data. Conversion still works; the timing call will appear once history loads.",
		}
	}

	monthPct := snapshot.Deviation(model.HorizonMonth)
	weekPct := snapshot.Deviation(model.HorizonWeek)

	decision := model.Decision{
		MonthDeltaPct: monthPct,
		WeekDeltaPct:  weekPct,
		ProfitLoss:    profitLoss(snapshot, amount),
	}

	decision.Category, decision.Headline = classify(snapshot.From, snapshot.To, monthPct)

	if math.Abs(weekPct) > shortTermBandPct {
		if weekPct > 0 {
			decision.ShortTermNote = fmt.Sprintf("Up %.1f%% over the past 7 days, so short-term the rate is pricier than the headline suggests.", weekPct)
		} else {
			decision.ShortTermNote = fmt.Sprintf("Down %.1f%% over the past 7 days, so short-term this is a good window.", math.Abs(weekPct))
		}
	}

	return decision
}

func classify(from, to model.Currency, monthPct float64) (model.DecisionCategory, string) {
	if math.Abs(monthPct) < neutralBandPct {
		return model.DecisionNeutral, "The rate is close to its one-month average. Reasonable timing."
	}

	// A positive deviation means the priced currency strengthened. Selling
	// the pivot, that works in your favor; selling the foreign currency,
	// the same sign reads as its weakness and the call inverts.
	if monthPct > 0 {
		if from.IsPivot() {
			return model.DecisionFavorable,
				fmt.Sprintf("%s is strong against its one-month average (+%.1f%%). Good time to convert.", to, monthPct)
		}
		return model.DecisionUnfavorable,
			fmt.Sprintf("%s is weak against its one-month average (+%.1f%%). Consider waiting if you can.", from, monthPct)
	}

	if from.IsPivot() {
		return model.DecisionUnfavorable,
			fmt.Sprintf("%s is weak against its one-month average (%.1f%%). Consider waiting if you can.", to, monthPct)
	}
	return model.DecisionFavorable,
		fmt.Sprintf("%s is strong against its one-month average (%.1f%%). Good time to convert.", from, monthPct)
}

// profitLoss compares converting amount now against converting it at each
// horizon's rate, as a signed delta in the "to" currency. Unavailable
// horizons count as the spot rate, which yields a flat entry.
func profitLoss(snapshot model.RateSnapshot, amount float64) map[model.Horizon]model.ProfitLoss {
	out := make(map[model.Horizon]model.ProfitLoss, len(profitLossHorizons))

	for _, h := range profitLossHorizons {
		rate := snapshot.Spot
		if hist := snapshot.Historical[h]; hist.Available {
			rate = hist.Rate
		}

		delta := amount * (snapshot.Spot - rate)

		direction := model.ProfitLossFlat
		switch {
		case delta > profitNoiseFloor:
			direction = model.ProfitLossGain
		case delta < -profitNoiseFloor:
			direction = model.ProfitLossLoss
		}

		out[h] = model.ProfitLoss{Delta: delta, Direction: direction}
	}

	return out
}
