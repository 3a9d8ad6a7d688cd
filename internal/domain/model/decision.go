package model

// DecisionCategory classifies the exchange-timing recommendation.
type DecisionCategory string

const (
	// DecisionFavorable: the rate is better than its recent average,
	// converting now is recommended.
	DecisionFavorable DecisionCategory = "favorable"
	// DecisionUnfavorable: the rate is worse than its recent average,
	// waiting is recommended.
	DecisionUnfavorable DecisionCategory = "unfavorable"
	// DecisionNeutral: within ±1% of the one-month average.
	DecisionNeutral DecisionCategory = "neutral"
	// DecisionSameCurrency: from == to, no decision is possible.
	DecisionSameCurrency DecisionCategory = "same_currency"
	// DecisionPending: historical data has not resolved yet.
	DecisionPending DecisionCategory = "pending"
)

// ProfitLossDirection tags a per-horizon delta; deltas under the noise
// floor are reported flat rather than as a directional signal.
type ProfitLossDirection string

const (
	ProfitLossGain ProfitLossDirection = "gain"
	ProfitLossLoss ProfitLossDirection = "loss"
	ProfitLossFlat ProfitLossDirection = "flat"
)

// ProfitLoss is the signed difference, in the "to" currency, between
// converting a fixed amount now and converting it at a horizon's rate.
type ProfitLoss struct {
	Delta     float64             `json:"delta"`
	Direction ProfitLossDirection `json:"direction"`
}

type Decision struct {
	Category      DecisionCategory       `json:"category"`
	MonthDeltaPct float64                `json:"month_delta_pct"`
	WeekDeltaPct  float64                `json:"week_delta_pct"`
	Headline      string                 `json:"headline"`
	ShortTermNote string                 `json:"short_term_note,omitempty"`
	ProfitLoss    map[Horizon]ProfitLoss `json:"profit_loss,omitempty"`
}
