package service

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/angel-codi/fxnow/internal/apperrors"
	"github.com/angel-codi/fxnow/internal/domain/model"
)

// Convert is the conversion engine: pure, deterministic, no I/O. It
// declines with ErrRatesUnavailable when the table is not populated rather
// than computing with undefined values.
func Convert(amount float64, from, to model.Currency, table model.RateTable) (*model.ConversionResult, error) {
	if !from.IsSupported() || !to.IsSupported() {
		return nil, apperrors.ErrInvalidCurrency
	}
	if !validAmount(amount) {
		return nil, apperrors.ErrInvalidAmount
	}
	if !table.Valid() {
		return nil, apperrors.ErrRatesUnavailable
	}

	if from == to {
		return &model.ConversionResult{
			From:            from,
			To:              to,
			FromSymbol:      from.Symbol(),
			ToSymbol:        to.Symbol(),
			FromAmount:      amount,
			ConvertedAmount: roundHalfUp(amount),
		}, nil
	}

	cross := table.CrossRate(from, to)

	base, quote, displayRate := orientDisplay(from, to, cross)

	return &model.ConversionResult{
		From:            from,
		To:              to,
		FromSymbol:      from.Symbol(),
		ToSymbol:        to.Symbol(),
		FromAmount:      amount,
		ConvertedAmount: roundHalfUp(amount * cross),
		DisplayRate:     displayRate,
		DisplayBase:     base,
		DisplayQuote:    quote,
	}, nil
}

// orientDisplay picks which side is printed as "1 <base>": the side that
// makes the printed number >= 1, except that a pair involving the pivot
// always prices the foreign currency in KRW.
func orientDisplay(from, to model.Currency, cross float64) (base, quote model.Currency, displayRate string) {
	switch {
	case from.IsPivot():
		return to, from, formatRate(1 / cross)
	case to.IsPivot():
		return from, to, formatRate(cross)
	case cross >= 1:
		return from, to, formatRate(cross)
	default:
		return to, from, formatRate(1 / cross)
	}
}

func validAmount(amount float64) bool {
	return amount >= 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

func formatRate(rate float64) string {
	return decimal.NewFromFloat(rate).StringFixed(2)
}

func roundHalfUp(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
