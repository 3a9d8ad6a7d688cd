// Package apperrors defines the error taxonomy shared by the upstream
// adapters, the resolver and the HTTP layer. Expected data gaps (weekends,
// publication lag) are ErrNoData and are never treated as faults.
package apperrors

import "errors"

var (
	// ErrNoData: the upstream had no row for the requested period.
	// Expected on weekends and holidays, not exceptional.
	ErrNoData = errors.New("no data for period")

	// ErrUpstream: the upstream returned a non-success status or payload.
	ErrUpstream = errors.New("upstream error")

	// ErrTimeout: the upstream did not answer within the request timeout.
	ErrTimeout = errors.New("upstream timeout")

	// ErrConfig: a required credential is missing.
	ErrConfig = errors.New("missing configuration")

	// ErrRatesUnavailable: no rate table has been populated yet; the
	// conversion engine declines to compute rather than divide by zero.
	ErrRatesUnavailable = errors.New("rates unavailable")

	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidAmount   = errors.New("invalid amount")
)
