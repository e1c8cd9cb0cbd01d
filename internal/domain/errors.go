package domain

import (
	"fmt"
	"time"
)

// The engine never signals failure through sentinel values; every
// failure mode callers may want to branch on gets its own error type,
// matched with errors.As.

// UnknownTickerError - the provider has no data at all for a symbol.
type UnknownTickerError struct {
	Symbol string
}

func (e UnknownTickerError) Error() string {
	return fmt.Sprintf("no price data exists for ticker %s", e.Symbol)
}

// NoPriceDataError - the backward date walk exhausted its lookback
// without hitting a trading day.
type NoPriceDataError struct {
	Symbol       string
	Date         time.Time
	LookbackDays int
}

func (e NoPriceDataError) Error() string {
	return fmt.Sprintf("no price for %s within %d days before %s", e.Symbol, e.LookbackDays, e.Date.Format(time.DateOnly))
}

// FutureDateError - a price was requested for a date after "today".
type FutureDateError struct {
	Date  time.Time
	Today time.Time
}

func (e FutureDateError) Error() string {
	return fmt.Sprintf("cannot resolve price for %s: after current date %s", e.Date.Format(time.DateOnly), e.Today.Format(time.DateOnly))
}

// DegenerateSeriesError - a return series with zero variance, where
// the Sharpe ratio is undefined.
type DegenerateSeriesError struct {
	Observations int
}

func (e DegenerateSeriesError) Error() string {
	return fmt.Sprintf("portfolio return series is degenerate (zero variance over %d observations)", e.Observations)
}

// InsufficientDataError - a holding's price history is empty or too
// short to produce returns.
type InsufficientDataError struct {
	Symbol string
}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient price history for %s", e.Symbol)
}

// WeightComputationError - portfolio weights could not be derived,
// either because the total value is non-positive or a constituent
// price failed to resolve.
type WeightComputationError struct {
	Reason string
	Err    error
}

func (e WeightComputationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot compute weights: %s: %s", e.Reason, e.Err.Error())
	}
	return fmt.Sprintf("cannot compute weights: %s", e.Reason)
}

func (e WeightComputationError) Unwrap() error { return e.Err }

// DataUnavailableError - the upstream price provider could not be
// reached. Plausibly transient; callers may retry.
type DataUnavailableError struct {
	Symbol string
	Err    error
}

func (e DataUnavailableError) Error() string {
	return fmt.Sprintf("price data unavailable for %s: %s", e.Symbol, e.Err.Error())
}

func (e DataUnavailableError) Unwrap() error { return e.Err }
