package app

import (
	"context"
	"fmt"
	"time"

	"portfoliorisk/internal"
	"portfoliorisk/internal/calculator"
	"portfoliorisk/internal/domain"
	"portfoliorisk/internal/logger"
)

// DefaultHistoryDays is the trailing window used for the Sharpe ratio
// when the caller does not pick one.
const DefaultHistoryDays = 365

// Engine wires the provider-backed price service to the valuation,
// weighting and risk calculators. It holds no state between calls;
// every entry point takes an explicit "today" so results are a pure
// function of their inputs.
type Engine struct {
	PriceService internal.PriceService
	Alignment    calculator.AlignmentPolicy
	HistoryDays  int
}

func NewEngine(priceService internal.PriceService, alignment calculator.AlignmentPolicy, historyDays int) *Engine {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	if alignment == "" {
		alignment = calculator.AlignUnion
	}
	return &Engine{
		PriceService: priceService,
		Alignment:    alignment,
		HistoryDays:  historyDays,
	}
}

// TotalValue computes the portfolio's market value as of asOf.
func (e *Engine) TotalValue(ctx context.Context, portfolio domain.Portfolio, asOf, today time.Time) (*internal.ValuationResult, error) {
	if err := portfolio.Validate(); err != nil {
		return nil, err
	}

	start := asOf.AddDate(0, 0, -internal.DefaultMaxLookbackDays)
	for _, h := range portfolio.Holdings {
		if h.IsCostBasis() && h.PurchaseDate.Before(start) {
			start = h.PurchaseDate.AddDate(0, 0, -internal.DefaultMaxLookbackDays)
		}
	}

	cache, err := e.PriceService.LoadCache(ctx, portfolio.HeldSymbols(), start, today)
	if err != nil {
		return nil, err
	}

	result, err := internal.ValuationHandler{Prices: cache}.TotalValue(portfolio, asOf, today)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infow("computed portfolio value",
		"asOf", asOf.Format(time.DateOnly),
		"holdings", len(portfolio.Holdings),
	)

	return result, nil
}

// Weights computes each lot's fraction of portfolio value using
// prices resolved against today.
func (e *Engine) Weights(ctx context.Context, portfolio domain.Portfolio, today time.Time) (internal.Weights, error) {
	if err := portfolio.Validate(); err != nil {
		return nil, domain.WeightComputationError{Reason: "invalid portfolio", Err: err}
	}

	start := today.AddDate(0, 0, -internal.DefaultMaxLookbackDays)
	cache, err := e.PriceService.LoadCache(ctx, portfolio.HeldSymbols(), start, today)
	if err != nil {
		return nil, domain.WeightComputationError{Reason: "failed to load prices", Err: err}
	}

	return internal.CalculateWeights(cache, portfolio, today)
}

// SharpeRatio computes the portfolio's per-day Sharpe ratio over the
// trailing history window ending at today. Weights are taken at the
// end of the window.
func (e *Engine) SharpeRatio(ctx context.Context, portfolio domain.Portfolio, riskFreeRateAnnual float64, today time.Time) (*calculator.SharpeRatioResult, error) {
	if err := portfolio.Validate(); err != nil {
		return nil, err
	}

	start := today.AddDate(0, 0, -e.HistoryDays)
	cache, err := e.PriceService.LoadCache(ctx, portfolio.HeldSymbols(), start, today)
	if err != nil {
		return nil, err
	}

	weights, err := internal.CalculateWeights(cache, portfolio, today)
	if err != nil {
		return nil, err
	}

	seriesByTicker := map[string]*domain.PriceSeries{}
	for _, symbol := range portfolio.HeldSymbols() {
		series, err := cache.Series(symbol)
		if err != nil {
			return nil, err
		}
		seriesByTicker[symbol] = series
	}

	result, err := calculator.SharpeRatio(calculator.SharpeRatioInput{
		WeightsByTicker:    weights.ByTicker(),
		SeriesByTicker:     seriesByTicker,
		RiskFreeRateAnnual: riskFreeRateAnnual,
		Alignment:          e.Alignment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute sharpe ratio: %w", err)
	}

	logger.FromContext(ctx).Infow("computed sharpe ratio",
		"observations", result.Observations,
		"sharpe", result.SharpeRatio,
	)

	return result, nil
}
