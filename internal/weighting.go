package internal

import (
	"fmt"
	"math"
	"time"

	"portfoliorisk/internal/domain"
)

// Figure out what fraction of total portfolio value each lot carries.
// Weights either partition 100% of a valid portfolio or the whole
// computation fails - a lot is never silently dropped, because the
// remaining weights would quietly stop summing to 1.

// PositionWeight is one lot's share of total portfolio value. Lots
// are kept separate (duplicate tickers may have different cost bases)
// and are in portfolio order.
type PositionWeight struct {
	Ticker string
	Weight float64
}

type Weights []PositionWeight

// ByTicker collapses lots of the same ticker into one fraction per
// ticker. On a single return series, two lots of w1 and w2 contribute
// exactly what one lot of w1+w2 would.
func (w Weights) ByTicker() map[string]float64 {
	out := map[string]float64{}
	for _, pw := range w {
		out[pw.Ticker] += pw.Weight
	}
	return out
}

// CalculateWeights computes each lot's fractional weight. The
// valuation basis is the holding shape: share-based lots are valued
// at prices resolved against today, cost-basis lots at their original
// amount invested, not re-priced.
func CalculateWeights(prices *PriceCache, portfolio domain.Portfolio, today time.Time) (Weights, error) {
	if err := portfolio.Validate(); err != nil {
		return nil, domain.WeightComputationError{Reason: "invalid portfolio", Err: err}
	}

	values := make([]float64, len(portfolio.Holdings))
	total := 0.0
	for i, h := range portfolio.Holdings {
		if h.IsCostBasis() {
			values[i] = h.AmountInvested
		} else {
			resolved, err := prices.Get(h.Ticker, today, today)
			if err != nil {
				return nil, domain.WeightComputationError{
					Reason: fmt.Sprintf("price resolution failed for %s", h.Ticker),
					Err:    err,
				}
			}
			values[i] = h.Shares * resolved.Price
		}
		total += values[i]
	}

	if total <= 0 {
		return nil, domain.WeightComputationError{
			Reason: fmt.Sprintf("total portfolio value %f is not positive", total),
		}
	}

	weights := make(Weights, len(portfolio.Holdings))
	sum := 0.0
	for i, h := range portfolio.Holdings {
		w := values[i] / total
		if math.IsNaN(w) {
			return nil, domain.WeightComputationError{
				Reason: fmt.Sprintf("invalid weight NaN for %s", h.Ticker),
			}
		}
		weights[i] = PositionWeight{Ticker: h.Ticker, Weight: w}
		sum += w
	}

	if math.Abs(sum-1) > 1e-9 {
		return nil, domain.WeightComputationError{
			Reason: fmt.Sprintf("weights should sum to 1, got %f", sum),
		}
	}

	return weights, nil
}
