package internal

import (
	"fmt"
	"time"

	"portfoliorisk/internal/domain"

	"github.com/shopspring/decimal"
)

type ValuationResult struct {
	Value decimal.Decimal
	Date  time.Time
}

type ValuationHandler struct {
	Prices *PriceCache
}

// TotalValue sums every lot's value as of asOf. Share-based lots are
// shares x resolved price. Cost-basis lots grow their invested dollars
// by the price ratio between purchase date and asOf. If any lot's
// price fails to resolve the whole valuation fails with that error -
// a total that silently skips a lot is worse than no total.
func (h ValuationHandler) TotalValue(portfolio domain.Portfolio, asOf, today time.Time) (*ValuationResult, error) {
	if err := portfolio.Validate(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, holding := range portfolio.Holdings {
		value, err := h.holdingValue(holding, asOf, today)
		if err != nil {
			return nil, err
		}
		total = total.Add(value)
	}

	return &ValuationResult{Value: total, Date: asOf}, nil
}

func (h ValuationHandler) holdingValue(holding domain.Holding, asOf, today time.Time) (decimal.Decimal, error) {
	current, err := h.Prices.Get(holding.Ticker, asOf, today)
	if err != nil {
		return decimal.Zero, err
	}

	if !holding.IsCostBasis() {
		return decimal.NewFromFloat(holding.Shares).Mul(decimal.NewFromFloat(current.Price)), nil
	}

	atPurchase, err := h.Prices.Get(holding.Ticker, holding.PurchaseDate, today)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to resolve purchase price for %s: %w", holding.Ticker, err)
	}

	return decimal.NewFromFloat(holding.AmountInvested).
		Mul(decimal.NewFromFloat(current.Price)).
		Div(decimal.NewFromFloat(atPurchase.Price)), nil
}
