package internal

import (
	"testing"

	"portfoliorisk/internal/domain"
	"portfoliorisk/internal/util"

	"github.com/stretchr/testify/require"
)

func TestValuationHandler_TotalValue(t *testing.T) {
	today := util.NewDate(2024, 1, 2)

	cache := func(t *testing.T) *PriceCache {
		return cacheFromPrices(t, map[string][]domain.AssetPrice{
			"AAA": {
				{Symbol: "AAA", Date: util.NewDate(2024, 1, 1), Price: 100},
				{Symbol: "AAA", Date: util.NewDate(2024, 1, 2), Price: 110},
			},
			"BBB": {
				{Symbol: "BBB", Date: util.NewDate(2024, 1, 1), Price: 40},
				{Symbol: "BBB", Date: util.NewDate(2024, 1, 2), Price: 50},
			},
		})
	}

	t.Run("share-based valuation", func(t *testing.T) {
		h := ValuationHandler{Prices: cache(t)}

		result, err := h.TotalValue(domain.Portfolio{Holdings: []domain.Holding{
			{Ticker: "AAA", Shares: 10},
		}}, util.NewDate(2024, 1, 2), today)
		require.NoError(t, err)

		require.Equal(t, float64(1100), result.Value.InexactFloat64())
		require.Equal(t, util.NewDate(2024, 1, 2), result.Date)
	})

	t.Run("valuation on a non-trading day uses prior close", func(t *testing.T) {
		h := ValuationHandler{Prices: cacheFromPrices(t, map[string][]domain.AssetPrice{
			"AAA": {
				{Symbol: "AAA", Date: util.NewDate(2024, 1, 1), Price: 100},
				{Symbol: "AAA", Date: util.NewDate(2024, 1, 2), Price: 110},
			},
		})}

		result, err := h.TotalValue(domain.Portfolio{Holdings: []domain.Holding{
			{Ticker: "AAA", Shares: 10},
		}}, util.NewDate(2024, 1, 3), util.NewDate(2024, 1, 5))
		require.NoError(t, err)

		require.Equal(t, float64(1100), result.Value.InexactFloat64())
	})

	t.Run("cost-basis grows by price ratio", func(t *testing.T) {
		h := ValuationHandler{Prices: cache(t)}

		// 1000 invested at 100, now at 110 -> 1100
		// 2000 invested at 40, now at 50 -> 2500
		result, err := h.TotalValue(domain.Portfolio{Holdings: []domain.Holding{
			{Ticker: "AAA", PurchaseDate: util.NewDate(2024, 1, 1), AmountInvested: 1000},
			{Ticker: "BBB", PurchaseDate: util.NewDate(2024, 1, 1), AmountInvested: 2000},
		}}, today, today)
		require.NoError(t, err)

		require.InDelta(t, 3600, result.Value.InexactFloat64(), 1e-9)
	})

	t.Run("one unresolvable holding fails the whole valuation", func(t *testing.T) {
		h := ValuationHandler{Prices: cache(t)}

		result, err := h.TotalValue(domain.Portfolio{Holdings: []domain.Holding{
			{Ticker: "AAA", Shares: 10},
			{Ticker: "MISSING", Shares: 1},
		}}, today, today)
		require.Nil(t, result)

		var unknown domain.UnknownTickerError
		require.ErrorAs(t, err, &unknown)
		require.Equal(t, "MISSING", unknown.Symbol)
	})

	t.Run("future valuation date fails", func(t *testing.T) {
		h := ValuationHandler{Prices: cache(t)}

		_, err := h.TotalValue(domain.Portfolio{Holdings: []domain.Holding{
			{Ticker: "AAA", Shares: 10},
		}}, util.NewDate(2024, 2, 1), today)

		var futureErr domain.FutureDateError
		require.ErrorAs(t, err, &futureErr)
	})

	t.Run("invalid portfolio rejected before any resolution", func(t *testing.T) {
		h := ValuationHandler{Prices: cache(t)}

		_, err := h.TotalValue(domain.Portfolio{}, today, today)
		require.Error(t, err)
	})
}
