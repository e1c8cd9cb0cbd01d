package app

import (
	"context"
	"testing"
	"time"

	"portfoliorisk/internal"
	"portfoliorisk/internal/calculator"
	"portfoliorisk/internal/domain"
	"portfoliorisk/internal/util"

	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	series  map[string][]domain.AssetPrice
	failing map[string]error
}

func (f *fakeProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (*domain.PriceSeries, error) {
	if err, ok := f.failing[symbol]; ok {
		return nil, domain.DataUnavailableError{Symbol: symbol, Err: err}
	}
	prices := []domain.AssetPrice{}
	for _, p := range f.series[symbol] {
		if !p.Date.Before(start) && !p.Date.After(end) {
			prices = append(prices, p)
		}
	}
	return domain.NewPriceSeries(symbol, prices)
}

func (f *fakeProvider) FetchLatest(ctx context.Context, symbol string) (domain.AssetPrice, error) {
	prices, ok := f.series[symbol]
	if !ok || len(prices) == 0 {
		return domain.AssetPrice{}, domain.UnknownTickerError{Symbol: symbol}
	}
	return prices[len(prices)-1], nil
}

func newTestEngine(provider internal.PriceProvider) *Engine {
	return NewEngine(internal.NewPriceService(provider, 0), calculator.AlignUnion, 0)
}

func TestEngine_TotalValue(t *testing.T) {
	provider := &fakeProvider{series: map[string][]domain.AssetPrice{
		"AAA": {
			{Symbol: "AAA", Date: util.NewDate(2024, 1, 1), Price: 100},
			{Symbol: "AAA", Date: util.NewDate(2024, 1, 2), Price: 110},
		},
	}}
	engine := newTestEngine(provider)

	t.Run("values shares at the resolved close", func(t *testing.T) {
		result, err := engine.TotalValue(
			context.Background(),
			domain.Portfolio{Holdings: []domain.Holding{{Ticker: "AAA", Shares: 10}}},
			util.NewDate(2024, 1, 2),
			util.NewDate(2024, 1, 2),
		)
		require.NoError(t, err)
		require.Equal(t, float64(1100), result.Value.InexactFloat64())
	})

	t.Run("cost-basis history reaches back to the purchase date", func(t *testing.T) {
		result, err := engine.TotalValue(
			context.Background(),
			domain.Portfolio{Holdings: []domain.Holding{{
				Ticker:         "AAA",
				PurchaseDate:   util.NewDate(2024, 1, 1),
				AmountInvested: 1000,
			}}},
			util.NewDate(2024, 1, 2),
			util.NewDate(2024, 1, 2),
		)
		require.NoError(t, err)
		require.InDelta(t, 1100, result.Value.InexactFloat64(), 1e-9)
	})

	t.Run("provider outage aborts the valuation", func(t *testing.T) {
		failing := newTestEngine(&fakeProvider{
			failing: map[string]error{"AAA": context.DeadlineExceeded},
		})

		_, err := failing.TotalValue(
			context.Background(),
			domain.Portfolio{Holdings: []domain.Holding{{Ticker: "AAA", Shares: 10}}},
			util.NewDate(2024, 1, 2),
			util.NewDate(2024, 1, 2),
		)
		var unavailable domain.DataUnavailableError
		require.ErrorAs(t, err, &unavailable)
	})
}

func TestEngine_SharpeRatio(t *testing.T) {
	provider := &fakeProvider{series: map[string][]domain.AssetPrice{
		"AAA": {
			{Symbol: "AAA", Date: util.NewDate(2024, 1, 1), Price: 100},
			{Symbol: "AAA", Date: util.NewDate(2024, 1, 2), Price: 101},
			{Symbol: "AAA", Date: util.NewDate(2024, 1, 3), Price: 99.99},
			{Symbol: "AAA", Date: util.NewDate(2024, 1, 4), Price: 101.9898},
		},
		"BBB": {
			{Symbol: "BBB", Date: util.NewDate(2024, 1, 1), Price: 100},
			{Symbol: "BBB", Date: util.NewDate(2024, 1, 2), Price: 102},
			{Symbol: "BBB", Date: util.NewDate(2024, 1, 3), Price: 102},
			{Symbol: "BBB", Date: util.NewDate(2024, 1, 4), Price: 100.98},
		},
	}}
	engine := newTestEngine(provider)
	today := util.NewDate(2024, 1, 4)

	t.Run("computes a per-day ratio", func(t *testing.T) {
		result, err := engine.SharpeRatio(
			context.Background(),
			domain.Portfolio{Holdings: []domain.Holding{
				{Ticker: "AAA", Shares: 1},
				{Ticker: "BBB", Shares: 1},
			}},
			0,
			today,
		)
		require.NoError(t, err)
		require.Equal(t, 3, result.Observations)
		require.Greater(t, result.StdevDailyReturn, 0.0)
	})

	t.Run("unchanged under uniform scaling of share counts", func(t *testing.T) {
		portfolio := func(scale float64) domain.Portfolio {
			return domain.Portfolio{Holdings: []domain.Holding{
				{Ticker: "AAA", Shares: 1 * scale},
				{Ticker: "BBB", Shares: 1 * scale},
			}}
		}

		base, err := engine.SharpeRatio(context.Background(), portfolio(1), 0.03, today)
		require.NoError(t, err)
		scaled, err := engine.SharpeRatio(context.Background(), portfolio(250), 0.03, today)
		require.NoError(t, err)

		require.InDelta(t, base.SharpeRatio, scaled.SharpeRatio, 1e-9)
	})

	t.Run("unknown holding fails the computation", func(t *testing.T) {
		_, err := engine.SharpeRatio(
			context.Background(),
			domain.Portfolio{Holdings: []domain.Holding{
				{Ticker: "AAA", Shares: 1},
				{Ticker: "ZZZ", Shares: 1},
			}},
			0,
			today,
		)
		require.Error(t, err)
	})
}

func TestEngine_Weights(t *testing.T) {
	provider := &fakeProvider{series: map[string][]domain.AssetPrice{
		"AAA": {{Symbol: "AAA", Date: util.NewDate(2024, 1, 2), Price: 100}},
		"BBB": {{Symbol: "BBB", Date: util.NewDate(2024, 1, 2), Price: 300}},
	}}
	engine := newTestEngine(provider)

	t.Run("weights from current prices", func(t *testing.T) {
		weights, err := engine.Weights(
			context.Background(),
			domain.Portfolio{Holdings: []domain.Holding{
				{Ticker: "AAA", Shares: 1},
				{Ticker: "BBB", Shares: 1},
			}},
			util.NewDate(2024, 1, 2),
		)
		require.NoError(t, err)
		require.InDelta(t, 0.25, weights[0].Weight, 1e-12)
		require.InDelta(t, 0.75, weights[1].Weight, 1e-12)
	})

	t.Run("provider failure surfaces as a weight computation error", func(t *testing.T) {
		failing := newTestEngine(&fakeProvider{
			failing: map[string]error{"AAA": context.DeadlineExceeded},
		})

		_, err := failing.Weights(
			context.Background(),
			domain.Portfolio{Holdings: []domain.Holding{{Ticker: "AAA", Shares: 1}}},
			util.NewDate(2024, 1, 2),
		)
		var weightErr domain.WeightComputationError
		require.ErrorAs(t, err, &weightErr)
		var unavailable domain.DataUnavailableError
		require.ErrorAs(t, err, &unavailable)
	})
}
