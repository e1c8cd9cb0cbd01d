package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestHolding_Validate(t *testing.T) {
	t.Run("share-based ok", func(t *testing.T) {
		err := Holding{Ticker: "AAPL", Shares: 10}.Validate()
		require.NoError(t, err)
	})

	t.Run("cost-basis ok", func(t *testing.T) {
		err := Holding{
			Ticker:         "AAPL",
			PurchaseDate:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			AmountInvested: 5000,
		}.Validate()
		require.NoError(t, err)
	})

	t.Run("missing ticker", func(t *testing.T) {
		err := Holding{Shares: 10}.Validate()
		require.Error(t, err)
	})

	t.Run("zero shares", func(t *testing.T) {
		err := Holding{Ticker: "AAPL"}.Validate()
		require.Error(t, err)
	})

	t.Run("negative shares", func(t *testing.T) {
		err := Holding{Ticker: "AAPL", Shares: -1}.Validate()
		require.Error(t, err)
	})

	t.Run("cost-basis without purchase date", func(t *testing.T) {
		err := Holding{Ticker: "AAPL", AmountInvested: 5000}.Validate()
		require.Error(t, err)
	})

	t.Run("holding mixing both shapes", func(t *testing.T) {
		err := Holding{
			Ticker:         "AAPL",
			Shares:         10,
			PurchaseDate:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			AmountInvested: 5000,
		}.Validate()
		require.Error(t, err)
	})
}

func TestPortfolio_Validate(t *testing.T) {
	t.Run("empty portfolio rejected", func(t *testing.T) {
		err := Portfolio{}.Validate()
		require.Error(t, err)
	})

	t.Run("mixed variants rejected", func(t *testing.T) {
		err := Portfolio{Holdings: []Holding{
			{Ticker: "AAPL", Shares: 10},
			{Ticker: "MSFT", PurchaseDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), AmountInvested: 1000},
		}}.Validate()
		require.ErrorContains(t, err, "mixes")
	})

	t.Run("duplicate tickers are separate lots", func(t *testing.T) {
		p := Portfolio{Holdings: []Holding{
			{Ticker: "AAPL", Shares: 10},
			{Ticker: "MSFT", Shares: 5},
			{Ticker: "AAPL", Shares: 3},
		}}
		require.NoError(t, p.Validate())
		require.Equal(
			t,
			"",
			cmp.Diff([]string{"AAPL", "MSFT"}, p.HeldSymbols()),
		)
		require.Len(t, p.Holdings, 3)
	})
}

func TestHolding_UnmarshalJSON(t *testing.T) {
	t.Run("shares field", func(t *testing.T) {
		h := Holding{}
		err := json.Unmarshal([]byte(`{"ticker": "AAPL", "shares": 10}`), &h)
		require.NoError(t, err)
		require.Equal(t, "AAPL", h.Ticker)
		require.Equal(t, float64(10), h.Shares)
		require.False(t, h.IsCostBasis())
	})

	t.Run("nShares alias", func(t *testing.T) {
		h := Holding{}
		err := json.Unmarshal([]byte(`{"ticker": "TSLA", "nShares": 2.5}`), &h)
		require.NoError(t, err)
		require.Equal(t, 2.5, h.Shares)
	})

	t.Run("cost-basis shape", func(t *testing.T) {
		h := Holding{}
		err := json.Unmarshal([]byte(`{"ticker": "NVDA", "purchaseDate": "2023-11-06", "amountInvested": 1500}`), &h)
		require.NoError(t, err)
		require.True(t, h.IsCostBasis())
		require.Equal(t, time.Date(2023, 11, 6, 0, 0, 0, 0, time.UTC), h.PurchaseDate)
		require.Equal(t, float64(1500), h.AmountInvested)
	})

	t.Run("bad purchase date", func(t *testing.T) {
		h := Holding{}
		err := json.Unmarshal([]byte(`{"ticker": "NVDA", "purchaseDate": "11/06/2023", "amountInvested": 1500}`), &h)
		require.Error(t, err)
	})
}
