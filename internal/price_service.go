package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portfoliorisk/internal/domain"
)

/**

behavior - when i ask for a price, it should come out of the preloaded
cache without another provider round trip. if the requested day is a
weekend or holiday, walk back to the most recent trading day and use
that price.

the walk is bounded: a symbol that never hits a trading day within the
lookback fails with a typed error instead of looping forever against
the provider.

*/

// PriceProvider is the boundary to the external price source. fetch
// failures surface as domain.DataUnavailableError; the engine treats
// them as fatal to whichever computation triggered them.
type PriceProvider interface {
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) (*domain.PriceSeries, error)
	FetchLatest(ctx context.Context, symbol string) (domain.AssetPrice, error)
}

// DefaultMaxLookbackDays bounds the backward walk for non-trading
// days. 10 calendar days is enough to cross any holiday cluster.
const DefaultMaxLookbackDays = 10

type PriceService interface {
	LoadCache(ctx context.Context, symbols []string, start, end time.Time) (*PriceCache, error)
}

type priceServiceHandler struct {
	Provider        PriceProvider
	MaxLookbackDays int
}

func NewPriceService(provider PriceProvider, maxLookbackDays int) PriceService {
	if maxLookbackDays <= 0 {
		maxLookbackDays = DefaultMaxLookbackDays
	}
	return &priceServiceHandler{
		Provider:        provider,
		MaxLookbackDays: maxLookbackDays,
	}
}

type PriceCache struct {
	mu              *sync.RWMutex
	series          map[string]*domain.PriceSeries
	maxLookbackDays int
}

// Get resolves the closing price for symbol effective on date: the
// entry at date itself if it is a trading day, otherwise the most
// recent prior trading day within the lookback window. today is
// caller-supplied so resolution stays a pure function of its inputs.
func (pr *PriceCache) Get(symbol string, date, today time.Time) (domain.AssetPrice, error) {
	date = midnightUTC(date)
	today = midnightUTC(today)

	if date.After(today) {
		return domain.AssetPrice{}, domain.FutureDateError{Date: date, Today: today}
	}

	pr.mu.RLock()
	series, ok := pr.series[symbol]
	pr.mu.RUnlock()
	if !ok || series.Len() == 0 {
		return domain.AssetPrice{}, domain.UnknownTickerError{Symbol: symbol}
	}

	for i := 0; i <= pr.maxLookbackDays; i++ {
		d := date.AddDate(0, 0, -i)
		if price, ok := series.At(d); ok {
			return domain.AssetPrice{Symbol: symbol, Price: price, Date: d}, nil
		}
	}

	return domain.AssetPrice{}, domain.NoPriceDataError{
		Symbol:       symbol,
		Date:         date,
		LookbackDays: pr.maxLookbackDays,
	}
}

// Series returns the raw preloaded series for a symbol.
func (pr *PriceCache) Series(symbol string) (*domain.PriceSeries, error) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	series, ok := pr.series[symbol]
	if !ok {
		return nil, domain.UnknownTickerError{Symbol: symbol}
	}
	return series, nil
}

// LoadCache fetches history for every symbol up front. Fetches fan
// out one goroutine per symbol; results land in an index-addressed
// slice so the assembled cache does not depend on completion order.
func (h *priceServiceHandler) LoadCache(ctx context.Context, symbols []string, start, end time.Time) (*PriceCache, error) {
	out := make([]*domain.PriceSeries, len(symbols))
	errs := make([]error, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			series, err := h.Provider.FetchHistory(ctx, symbol, start, end)
			if err != nil {
				errs[i] = fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
				return
			}
			out[i] = series
		}(i, symbol)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	cache := map[string]*domain.PriceSeries{}
	for i, symbol := range symbols {
		cache[symbol] = out[i]
	}

	return &PriceCache{
		mu:              &sync.RWMutex{},
		series:          cache,
		maxLookbackDays: h.MaxLookbackDays,
	}, nil
}

// NewPriceCacheFromSeries builds a cache directly from canned series,
// bypassing the provider. Used by tests and the best-effort scan.
func NewPriceCacheFromSeries(series map[string]*domain.PriceSeries, maxLookbackDays int) *PriceCache {
	if maxLookbackDays <= 0 {
		maxLookbackDays = DefaultMaxLookbackDays
	}
	return &PriceCache{
		mu:              &sync.RWMutex{},
		series:          series,
		maxLookbackDays: maxLookbackDays,
	}
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
