package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

type AssetPrice struct {
	Symbol string
	Price  float64
	Date   time.Time
}

// PriceSeries holds one symbol's daily closing prices, keyed by
// day (time.DateOnly format). It is immutable after construction.
type PriceSeries struct {
	symbol string
	dates  []time.Time
	prices map[string]float64
}

// NewPriceSeries builds a series from provider output. Dates are
// deduplicated-checked and sorted ascending; prices must be positive
// finite numbers.
func NewPriceSeries(symbol string, prices []AssetPrice) (*PriceSeries, error) {
	s := &PriceSeries{
		symbol: symbol,
		dates:  []time.Time{},
		prices: map[string]float64{},
	}
	for _, p := range prices {
		if p.Price <= 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return nil, fmt.Errorf("invalid price %f for %s on %s", p.Price, symbol, p.Date.Format(time.DateOnly))
		}
		key := p.Date.Format(time.DateOnly)
		if _, ok := s.prices[key]; ok {
			return nil, fmt.Errorf("duplicate price entry for %s on %s", symbol, key)
		}
		s.prices[key] = p.Price
		s.dates = append(s.dates, midnight(p.Date))
	}
	sort.Slice(s.dates, func(i, j int) bool {
		return s.dates[i].Before(s.dates[j])
	})
	return s, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *PriceSeries) Symbol() string { return s.symbol }

func (s *PriceSeries) Len() int { return len(s.dates) }

// At returns the closing price on the exact given day, if one exists.
func (s *PriceSeries) At(date time.Time) (float64, bool) {
	price, ok := s.prices[date.Format(time.DateOnly)]
	return price, ok
}

// First returns the earliest entry in the series.
func (s *PriceSeries) First() (AssetPrice, bool) {
	if len(s.dates) == 0 {
		return AssetPrice{}, false
	}
	d := s.dates[0]
	return AssetPrice{Symbol: s.symbol, Date: d, Price: s.prices[d.Format(time.DateOnly)]}, true
}

// Latest returns the most recent entry in the series.
func (s *PriceSeries) Latest() (AssetPrice, bool) {
	if len(s.dates) == 0 {
		return AssetPrice{}, false
	}
	d := s.dates[len(s.dates)-1]
	return AssetPrice{Symbol: s.symbol, Date: d, Price: s.prices[d.Format(time.DateOnly)]}, true
}

// Dates returns the trading days in the series, ascending. The returned
// slice is a copy.
func (s *PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}
