package calculator

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"portfoliorisk/internal/domain"

	"github.com/montanaflynn/stats"
)

// TradingDaysPerYear converts an annual risk-free rate to a daily one.
const TradingDaysPerYear = 252

// AlignmentPolicy controls which dates enter the aggregated portfolio
// return series when constituents have gaps in their histories.
type AlignmentPolicy string

const (
	// AlignUnion keeps a date if at least one constituent has a
	// return on it. This is the default.
	AlignUnion AlignmentPolicy = "union"
	// AlignIntersection keeps only dates where every constituent has
	// a return.
	AlignIntersection AlignmentPolicy = "intersection"
)

type SharpeRatioInput struct {
	// WeightsByTicker is each ticker's fraction of portfolio value,
	// summing to 1.
	WeightsByTicker map[string]float64
	// SeriesByTicker is each held ticker's price history over the
	// measurement window.
	SeriesByTicker map[string]*domain.PriceSeries
	// RiskFreeRateAnnual is e.g. 0.03 for 3% per year.
	RiskFreeRateAnnual float64
	Alignment          AlignmentPolicy
}

type SharpeRatioResult struct {
	// SharpeRatio is a per-day ratio. It is NOT annualized; callers
	// wanting an annualized figure multiply by sqrt(252) themselves.
	SharpeRatio       float64
	MeanDailyReturn   float64
	StdevDailyReturn  float64
	DailyRiskFreeRate float64
	Observations      int
}

// SharpeRatio reduces the weighted portfolio daily-return series to
// (mean - dailyRiskFree) / sample stddev. Returns are simple
// percentage returns; the stddev uses the n-1 denominator, per the
// usual finance convention.
func SharpeRatio(in SharpeRatioInput) (*SharpeRatioResult, error) {
	portfolioReturns, err := portfolioDailyReturns(in.WeightsByTicker, in.SeriesByTicker, in.Alignment)
	if err != nil {
		return nil, err
	}

	if len(portfolioReturns) < 2 {
		return nil, domain.DegenerateSeriesError{Observations: len(portfolioReturns)}
	}

	mean, err := stats.Mean(portfolioReturns)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate mean daily return: %w", err)
	}
	stdev, err := stats.StandardDeviationSample(portfolioReturns)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate stdev of daily returns: %w", err)
	}
	if stdev == 0 {
		return nil, domain.DegenerateSeriesError{Observations: len(portfolioReturns)}
	}

	dailyRiskFreeRate := in.RiskFreeRateAnnual / TradingDaysPerYear

	return &SharpeRatioResult{
		SharpeRatio:       (mean - dailyRiskFreeRate) / stdev,
		MeanDailyReturn:   mean,
		StdevDailyReturn:  stdev,
		DailyRiskFreeRate: dailyRiskFreeRate,
		Observations:      len(portfolioReturns),
	}, nil
}

type weightedReturns struct {
	ticker  string
	returns []domain.DailyReturn
}

// portfolioDailyReturns computes each ticker's weighted daily-return
// series and aligns them by date. Per-ticker computation fans out one
// goroutine per ticker; the merge is date-keyed, so the sum does not
// depend on completion order.
func portfolioDailyReturns(
	weightsByTicker map[string]float64,
	seriesByTicker map[string]*domain.PriceSeries,
	alignment AlignmentPolicy,
) ([]float64, error) {
	tickers := make([]string, 0, len(weightsByTicker))
	for ticker := range weightsByTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		series, ok := seriesByTicker[ticker]
		if !ok || series.Len() < 2 {
			return nil, domain.InsufficientDataError{Symbol: ticker}
		}
	}

	perTicker := make([]weightedReturns, len(tickers))

	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			weight := weightsByTicker[ticker]
			returns := seriesByTicker[ticker].DailyReturns()
			for j := range returns {
				returns[j].Return *= weight
			}
			perTicker[i] = weightedReturns{ticker: ticker, returns: returns}
		}(i, ticker)
	}
	wg.Wait()

	sums := map[time.Time]float64{}
	counts := map[time.Time]int{}
	for _, wr := range perTicker {
		for _, r := range wr.returns {
			sums[r.Date] += r.Return
			counts[r.Date]++
		}
	}

	dates := make([]time.Time, 0, len(sums))
	for date := range sums {
		if alignment == AlignIntersection && counts[date] != len(tickers) {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]float64, len(dates))
	for i, date := range dates {
		out[i] = sums[date]
	}

	return out, nil
}
