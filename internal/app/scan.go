package app

import (
	"context"
	"fmt"
	"time"

	"portfoliorisk/internal"
	"portfoliorisk/internal/domain"
	"portfoliorisk/internal/logger"
)

// staleAfterDays flags a symbol whose most recent close is older than
// this many calendar days before today.
const staleAfterDays = 7

type ScanIssue struct {
	Ticker string `json:"ticker"`
	Issue  string `json:"issue"`
}

type ScanReport struct {
	CheckedAt time.Time   `json:"checkedAt"`
	Holdings  int         `json:"holdings"`
	Issues    []ScanIssue `json:"issues"`
}

// Scan is a best-effort diagnostic pass over the portfolio: every
// holding is checked and problems are collected instead of aborting.
// It exists only for reporting - numeric results never come from
// here, they always go through the fail-fast paths.
func (e *Engine) Scan(ctx context.Context, portfolio domain.Portfolio, today time.Time) *ScanReport {
	log := logger.FromContext(ctx)
	report := &ScanReport{
		CheckedAt: today,
		Holdings:  len(portfolio.Holdings),
		Issues:    []ScanIssue{},
	}

	start := today.AddDate(0, 0, -(internal.DefaultMaxLookbackDays + staleAfterDays))

	caches := map[string]*internal.PriceCache{}
	for _, symbol := range portfolio.HeldSymbols() {
		cache, err := e.PriceService.LoadCache(ctx, []string{symbol}, start, today)
		if err != nil {
			report.Issues = append(report.Issues, ScanIssue{Ticker: symbol, Issue: err.Error()})
			continue
		}
		caches[symbol] = cache
	}

	for _, h := range portfolio.Holdings {
		if err := h.Validate(); err != nil {
			report.Issues = append(report.Issues, ScanIssue{Ticker: h.Ticker, Issue: err.Error()})
			continue
		}

		cache, ok := caches[h.Ticker]
		if !ok {
			continue
		}

		resolved, err := cache.Get(h.Ticker, today, today)
		if err != nil {
			report.Issues = append(report.Issues, ScanIssue{Ticker: h.Ticker, Issue: err.Error()})
			continue
		}

		if resolved.Date.Before(today.AddDate(0, 0, -staleAfterDays)) {
			report.Issues = append(report.Issues, ScanIssue{
				Ticker: h.Ticker,
				Issue:  fmt.Sprintf("last close is stale: %s", resolved.Date.Format(time.DateOnly)),
			})
		}
	}

	log.Infow("portfolio scan complete",
		"holdings", report.Holdings,
		"issues", len(report.Issues),
	)

	return report
}
