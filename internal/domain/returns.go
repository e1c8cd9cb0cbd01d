package domain

import (
	"time"
)

type DailyReturn struct {
	Date   time.Time
	Return float64
}

// DailyReturns converts the series into simple percentage returns,
// (p[t] - p[t-1]) / p[t-1], for consecutive trading days. The first
// day of the series has no return. Log returns are deliberately not
// used, to match the standard Sharpe convention.
func (s *PriceSeries) DailyReturns() []DailyReturn {
	out := []DailyReturn{}
	for i := 1; i < len(s.dates); i++ {
		prev := s.prices[s.dates[i-1].Format(time.DateOnly)]
		cur := s.prices[s.dates[i].Format(time.DateOnly)]
		out = append(out, DailyReturn{
			Date:   s.dates[i],
			Return: (cur - prev) / prev,
		})
	}
	return out
}
