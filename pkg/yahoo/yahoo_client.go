package yahoo

import (
	"context"
	"fmt"
	"time"

	"portfoliorisk/internal/domain"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
)

// Client fetches daily closes from Yahoo Finance. Transport failures
// come back as domain.DataUnavailableError so callers can treat them
// as retryable.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (*domain.PriceSeries, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	prices := []domain.AssetPrice{}
	for iter.Next() {
		prices = append(prices, domain.AssetPrice{
			Symbol: symbol,
			Date:   time.Unix(int64(iter.Bar().Timestamp), 0).UTC(),
			Price:  iter.Bar().AdjClose.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, domain.DataUnavailableError{Symbol: symbol, Err: err}
	}

	series, err := domain.NewPriceSeries(symbol, prices)
	if err != nil {
		return nil, fmt.Errorf("bad price history for %s: %w", symbol, err)
	}
	return series, nil
}

func (c *Client) FetchLatest(ctx context.Context, symbol string) (domain.AssetPrice, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return domain.AssetPrice{}, domain.DataUnavailableError{Symbol: symbol, Err: err}
	}
	if q == nil {
		return domain.AssetPrice{}, domain.UnknownTickerError{Symbol: symbol}
	}

	return domain.AssetPrice{
		Symbol: symbol,
		Price:  q.RegularMarketPrice,
		Date:   time.Unix(int64(q.RegularMarketTime), 0).UTC(),
	}, nil
}
