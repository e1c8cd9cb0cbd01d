package csvsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"portfoliorisk/internal/domain"

	"github.com/gocarina/gocsv"
)

// Client serves price history from per-symbol CSV files on disk,
// one file per symbol (<dir>/<SYMBOL>.csv) with date,close columns.
// It exists so the engine can run against canned historical data
// instead of a live market feed.
type Client struct {
	Dir string
}

func NewClient(dir string) *Client {
	return &Client{Dir: dir}
}

type priceRow struct {
	Date  string  `csv:"date"`
	Close float64 `csv:"close"`
}

func (c *Client) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (*domain.PriceSeries, error) {
	rows, err := c.readRows(symbol)
	if err != nil {
		return nil, err
	}

	prices := []domain.AssetPrice{}
	for _, row := range rows {
		date, err := time.Parse(time.DateOnly, row.Date)
		if err != nil {
			return nil, fmt.Errorf("bad date %q in %s.csv: %w", row.Date, symbol, err)
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		prices = append(prices, domain.AssetPrice{
			Symbol: symbol,
			Date:   date,
			Price:  row.Close,
		})
	}

	return domain.NewPriceSeries(symbol, prices)
}

func (c *Client) FetchLatest(ctx context.Context, symbol string) (domain.AssetPrice, error) {
	rows, err := c.readRows(symbol)
	if err != nil {
		return domain.AssetPrice{}, err
	}

	latest := domain.AssetPrice{}
	for _, row := range rows {
		date, err := time.Parse(time.DateOnly, row.Date)
		if err != nil {
			return domain.AssetPrice{}, fmt.Errorf("bad date %q in %s.csv: %w", row.Date, symbol, err)
		}
		if latest.Date.IsZero() || date.After(latest.Date) {
			latest = domain.AssetPrice{Symbol: symbol, Date: date, Price: row.Close}
		}
	}
	if latest.Date.IsZero() {
		return domain.AssetPrice{}, domain.UnknownTickerError{Symbol: symbol}
	}

	return latest, nil
}

func (c *Client) readRows(symbol string) ([]priceRow, error) {
	path := filepath.Join(c.Dir, symbol+".csv")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, domain.UnknownTickerError{Symbol: symbol}
	} else if err != nil {
		return nil, domain.DataUnavailableError{Symbol: symbol, Err: err}
	}
	defer f.Close()

	rows := []priceRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, domain.DataUnavailableError{Symbol: symbol, Err: err}
	}

	return rows, nil
}
