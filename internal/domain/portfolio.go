package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Holding is one lot in a portfolio, in exactly one of two shapes:
// share-based (Ticker + Shares) or cost-basis (Ticker + PurchaseDate +
// AmountInvested). A portfolio mixing the two shapes is rejected at
// validation; the valuation math for the two is not comparable.
type Holding struct {
	Ticker         string
	Shares         float64
	PurchaseDate   time.Time
	AmountInvested float64
}

func (h Holding) IsCostBasis() bool {
	return h.AmountInvested != 0 || !h.PurchaseDate.IsZero()
}

func (h Holding) Validate() error {
	if h.Ticker == "" {
		return fmt.Errorf("holding is missing ticker")
	}
	if h.IsCostBasis() {
		if h.Shares != 0 {
			return fmt.Errorf("holding %s mixes shares and cost-basis fields", h.Ticker)
		}
		if h.AmountInvested <= 0 {
			return fmt.Errorf("holding %s has non-positive amount invested", h.Ticker)
		}
		if h.PurchaseDate.IsZero() {
			return fmt.Errorf("holding %s is missing purchase date", h.Ticker)
		}
		return nil
	}
	if h.Shares <= 0 {
		return fmt.Errorf("holding %s has non-positive share count", h.Ticker)
	}
	return nil
}

// holdingJson is the wire shape. nShares is accepted as an alias for
// shares, for portfolio files produced by older tooling.
type holdingJson struct {
	Ticker         string   `json:"ticker"`
	Shares         *float64 `json:"shares"`
	NShares        *float64 `json:"nShares"`
	PurchaseDate   *string  `json:"purchaseDate"`
	AmountInvested *float64 `json:"amountInvested"`
}

func (h *Holding) UnmarshalJSON(b []byte) error {
	raw := holdingJson{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	h.Ticker = raw.Ticker
	if raw.Shares != nil {
		h.Shares = *raw.Shares
	} else if raw.NShares != nil {
		h.Shares = *raw.NShares
	}
	if raw.AmountInvested != nil {
		h.AmountInvested = *raw.AmountInvested
	}
	if raw.PurchaseDate != nil {
		d, err := time.Parse(time.DateOnly, *raw.PurchaseDate)
		if err != nil {
			return fmt.Errorf("invalid purchase date for %s: %w", raw.Ticker, err)
		}
		h.PurchaseDate = d
	}
	return nil
}

func (h Holding) MarshalJSON() ([]byte, error) {
	raw := holdingJson{Ticker: h.Ticker}
	if h.IsCostBasis() {
		d := h.PurchaseDate.Format(time.DateOnly)
		raw.PurchaseDate = &d
		raw.AmountInvested = &h.AmountInvested
	} else {
		raw.Shares = &h.Shares
	}
	return json.Marshal(raw)
}

// Portfolio is an ordered list of lots. Tickers may repeat; repeated
// tickers are separate lots and are never merged.
type Portfolio struct {
	Holdings []Holding
}

func (p Portfolio) Validate() error {
	if len(p.Holdings) == 0 {
		return fmt.Errorf("portfolio has no holdings")
	}
	costBasis := p.Holdings[0].IsCostBasis()
	for _, h := range p.Holdings {
		if err := h.Validate(); err != nil {
			return err
		}
		if h.IsCostBasis() != costBasis {
			return fmt.Errorf("portfolio mixes share-based and cost-basis holdings")
		}
	}
	return nil
}

func (p Portfolio) IsCostBasis() bool {
	return len(p.Holdings) > 0 && p.Holdings[0].IsCostBasis()
}

// HeldSymbols returns the distinct tickers, in first-appearance order.
func (p Portfolio) HeldSymbols() []string {
	seen := map[string]bool{}
	symbols := []string{}
	for _, h := range p.Holdings {
		if !seen[h.Ticker] {
			seen[h.Ticker] = true
			symbols = append(symbols, h.Ticker)
		}
	}
	return symbols
}

func LoadPortfolio(path string) (*Portfolio, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open portfolio file: %w", err)
	}

	holdings := []Holding{}
	if err := json.Unmarshal(f, &holdings); err != nil {
		return nil, fmt.Errorf("could not parse portfolio file: %w", err)
	}

	p := &Portfolio{Holdings: holdings}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}
