package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoTrade means the provider has no recent trade for the ticker.
var ErrNoTrade = errors.New("no trade found")

// PriceProvider is the source the dashboard cross-checks reported prices
// against. Alpaca implements it; tests use a mock.
type PriceProvider interface {
	LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Check is the result of comparing a reported price with the provider's.
type Check struct {
	Ticker       string
	Reported     decimal.Decimal
	Observed     decimal.Decimal
	DeviationPct decimal.Decimal
	Exceeded     bool
}

func (c Check) String() string {
	return fmt.Sprintf("%s reported $%s vs market $%s (%s%%)",
		c.Ticker, c.Reported.StringFixed(2), c.Observed.StringFixed(2), c.DeviationPct.StringFixed(2))
}

// Deviation returns |observed - reference| / reference as a percentage.
// A zero reference yields zero.
func Deviation(reference, observed decimal.Decimal) decimal.Decimal {
	if reference.IsZero() {
		return decimal.Zero
	}
	return observed.Sub(reference).Abs().Div(reference).Mul(decimal.NewFromInt(100))
}

// CrossCheck fetches the latest trade for ticker and compares it with the
// reported price. Exceeded is set when the deviation is above thresholdPct.
func CrossCheck(ctx context.Context, p PriceProvider, ticker string, reported, thresholdPct float64) (Check, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	observed, err := p.LatestPrice(ctx, ticker)
	if err != nil {
		return Check{}, fmt.Errorf("latest price for %s: %w", ticker, err)
	}

	ref := decimal.NewFromFloat(reported)
	dev := Deviation(ref, observed)
	return Check{
		Ticker:       ticker,
		Reported:     ref,
		Observed:     observed,
		DeviationPct: dev,
		Exceeded:     dev.GreaterThan(decimal.NewFromFloat(thresholdPct)),
	}, nil
}
