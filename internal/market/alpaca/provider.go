package alpaca

import (
	"context"
	"fmt"

	"quant_architect/internal/market"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// Provider implements market.PriceProvider with Alpaca market data.
type Provider struct {
	mdClient *marketdata.Client
	feed     marketdata.Feed
}

// Ensure Provider implements the interface
var _ market.PriceProvider = (*Provider)(nil)

// NewProvider returns a provider for the IEX feed, which paper accounts can
// read.
func NewProvider(keyID, secretKey string) *Provider {
	return &Provider{
		mdClient: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    keyID,
			APISecret: secretKey,
		}),
		feed: marketdata.IEX,
	}
}

// LatestPrice returns the price of the most recent trade. The SDK call is
// not cancellable, so ctx is only honoured before and after it.
func (p *Provider) LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	type reply struct {
		trade *marketdata.Trade
		err   error
	}
	ch := make(chan reply, 1)
	go func() {
		trade, err := p.mdClient.GetLatestTrade(ticker, marketdata.GetLatestTradeRequest{Feed: p.feed})
		ch <- reply{trade, err}
	}()

	select {
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return decimal.Zero, r.err
		}
		if r.trade == nil {
			return decimal.Zero, fmt.Errorf("%s: %w", ticker, market.ErrNoTrade)
		}
		return decimal.NewFromFloat(r.trade.Price), nil
	}
}
