//go:build integration

package alpaca

import (
	"context"
	"os"
	"testing"
	"time"

	"quant_architect/internal/market"
)

func newTestProvider(t *testing.T) *Provider {
	key := os.Getenv("TEST_APCA_API_KEY_ID")
	secret := os.Getenv("TEST_APCA_API_SECRET_KEY")
	if key == "" || secret == "" {
		t.Skip("Skipping integration test: TEST_APCA credentials not set")
	}
	return NewProvider(key, secret)
}

func TestIntegration_LatestPrice(t *testing.T) {
	provider := newTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	price, err := provider.LatestPrice(ctx, "AAPL")
	if err != nil {
		t.Fatalf("LatestPrice failed: %v", err)
	}
	if !price.IsPositive() {
		t.Fatalf("expected a positive price, got %s", price)
	}
	t.Logf("AAPL last trade: $%s", price.StringFixed(2))
}

func TestIntegration_CrossCheck(t *testing.T) {
	provider := newTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	price, err := provider.LatestPrice(ctx, "SPY")
	if err != nil {
		t.Fatalf("LatestPrice failed: %v", err)
	}

	c, err := market.CrossCheck(ctx, provider, "spy", price.InexactFloat64(), 5)
	if err != nil {
		t.Fatalf("CrossCheck failed: %v", err)
	}
	if c.Exceeded {
		t.Errorf("same-source price should not deviate: %s", c)
	}
}

func TestIntegration_CancelledContext(t *testing.T) {
	provider := newTestProvider(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := provider.LatestPrice(ctx, "AAPL"); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
