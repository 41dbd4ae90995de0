package market

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockPriceProvider struct {
	Prices map[string]decimal.Decimal
	Err    error
}

func (m *MockPriceProvider) LatestPrice(_ context.Context, ticker string) (decimal.Decimal, error) {
	if m.Err != nil {
		return decimal.Zero, m.Err
	}
	p, ok := m.Prices[ticker]
	if !ok {
		return decimal.Zero, ErrNoTrade
	}
	return p, nil
}

func TestDeviation(t *testing.T) {
	tests := []struct {
		ref, obs string
		want     string
	}{
		{"100", "101.5", "1.5"},
		{"100", "98", "2"},
		{"200", "200", "0"},
		{"0", "10", "0"},
	}
	for _, tt := range tests {
		got := Deviation(decimal.RequireFromString(tt.ref), decimal.RequireFromString(tt.obs))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s vs %s = %s", tt.ref, tt.obs, got)
	}
}

func TestCrossCheck(t *testing.T) {
	p := &MockPriceProvider{Prices: map[string]decimal.Decimal{"SPY": decimal.NewFromInt(500)}}

	c, err := CrossCheck(context.Background(), p, "spy", 490, 1.5)
	require.NoError(t, err)
	assert.Equal(t, "SPY", c.Ticker)
	assert.True(t, c.Exceeded)
	assert.Equal(t, "SPY reported $490.00 vs market $500.00 (2.04%)", c.String())

	c, err = CrossCheck(context.Background(), p, "SPY", 499, 1.5)
	require.NoError(t, err)
	assert.False(t, c.Exceeded)
}

func TestCrossCheck_ProviderError(t *testing.T) {
	p := &MockPriceProvider{Err: errors.New("rate limited")}
	_, err := CrossCheck(context.Background(), p, "SPY", 500, 1)
	assert.Error(t, err)

	_, err = CrossCheck(context.Background(), &MockPriceProvider{}, "QQQ", 400, 1)
	assert.ErrorIs(t, err, ErrNoTrade)
}
