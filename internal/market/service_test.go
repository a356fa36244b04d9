package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSimulateNormalizesSymbol(t *testing.T) {
	svc := NewService(NewStore(), zap.NewNop())

	quote, err := svc.Simulate(Update{Symbol: " aapl ", Bid: dec("187.50")})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, SourceSimulated, quote.Source)

	found, ok := svc.Quote("aapl")
	require.True(t, ok)
	assert.True(t, found.Bid.Equal(decimal.RequireFromString("187.50")))
}

func TestSimulateRejectsBadSymbols(t *testing.T) {
	svc := NewService(NewStore(), zap.NewNop())

	for _, symbol := range []string{"", "has spaces", "way-too-long-symbol-name-over-limit", "bad/slash"} {
		_, err := svc.Simulate(Update{Symbol: symbol, Last: dec("1")})
		assert.Error(t, err, "symbol %q should be rejected", symbol)
	}
}

func TestSimulateRejectsEmptyQuote(t *testing.T) {
	svc := NewService(NewStore(), zap.NewNop())
	_, err := svc.Simulate(Update{Symbol: "AAPL"})
	assert.Error(t, err)
}

func TestUpsertMergesFields(t *testing.T) {
	store := NewStore()
	svc := NewService(store, zap.NewNop())

	_, err := svc.Simulate(Update{Symbol: "AAPL", Bid: dec("187.40"), Ask: dec("187.60")})
	require.NoError(t, err)

	// A bid-only tick must keep the previously seen ask.
	quote, err := svc.Simulate(Update{Symbol: "AAPL", Bid: dec("187.45")})
	require.NoError(t, err)
	require.NotNil(t, quote.Ask)
	assert.True(t, quote.Ask.Equal(decimal.RequireFromString("187.60")))
}

func TestUpsertRejectsCrossedBook(t *testing.T) {
	svc := NewService(NewStore(), zap.NewNop())

	_, err := svc.Simulate(Update{Symbol: "AAPL", Ask: dec("187.60")})
	require.NoError(t, err)

	_, err = svc.Simulate(Update{Symbol: "AAPL", Bid: dec("190.00")})
	require.ErrorIs(t, err, ErrCrossedQuote)

	// Stored quote is unchanged after the rejected update.
	quote, ok := svc.Quote("AAPL")
	require.True(t, ok)
	assert.Nil(t, quote.Bid)
}

func TestApplyGatewayUpdateDropsInvalidTicks(t *testing.T) {
	store := NewStore()
	svc := NewService(store, zap.NewNop())

	svc.ApplyGatewayUpdate(Update{Symbol: "bad symbol", Last: dec("1")})
	assert.Equal(t, 0, store.Len())

	svc.ApplyGatewayUpdate(Update{Symbol: "MSFT", Last: dec("420.10")})
	require.Equal(t, 1, store.Len())

	quote, ok := svc.Quote("MSFT")
	require.True(t, ok)
	assert.Equal(t, SourceGateway, quote.Source)
}

func TestQuotesSortedBySymbol(t *testing.T) {
	svc := NewService(NewStore(), zap.NewNop())

	for _, symbol := range []string{"MSFT", "AAPL", "GOOG"} {
		_, err := svc.Simulate(Update{Symbol: symbol, Last: dec("1")})
		require.NoError(t, err)
	}

	quotes := svc.Quotes()
	require.Len(t, quotes, 3)
	assert.Equal(t, "AAPL", quotes[0].Symbol)
	assert.Equal(t, "MSFT", quotes[2].Symbol)
}
