package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/fix-adapter/pkg/model"
)

type fakeSender struct {
	result      SendResult
	submissions []Submission
}

func (f *fakeSender) Send(_ context.Context, submission Submission) SendResult {
	f.submissions = append(f.submissions, submission)
	return f.result
}

type fakeStatusPublisher struct {
	events []model.OrderStatusEvent
}

func (f *fakeStatusPublisher) PublishOrderStatus(_ context.Context, event model.OrderStatusEvent) error {
	f.events = append(f.events, event)
	return nil
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateOrderAccepted(t *testing.T) {
	sender := &fakeSender{result: SendResult{Accepted: true}}
	pub := &fakeStatusPublisher{}
	svc := NewService(sender, NewStore(), pub, zap.NewNop())

	record, err := svc.CreateOrder(context.Background(), CreateParams{
		Symbol: " aapl ",
		Side:   SideBuy,
		Qty:    100,
		Type:   TypeLimit,
		Price:  price("187.52"),
		TIF:    TIFDay,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusNew, record.Status)
	assert.Equal(t, "AAPL", record.Symbol)
	assert.Equal(t, record.OrderID.String(), record.ClOrdID, "clOrdId defaults to the order ID")
	require.Len(t, sender.submissions, 1)
	require.Len(t, pub.events, 1)
	assert.Equal(t, string(StatusNew), pub.events[0].Status)

	stored, ok := svc.GetOrder(record.OrderID)
	require.True(t, ok)
	assert.Equal(t, record, stored)
}

func TestCreateOrderRejectedBySender(t *testing.T) {
	sender := &fakeSender{result: SendResult{
		Accepted: false,
		Message:  "order rejected: FIX initiator is not RUNNING (current status: STOPPED)",
	}}
	svc := NewService(sender, NewStore(), nil, zap.NewNop())

	record, err := svc.CreateOrder(context.Background(), CreateParams{
		Symbol: "AAPL",
		Side:   SideSell,
		Qty:    5,
		Type:   TypeMarket,
		TIF:    TIFIOC,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, record.Status)
	assert.Contains(t, record.Message, "not RUNNING")

	// Rejected orders are still recorded for later inspection.
	stored, ok := svc.GetOrder(record.OrderID)
	require.True(t, ok)
	assert.Equal(t, StatusRejected, stored.Status)
}

func TestCreateOrderKeepsExplicitClOrdID(t *testing.T) {
	sender := &fakeSender{result: SendResult{Accepted: true}}
	svc := NewService(sender, NewStore(), nil, zap.NewNop())

	record, err := svc.CreateOrder(context.Background(), CreateParams{
		ClOrdID: "client-chosen-7",
		Symbol:  "MSFT",
		Side:    SideBuy,
		Qty:     1,
		Type:    TypeMarket,
		TIF:     TIFDay,
	})
	require.NoError(t, err)
	assert.Equal(t, "client-chosen-7", record.ClOrdID)
}

func TestCreateOrderDropsPriceForMarketOrders(t *testing.T) {
	sender := &fakeSender{result: SendResult{Accepted: true}}
	svc := NewService(sender, NewStore(), nil, zap.NewNop())

	record, err := svc.CreateOrder(context.Background(), CreateParams{
		Symbol: "MSFT",
		Side:   SideBuy,
		Qty:    1,
		Type:   TypeMarket,
		Price:  price("10"),
		TIF:    TIFDay,
	})
	require.NoError(t, err)
	assert.Nil(t, record.Price)
}

func TestCreateOrderValidation(t *testing.T) {
	sender := &fakeSender{result: SendResult{Accepted: true}}
	svc := NewService(sender, NewStore(), nil, zap.NewNop())

	tests := []struct {
		name   string
		params CreateParams
	}{
		{"missing symbol", CreateParams{Side: SideBuy, Qty: 1, Type: TypeMarket, TIF: TIFDay}},
		{"bad side", CreateParams{Symbol: "AAPL", Side: "LONG", Qty: 1, Type: TypeMarket, TIF: TIFDay}},
		{"zero qty", CreateParams{Symbol: "AAPL", Side: SideBuy, Qty: 0, Type: TypeMarket, TIF: TIFDay}},
		{"bad type", CreateParams{Symbol: "AAPL", Side: SideBuy, Qty: 1, Type: "STOP", TIF: TIFDay}},
		{"limit without price", CreateParams{Symbol: "AAPL", Side: SideBuy, Qty: 1, Type: TypeLimit, TIF: TIFDay}},
		{"limit with zero price", CreateParams{Symbol: "AAPL", Side: SideBuy, Qty: 1, Type: TypeLimit, Price: price("0"), TIF: TIFDay}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), tt.params)
			assert.Error(t, err)
			assert.Empty(t, sender.submissions, "invalid orders must not reach the sender")
		})
	}
}
