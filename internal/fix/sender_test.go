package fix

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/fix-adapter/internal/order"
	"github.com/Checker-Finance/fix-adapter/internal/rate"
)

func testSubmission() order.Submission {
	return order.Submission{
		ClOrdID: "cl-1",
		Symbol:  "AAPL",
		Side:    order.SideBuy,
		Qty:     100,
		Type:    order.TypeMarket,
		TIF:     order.TIFDay,
	}
}

func TestSenderRejectsWhenNotRunning(t *testing.T) {
	initiator := newTestInitiator(newFakeTransport(), testCreds(), nil)
	sender := NewSender(initiator, nil, zap.NewNop())

	result := sender.Send(context.Background(), testSubmission())

	assert.False(t, result.Accepted)
	assert.Contains(t, result.Message, "not RUNNING")
	assert.Contains(t, result.Message, string(StatusStopped))
}

func TestSenderSendsWhileRunning(t *testing.T) {
	transport := newFakeTransport()
	initiator := newTestInitiator(transport, testCreds(), nil)
	require.NoError(t, initiator.Start(context.Background()))

	sender := NewSender(initiator, nil, zap.NewNop())
	result := sender.Send(context.Background(), testSubmission())

	assert.True(t, result.Accepted)
	assert.Empty(t, result.Message)

	// Frame 0 is the logon; frame 1 is our order.
	require.Len(t, transport.sent, 2)
	assert.Equal(t, FrameNewOrderSingle, transport.sent[1].T)
	var nos NewOrderSingle
	require.NoError(t, json.Unmarshal(transport.sent[1].D, &nos))
	assert.Equal(t, "cl-1", nos.ClOrdID)
	assert.Equal(t, "AAPL", nos.Symbol)
}

func TestSenderAcceptsDespiteSendFailure(t *testing.T) {
	transport := newFakeTransport()
	initiator := newTestInitiator(transport, testCreds(), nil)
	require.NoError(t, initiator.Start(context.Background()))
	transport.sendErr = errors.New("write: broken pipe")

	sender := NewSender(initiator, nil, zap.NewNop())
	result := sender.Send(context.Background(), testSubmission())

	// Once the session gate passed, the venue's verdict comes back through
	// execution reports; a transient write failure is not a rejection.
	assert.True(t, result.Accepted)
	assert.NotEmpty(t, result.Message)
}

func TestSenderRejectsAfterStop(t *testing.T) {
	transport := newFakeTransport()
	initiator := newTestInitiator(transport, testCreds(), nil)
	require.NoError(t, initiator.Start(context.Background()))
	initiator.Stop()

	sender := NewSender(initiator, nil, zap.NewNop())
	result := sender.Send(context.Background(), testSubmission())

	assert.False(t, result.Accepted)
	assert.Contains(t, result.Message, string(StatusStopped))
}

func TestSenderHonorsRateLimiterCancellation(t *testing.T) {
	transport := newFakeTransport()
	initiator := newTestInitiator(transport, testCreds(), nil)
	require.NoError(t, initiator.Start(context.Background()))

	limiter := rate.New(rate.Config{RequestsPerSecond: 1, Burst: 1})
	require.True(t, limiter.Allow()) // drain the bucket

	sender := NewSender(initiator, limiter, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := sender.Send(ctx, testSubmission())
	assert.False(t, result.Accepted)
	assert.Contains(t, result.Message, "waiting for submission slot")
}
