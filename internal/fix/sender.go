package fix

import (
	"context"

	"go.uber.org/zap"

	"github.com/Checker-Finance/fix-adapter/internal/metrics"
	"github.com/Checker-Finance/fix-adapter/internal/order"
	"github.com/Checker-Finance/fix-adapter/internal/rate"
)

// Sender routes order submissions to the gateway. A submission is only
// attempted while the initiator is RUNNING; outside of that the order is
// rejected up front so callers can persist a REJECTED record.
type Sender struct {
	initiator *Initiator
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewSender constructs a sender bound to an initiator. limiter may be nil
// to disable submission pacing.
func NewSender(initiator *Initiator, limiter *rate.Limiter, logger *zap.Logger) *Sender {
	return &Sender{
		initiator: initiator,
		limiter:   limiter,
		logger:    logger,
	}
}

// Send forwards the submission as a NewOrderSingle frame. The returned
// result reflects whether the order was handed to the session, not the
// venue's verdict; that arrives later as an execution report.
func (s *Sender) Send(ctx context.Context, submission order.Submission) order.SendResult {
	status := s.initiator.Status()
	if status.Status != StatusRunning {
		s.logger.Warn("fix.sender.rejected",
			zap.String("clOrdId", submission.ClOrdID),
			zap.String("status", string(status.Status)))
		return order.SendResult{
			Accepted: false,
			Message:  "order rejected: FIX initiator is not RUNNING (current status: " + string(status.Status) + ")",
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			s.logger.Warn("fix.sender.rate_wait_canceled",
				zap.String("clOrdId", submission.ClOrdID),
				zap.Error(err))
			return order.SendResult{
				Accepted: false,
				Message:  "order rejected: canceled while waiting for submission slot",
			}
		}
	}

	transport, ok := s.initiator.Transport()
	if !ok {
		s.logger.Warn("fix.sender.no_transport", zap.String("clOrdId", submission.ClOrdID))
		return order.SendResult{
			Accepted: false,
			Message:  "order rejected: FIX session transport is not available",
		}
	}

	if err := transport.Send(ctx, FrameNewOrderSingle, NewOrderSingleFrom(submission)); err != nil {
		metrics.IncError("fix_sender", "send")
		s.logger.Error("fix.sender.send_failed",
			zap.String("clOrdId", submission.ClOrdID),
			zap.Error(err))
		return order.SendResult{
			Accepted: true,
			Message:  "order accepted for session delivery; initial send failed and will surface via execution reports",
		}
	}

	s.logger.Info("fix.sender.sent",
		zap.String("clOrdId", submission.ClOrdID),
		zap.String("symbol", submission.Symbol))
	return order.SendResult{Accepted: true}
}
