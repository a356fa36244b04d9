package execution

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/fix-adapter/internal/metrics"
	"github.com/Checker-Finance/fix-adapter/internal/order"
	"github.com/Checker-Finance/fix-adapter/pkg/model"
)

// ReportPublisher emits canonical events derived from execution reports.
type ReportPublisher interface {
	PublishOrderStatus(ctx context.Context, event model.OrderStatusEvent) error
	PublishExecReport(ctx context.Context, event ReportEvent) error
}

// Service reconciles inbound execution reports into the execution state
// store and the order store. The upstream event stream is not guaranteed to
// be well-formed or order-complete, so every sub-step degrades to a no-op on
// malformed input; nothing on this path returns an error.
type Service struct {
	states    *StateStore
	orders    *order.Store
	publisher ReportPublisher // optional
	logger    *zap.Logger
}

// NewService creates a new reconciliation service.
func NewService(states *StateStore, orders *order.Store, publisher ReportPublisher, logger *zap.Logger) *Service {
	return &Service{
		states:    states,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

// ApplyExecutionReport folds one execution report into the current view.
// The state store is always updated first — it is the record of what we
// heard, independent of whether an order match is found. Order resolution
// tries the venue OrderID as a primary identifier, then falls back to the
// correlation ID.
func (s *Service) ApplyExecutionReport(ctx context.Context, event ReportEvent) {
	if !s.states.Update(event) {
		// No identity at all; nothing to attribute the report to.
		metrics.IncExecReport("dropped")
		s.logger.Debug("execution.apply.no_identity")
		return
	}
	s.publishReport(ctx, event)

	record, found := s.resolveOrder(event)
	if !found {
		// Expected: the order may not exist yet or belongs elsewhere.
		metrics.IncExecReport("unmatched")
		s.logger.Debug("execution.apply.unmatched",
			zap.String("order_id", event.OrderID),
			zap.String("cl_ord_id", event.ClOrdID))
		return
	}

	status, mapped := StatusFromCodes(event.ExecType, event.OrdStatus)
	text := strings.TrimSpace(event.Text)
	if !mapped && text == "" {
		// Nothing new to record on the order.
		metrics.IncExecReport("skipped")
		return
	}

	nextStatus := record.Status
	if mapped {
		nextStatus = status
	}
	nextMessage := record.Message
	if text != "" {
		nextMessage = text
	}

	updated := record.WithStatus(nextStatus, nextMessage)
	s.orders.Update(updated)
	metrics.IncExecReport("applied")
	s.logger.Info("execution.apply",
		zap.String("order_id", updated.OrderID.String()),
		zap.String("status", string(updated.Status)),
	)
	s.publishStatus(ctx, updated)
}

// resolveOrder tries the venue OrderID as a primary-identifier lookup, but
// only if it parses as one — a non-UUID value means "try the next strategy",
// not an error. The correlation ID is the fallback.
func (s *Service) resolveOrder(event ReportEvent) (order.Record, bool) {
	if orderID := strings.TrimSpace(event.OrderID); orderID != "" {
		if id, err := uuid.Parse(orderID); err == nil {
			if record, ok := s.orders.FindByOrderID(id); ok {
				return record, true
			}
		}
	}
	if clOrdID := strings.TrimSpace(event.ClOrdID); clOrdID != "" {
		return s.orders.FindByClOrdID(clOrdID)
	}
	return order.Record{}, false
}

// LatestFor returns the merged execution state for an order key.
func (s *Service) LatestFor(key string) (State, bool) {
	return s.states.LatestFor(key)
}

// RecentReports returns the bounded raw report log, most recent first.
func (s *Service) RecentReports() []ReportEvent {
	return s.states.RecentReports()
}

func (s *Service) publishStatus(ctx context.Context, record order.Record) {
	if s.publisher == nil {
		return
	}
	event := model.OrderStatusEvent{
		OrderID:   record.OrderID.String(),
		ClOrdID:   record.ClOrdID,
		Symbol:    record.Symbol,
		Side:      string(record.Side),
		Status:    string(record.Status),
		Message:   record.Message,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.PublishOrderStatus(ctx, event); err != nil {
		s.logger.Warn("execution.status_publish_failed",
			zap.String("order_id", record.OrderID.String()),
			zap.Error(err))
	}
}

func (s *Service) publishReport(ctx context.Context, event ReportEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExecReport(ctx, event); err != nil {
		s.logger.Warn("execution.report_publish_failed", zap.Error(err))
	}
}
