package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Checker-Finance/fix-adapter/internal/metrics"
	"github.com/Checker-Finance/fix-adapter/pkg/model"
)

// Submission is the normalized order handed to the venue sender.
type Submission struct {
	OrderID   uuid.UUID
	ClOrdID   string
	CreatedAt time.Time
	Symbol    string
	Side      Side
	Qty       int64
	Type      OrdType
	Price     *decimal.Decimal
	TIF       TimeInForce
}

// SendResult reports whether the venue accepted a submission and why.
type SendResult struct {
	Accepted bool
	Message  string
}

// Sender submits orders towards the venue. Implementations decide
// eligibility (e.g. reject while the FIX initiator is not RUNNING).
type Sender interface {
	Send(ctx context.Context, submission Submission) SendResult
}

// StatusPublisher emits canonical order status events.
type StatusPublisher interface {
	PublishOrderStatus(ctx context.Context, event model.OrderStatusEvent) error
}

// CreateParams carries validated order creation input.
type CreateParams struct {
	ClOrdID string // optional; defaults to the generated order ID
	Symbol  string
	Side    Side
	Qty     int64
	Type    OrdType
	Price   *decimal.Decimal
	TIF     TimeInForce
}

// Service owns order creation and read access to the order store.
type Service struct {
	sender    Sender
	store     *Store
	publisher StatusPublisher // optional
	logger    *zap.Logger
}

// NewService creates a new order service.
func NewService(sender Sender, store *Store, publisher StatusPublisher, logger *zap.Logger) *Service {
	return &Service{
		sender:    sender,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateOrder submits a new order and records it. The record starts in NEW
// when the submission was accepted (the venue confirms via execution
// reports), or REJECTED with the sender's reason when it was not.
func (s *Service) CreateOrder(ctx context.Context, params CreateParams) (Record, error) {
	if err := validate(params); err != nil {
		return Record{}, err
	}

	orderID := uuid.New()
	clOrdID := strings.TrimSpace(params.ClOrdID)
	if clOrdID == "" {
		clOrdID = orderID.String()
	}

	var price *decimal.Decimal
	if params.Type == TypeLimit {
		price = params.Price
	}

	submission := Submission{
		OrderID:   orderID,
		ClOrdID:   clOrdID,
		CreatedAt: time.Now().UTC(),
		Symbol:    strings.ToUpper(strings.TrimSpace(params.Symbol)),
		Side:      params.Side,
		Qty:       params.Qty,
		Type:      params.Type,
		Price:     price,
		TIF:       params.TIF,
	}

	result := s.sender.Send(ctx, submission)
	status := StatusNew
	if !result.Accepted {
		status = StatusRejected
	}

	record := Record{
		OrderID:   submission.OrderID,
		ClOrdID:   submission.ClOrdID,
		CreatedAt: submission.CreatedAt,
		Symbol:    submission.Symbol,
		Side:      submission.Side,
		Qty:       submission.Qty,
		Type:      submission.Type,
		Price:     submission.Price,
		TIF:       submission.TIF,
		Status:    status,
		Message:   result.Message,
	}

	if err := s.store.Add(record); err != nil {
		return Record{}, fmt.Errorf("store order %s: %w", record.OrderID, err)
	}

	metrics.IncOrderCreated(string(status))
	s.logger.Info("order.created",
		zap.String("order_id", record.OrderID.String()),
		zap.String("symbol", record.Symbol),
		zap.String("status", string(record.Status)),
	)
	s.publishStatus(ctx, record)

	return record, nil
}

// ListOrders returns all known orders, most recently created first.
func (s *Service) ListOrders() []Record {
	return s.store.ListRecent()
}

// GetOrder looks up a single order by its primary identifier.
func (s *Service) GetOrder(orderID uuid.UUID) (Record, bool) {
	return s.store.FindByOrderID(orderID)
}

func (s *Service) publishStatus(ctx context.Context, record Record) {
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
		s.logger.Warn("order.status_publish_failed",
			zap.String("order_id", record.OrderID.String()),
			zap.Error(err))
	}
}

func validate(params CreateParams) error {
	if strings.TrimSpace(params.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if params.Side != SideBuy && params.Side != SideSell {
		return fmt.Errorf("side must be BUY or SELL")
	}
	if params.Qty <= 0 {
		return fmt.Errorf("qty must be greater than 0")
	}
	if params.Type != TypeMarket && params.Type != TypeLimit {
		return fmt.Errorf("type must be MARKET or LIMIT")
	}
	if params.TIF == "" {
		return fmt.Errorf("tif is required")
	}
	if params.Type == TypeLimit {
		if params.Price == nil {
			return fmt.Errorf("price is required for LIMIT orders")
		}
		if params.Price.Sign() <= 0 {
			return fmt.Errorf("price must be greater than 0")
		}
	}
	return nil
}
