package api

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/fix-adapter/internal/execution"
	"github.com/Checker-Finance/fix-adapter/internal/fix"
	"github.com/Checker-Finance/fix-adapter/internal/market"
	"github.com/Checker-Finance/fix-adapter/internal/order"
)

// OrderService defines the order operations needed by the handler.
type OrderService interface {
	CreateOrder(ctx context.Context, params order.CreateParams) (order.Record, error)
	ListOrders() []order.Record
	GetOrder(orderID uuid.UUID) (order.Record, bool)
}

// ExecutionService defines the reconciliation operations needed by the handler.
type ExecutionService interface {
	ApplyExecutionReport(ctx context.Context, event execution.ReportEvent)
	LatestFor(key string) (execution.State, bool)
	RecentReports() []execution.ReportEvent
}

// FixController drives and inspects the FIX session lifecycle.
type FixController interface {
	Start(ctx context.Context) error
	Stop()
	Status() fix.ServiceStatus
}

// MarketService exposes the quote store.
type MarketService interface {
	Simulate(update market.Update) (market.Quote, error)
	Quote(symbol string) (market.Quote, bool)
	Quotes() []market.Quote
	FeedStatus() market.Status
}

// Handler handles HTTP API requests for the adapter.
type Handler struct {
	logger    *zap.Logger
	orders    OrderService
	execution ExecutionService
	initiator FixController
	marketSvc MarketService
}

// NewHandler creates a new Handler.
func NewHandler(
	logger *zap.Logger,
	orders OrderService,
	executionSvc ExecutionService,
	initiator FixController,
	marketSvc MarketService,
) *Handler {
	return &Handler{
		logger:    logger,
		orders:    orders,
		execution: executionSvc,
		initiator: initiator,
		marketSvc: marketSvc,
	}
}

// CreateOrderHandler handles order submission requests.
func (h *Handler) CreateOrderHandler(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	side, _ := order.SideFromString(req.Side)
	ordType, _ := order.OrdTypeFromString(req.Type)
	tif, ok := order.TimeInForceFromString(req.TIF)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tif must be one of DAY, GTC, IOC, FOK"})
	}

	record, err := h.orders.CreateOrder(c.Context(), order.CreateParams{
		ClOrdID: req.ClOrdID,
		Symbol:  req.Symbol,
		Side:    side,
		Qty:     req.Qty,
		Type:    ordType,
		Price:   req.Price,
		TIF:     tif,
	})
	if err != nil {
		h.logger.Error("api.create_order.failed",
			zap.String("symbol", req.Symbol),
			zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// ListOrdersHandler returns all known orders, newest first.
func (h *Handler) ListOrdersHandler(c *fiber.Ctx) error {
	return c.JSON(OrderListResponse{Orders: h.orders.ListOrders()})
}

// GetOrderHandler returns a single order together with its merged
// execution state, when any reports have been heard for it.
func (h *Handler) GetOrderHandler(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "orderId must be a UUID"})
	}

	record, ok := h.orders.GetOrder(orderID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}

	detail := OrderDetailResponse{Order: record}
	if state, ok := h.execution.LatestFor(record.ClOrdID); ok {
		detail.Execution = &state
	} else if state, ok := h.execution.LatestFor(record.OrderID.String()); ok {
		detail.Execution = &state
	}

	return c.JSON(detail)
}

// ListExecReportsHandler returns the bounded raw report log, newest first.
func (h *Handler) ListExecReportsHandler(c *fiber.Ctx) error {
	return c.JSON(ExecReportListResponse{Reports: h.execution.RecentReports()})
}

// GetExecStateHandler returns the merged execution state for an order key
// (either a clOrdId or a venue order ID).
func (h *Handler) GetExecStateHandler(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	state, ok := h.execution.LatestFor(key)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no execution state for key"})
	}
	return c.JSON(state)
}

// SimulateExecReportHandler feeds a synthetic execution report through the
// same reconciliation path used for gateway reports.
func (h *Handler) SimulateExecReportHandler(c *fiber.Ctx) error {
	var req SimulateExecReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	event := execution.ReportEvent{
		ClOrdID:   req.ClOrdID,
		OrderID:   req.OrderID,
		ExecType:  req.ExecType,
		OrdStatus: req.OrdStatus,
		CumQty:    req.CumQty,
		LeavesQty: req.LeavesQty,
		AvgPx:     req.AvgPx,
		LastPx:    req.LastPx,
		LastQty:   req.LastQty,
		Text:      req.Text,
		UpdatedAt: time.Now().UTC(),
	}

	h.execution.ApplyExecutionReport(c.Context(), event)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

// StartFixHandler starts the FIX initiator.
func (h *Handler) StartFixHandler(c *fiber.Ctx) error {
	if err := h.initiator.Start(c.Context()); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":  err.Error(),
			"status": h.initiator.Status(),
		})
	}
	return c.JSON(h.initiator.Status())
}

// StopFixHandler stops the FIX initiator.
func (h *Handler) StopFixHandler(c *fiber.Ctx) error {
	h.initiator.Stop()
	return c.JSON(h.initiator.Status())
}

// FixStatusHandler reports the initiator status snapshot.
func (h *Handler) FixStatusHandler(c *fiber.Ctx) error {
	return c.JSON(h.initiator.Status())
}

// ListQuotesHandler returns all tracked quotes.
func (h *Handler) ListQuotesHandler(c *fiber.Ctx) error {
	return c.JSON(QuoteListResponse{Quotes: h.marketSvc.Quotes()})
}

// GetQuoteHandler returns the latest quote for a symbol.
func (h *Handler) GetQuoteHandler(c *fiber.Ctx) error {
	quote, ok := h.marketSvc.Quote(c.Params("symbol"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no quote for symbol"})
	}
	return c.JSON(quote)
}

// MarketStatusHandler summarizes the market data feed.
func (h *Handler) MarketStatusHandler(c *fiber.Ctx) error {
	return c.JSON(h.marketSvc.FeedStatus())
}

// SimulateQuoteHandler injects a synthetic quote.
func (h *Handler) SimulateQuoteHandler(c *fiber.Ctx) error {
	var req SimulateQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quote, err := h.marketSvc.Simulate(market.Update{
		Symbol: req.Symbol,
		Bid:    req.Bid,
		Ask:    req.Ask,
		Last:   req.Last,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}
