package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/fix-adapter/internal/execution"
	"github.com/Checker-Finance/fix-adapter/internal/fix"
	"github.com/Checker-Finance/fix-adapter/internal/market"
	"github.com/Checker-Finance/fix-adapter/internal/order"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type acceptAllSender struct{}

func (acceptAllSender) Send(context.Context, order.Submission) order.SendResult {
	return order.SendResult{Accepted: true}
}

type fakeFixController struct {
	status   fix.Status
	startErr error
	started  int
	stopped  int
}

func (f *fakeFixController) Start(context.Context) error {
	f.started++
	if f.startErr != nil {
		f.status = fix.StatusError
		return f.startErr
	}
	f.status = fix.StatusRunning
	return nil
}

func (f *fakeFixController) Stop() {
	f.stopped++
	f.status = fix.StatusStopped
}

func (f *fakeFixController) Status() fix.ServiceStatus {
	return fix.ServiceStatus{
		Status:   f.status,
		Sessions: []string{},
		Diagnostics: fix.Diagnostics{
			UpdatedAt: time.Now().UTC(),
		},
	}
}

func newTestApp(t *testing.T) (*fiber.App, *order.Store, *execution.Service, *fakeFixController) {
	t.Helper()

	orderStore := order.NewStore()
	stateStore := execution.NewStateStore()
	executionSvc := execution.NewService(stateStore, orderStore, nil, zap.NewNop())
	orderSvc := order.NewService(acceptAllSender{}, orderStore, nil, zap.NewNop())
	marketSvc := market.NewService(market.NewStore(), zap.NewNop())
	controller := &fakeFixController{status: fix.StatusStopped}

	app := fiber.New()
	handler := NewHandler(zap.NewNop(), orderSvc, executionSvc, controller, marketSvc)
	RegisterRoutes(app, nil, handler)

	return app, orderStore, executionSvc, controller
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, payload
}

func TestCreateOrderEndpoint(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	code, body := doJSON(t, app, "POST", "/api/v1/orders", CreateOrderRequest{
		Symbol: "AAPL",
		Side:   "BUY",
		Qty:    100,
		Type:   "LIMIT",
		Price:  dec("187.52"),
		TIF:    "DAY",
	})
	require.Equal(t, fiber.StatusCreated, code, string(body))

	var record order.Record
	require.NoError(t, json.Unmarshal(body, &record))
	assert.Equal(t, order.StatusNew, record.Status)
	assert.Equal(t, "AAPL", record.Symbol)
}

func TestCreateOrderEndpointValidation(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	code, _ := doJSON(t, app, "POST", "/api/v1/orders", CreateOrderRequest{
		Symbol: "AAPL",
		Side:   "HOLD",
		Qty:    100,
		Type:   "MARKET",
		TIF:    "DAY",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = doJSON(t, app, "POST", "/api/v1/orders", CreateOrderRequest{
		Symbol: "AAPL",
		Side:   "BUY",
		Qty:    100,
		Type:   "MARKET",
		TIF:    "NEXT-WEEK",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestGetOrderEndpointJoinsExecutionState(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	code, body := doJSON(t, app, "POST", "/api/v1/orders", CreateOrderRequest{
		Symbol: "AAPL", Side: "BUY", Qty: 100, Type: "MARKET", TIF: "DAY",
	})
	require.Equal(t, fiber.StatusCreated, code)
	var record order.Record
	require.NoError(t, json.Unmarshal(body, &record))

	// Before any report, the detail view has no execution block.
	code, body = doJSON(t, app, "GET", "/api/v1/orders/"+record.OrderID.String(), nil)
	require.Equal(t, fiber.StatusOK, code)
	var detail OrderDetailResponse
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Nil(t, detail.Execution)

	code, _ = doJSON(t, app, "POST", "/api/v1/exec-reports/simulate", SimulateExecReportRequest{
		ClOrdID:   record.ClOrdID,
		ExecType:  "1",
		OrdStatus: "1",
		CumQty:    dec("40"),
	})
	require.Equal(t, fiber.StatusAccepted, code)

	code, body = doJSON(t, app, "GET", "/api/v1/orders/"+record.OrderID.String(), nil)
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &detail))
	require.NotNil(t, detail.Execution)
	assert.Equal(t, "1", detail.Execution.OrdStatus)
	assert.Equal(t, order.StatusPartiallyFilled, detail.Order.Status)
}

func TestGetOrderEndpointErrors(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	code, _ := doJSON(t, app, "GET", "/api/v1/orders/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = doJSON(t, app, "GET", "/api/v1/orders/7d45ff81-0022-4078-9c76-26ee5ef763ac", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestSimulateExecReportValidation(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	// No identifiers at all.
	code, _ := doJSON(t, app, "POST", "/api/v1/exec-reports/simulate", SimulateExecReportRequest{
		ExecType:  "0",
		OrdStatus: "0",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = doJSON(t, app, "POST", "/api/v1/exec-reports/simulate", SimulateExecReportRequest{
		ClOrdID:   "cl-1",
		OrdStatus: "0",
	})
	assert.Equal(t, fiber.StatusBadRequest, code, "execType is required")
}

func TestExecReportLogAndStateEndpoints(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	code, _ := doJSON(t, app, "POST", "/api/v1/exec-reports/simulate", SimulateExecReportRequest{
		ClOrdID:   "cl-77",
		OrderID:   "V-77",
		ExecType:  "2",
		OrdStatus: "2",
		CumQty:    dec("10"),
	})
	require.Equal(t, fiber.StatusAccepted, code)

	code, body := doJSON(t, app, "GET", "/api/v1/exec-reports", nil)
	require.Equal(t, fiber.StatusOK, code)
	var list ExecReportListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Reports, 1)
	assert.Equal(t, "cl-77", list.Reports[0].ClOrdID)

	// Both keys resolve to the same merged state.
	for _, key := range []string{"cl-77", "V-77"} {
		code, body = doJSON(t, app, "GET", "/api/v1/exec-reports/"+key, nil)
		require.Equal(t, fiber.StatusOK, code)
		var state execution.State
		require.NoError(t, json.Unmarshal(body, &state))
		assert.Equal(t, "2", state.OrdStatus)
	}

	code, _ = doJSON(t, app, "GET", "/api/v1/exec-reports/unknown-key", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestFixLifecycleEndpoints(t *testing.T) {
	app, _, _, controller := newTestApp(t)

	code, body := doJSON(t, app, "GET", "/api/v1/fix/status", nil)
	require.Equal(t, fiber.StatusOK, code)
	var status fix.ServiceStatus
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, fix.StatusStopped, status.Status)

	code, _ = doJSON(t, app, "POST", "/api/v1/fix/start", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 1, controller.started)

	code, _ = doJSON(t, app, "POST", "/api/v1/fix/stop", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 1, controller.stopped)
}

func TestFixStartFailureReturnsBadGateway(t *testing.T) {
	app, _, _, controller := newTestApp(t)
	controller.startErr = assert.AnError

	code, body := doJSON(t, app, "POST", "/api/v1/fix/start", nil)
	assert.Equal(t, fiber.StatusBadGateway, code)
	assert.Contains(t, string(body), "error")
}

func TestMarketQuoteEndpoints(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	code, _ := doJSON(t, app, "POST", "/api/v1/market/quotes/simulate", SimulateQuoteRequest{
		Symbol: "aapl",
		Bid:    dec("187.40"),
		Ask:    dec("187.60"),
	})
	require.Equal(t, fiber.StatusCreated, code)

	code, body := doJSON(t, app, "GET", "/api/v1/market/quotes/AAPL", nil)
	require.Equal(t, fiber.StatusOK, code)
	var quote market.Quote
	require.NoError(t, json.Unmarshal(body, &quote))
	assert.Equal(t, market.SourceSimulated, quote.Source)

	code, body = doJSON(t, app, "GET", "/api/v1/market/quotes", nil)
	require.Equal(t, fiber.StatusOK, code)
	var quotes QuoteListResponse
	require.NoError(t, json.Unmarshal(body, &quotes))
	assert.Len(t, quotes.Quotes, 1)

	code, body = doJSON(t, app, "GET", "/api/v1/market/status", nil)
	require.Equal(t, fiber.StatusOK, code)
	var status market.Status
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, 1, status.Symbols)

	code, _ = doJSON(t, app, "GET", "/api/v1/market/quotes/MSFT", nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = doJSON(t, app, "POST", "/api/v1/market/quotes/simulate", SimulateQuoteRequest{
		Symbol: "AAPL",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestHealthEndpoint(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	// nil NATS connection reports degraded but the route still answers.
	code, body := doJSON(t, app, "GET", "/health", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Contains(t, string(body), "degraded")
}
