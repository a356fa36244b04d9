package fix

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Checker-Finance/fix-adapter/internal/execution"
	"github.com/Checker-Finance/fix-adapter/internal/order"
)

// Frame types exchanged with the FIX gateway. The gateway speaks the FIX
// session protocol towards the venue and relays application-level messages
// to us as JSON frames over a websocket.
const (
	FrameLogon           = "logon"
	FrameLogout          = "logout"
	FrameHeartbeat       = "heartbeat"
	FrameExecutionReport = "execution_report"
	FrameNewOrderSingle  = "new_order_single"
	FrameMarketData      = "market_data"
)

// Frame is the gateway's websocket envelope.
type Frame struct {
	T string          `json:"t"` // frame type
	D json.RawMessage `json:"d"` // payload
}

// NewFrame builds a frame of the given type around a JSON payload.
func NewFrame(frameType string, payload interface{}) (*Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Frame{T: frameType, D: data}, nil
}

// Decode parses the frame payload into the given type.
func (f *Frame) Decode(v interface{}) error {
	return json.Unmarshal(f.D, v)
}

// LogonRequest authenticates the session with the gateway.
type LogonRequest struct {
	SenderCompID string `json:"senderCompId"`
	TargetCompID string `json:"targetCompId"`
	Password     string `json:"password,omitempty"`
}

// ExecutionReport is the wire form of an execution report, already
// translated from FIX tags into named fields by the gateway.
type ExecutionReport struct {
	ClOrdID   string           `json:"clOrdId,omitempty"`
	OrderID   string           `json:"orderId,omitempty"`
	ExecType  string           `json:"execType,omitempty"`
	OrdStatus string           `json:"ordStatus,omitempty"`
	CumQty    *decimal.Decimal `json:"cumQty,omitempty"`
	LeavesQty *decimal.Decimal `json:"leavesQty,omitempty"`
	AvgPx     *decimal.Decimal `json:"avgPx,omitempty"`
	LastPx    *decimal.Decimal `json:"lastPx,omitempty"`
	LastQty   *decimal.Decimal `json:"lastQty,omitempty"`
	Text      string           `json:"text,omitempty"`
	Timestamp *time.Time       `json:"timestamp,omitempty"`
}

// ToReportEvent converts the wire report into the reconciliation event.
func (r ExecutionReport) ToReportEvent() execution.ReportEvent {
	updatedAt := time.Now().UTC()
	if r.Timestamp != nil {
		updatedAt = r.Timestamp.UTC()
	}
	return execution.ReportEvent{
		ClOrdID:   r.ClOrdID,
		OrderID:   r.OrderID,
		ExecType:  r.ExecType,
		OrdStatus: r.OrdStatus,
		CumQty:    r.CumQty,
		LeavesQty: r.LeavesQty,
		AvgPx:     r.AvgPx,
		LastPx:    r.LastPx,
		LastQty:   r.LastQty,
		Text:      r.Text,
		UpdatedAt: updatedAt,
	}
}

// NewOrderSingle is the wire form of an order submission.
type NewOrderSingle struct {
	ClOrdID string           `json:"clOrdId"`
	Symbol  string           `json:"symbol"`
	Side    string           `json:"side"`
	Qty     int64            `json:"qty"`
	OrdType string           `json:"ordType"`
	Price   *decimal.Decimal `json:"price,omitempty"`
	TIF     string           `json:"tif"`
}

// NewOrderSingleFrom maps an order submission onto the wire form.
func NewOrderSingleFrom(submission order.Submission) NewOrderSingle {
	return NewOrderSingle{
		ClOrdID: submission.ClOrdID,
		Symbol:  submission.Symbol,
		Side:    string(submission.Side),
		Qty:     submission.Qty,
		OrdType: string(submission.Type),
		Price:   submission.Price,
		TIF:     string(submission.TIF),
	}
}

// MarketDataUpdate carries a quote snapshot relayed by the gateway.
type MarketDataUpdate struct {
	Symbol string           `json:"symbol"`
	Bid    *decimal.Decimal `json:"bid,omitempty"`
	Ask    *decimal.Decimal `json:"ask,omitempty"`
	Last   *decimal.Decimal `json:"last,omitempty"`
}
