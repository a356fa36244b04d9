package execution

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReportEvent is an immutable execution report fact received from the venue
// (or injected via the simulate endpoint). Field names mirror the FIX tags
// the gateway translates from (ClOrdID=11, OrderID=37, ExecType=150,
// OrdStatus=39, CumQty=14, LeavesQty=151, AvgPx=6, LastPx=31, LastQty=32,
// Text=58). Nil/empty fields mean "not present in this report".
type ReportEvent struct {
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
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Keys returns the lookup keys this event carries, correlation ID first.
// An event with neither identifier returns an empty slice.
func (e ReportEvent) Keys() []string {
	var keys []string
	if clOrdID := strings.TrimSpace(e.ClOrdID); clOrdID != "" {
		keys = append(keys, clOrdID)
	}
	if orderID := strings.TrimSpace(e.OrderID); orderID != "" && orderID != strings.TrimSpace(e.ClOrdID) {
		keys = append(keys, orderID)
	}
	return keys
}

// State is the merged, latest-known execution snapshot for an order.
// Every non-nil field reflects the most recent report that carried it.
type State struct {
	ExecType  string           `json:"execType,omitempty"`
	OrdStatus string           `json:"ordStatus,omitempty"`
	FilledQty *decimal.Decimal `json:"filledQty,omitempty"`
	LeavesQty *decimal.Decimal `json:"leavesQty,omitempty"`
	AvgPx     *decimal.Decimal `json:"avgPx,omitempty"`
	LastPx    *decimal.Decimal `json:"lastPx,omitempty"`
	LastQty   *decimal.Decimal `json:"lastQty,omitempty"`
	Text      string           `json:"text,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
