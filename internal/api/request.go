package api

import "github.com/shopspring/decimal"

// CreateOrderRequest is the payload to submit a new order.
type CreateOrderRequest struct {
	ClOrdID string           `json:"clOrdId,omitempty"`
	Symbol  string           `json:"symbol" example:"AAPL"`
	Side    string           `json:"side" example:"BUY"`
	Qty     int64            `json:"qty" example:"100"`
	Type    string           `json:"type" example:"LIMIT"`
	Price   *decimal.Decimal `json:"price,omitempty" example:"187.52"`
	TIF     string           `json:"tif" example:"DAY"`
}

// SimulateExecReportRequest injects a synthetic execution report into the
// reconciliation pipeline, bypassing the FIX session.
type SimulateExecReportRequest struct {
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
}

// SimulateQuoteRequest injects a synthetic quote into the market data store.
type SimulateQuoteRequest struct {
	Symbol string           `json:"symbol"`
	Bid    *decimal.Decimal `json:"bid,omitempty"`
	Ask    *decimal.Decimal `json:"ask,omitempty"`
	Last   *decimal.Decimal `json:"last,omitempty"`
}
