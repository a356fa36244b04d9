package api

import (
	"github.com/Checker-Finance/fix-adapter/internal/execution"
	"github.com/Checker-Finance/fix-adapter/internal/market"
	"github.com/Checker-Finance/fix-adapter/internal/order"
)

// OrderListResponse wraps the order list.
type OrderListResponse struct {
	Orders []order.Record `json:"orders"`
}

// OrderDetailResponse joins an order record with its merged execution
// state. Execution is nil until a report has been heard for the order.
type OrderDetailResponse struct {
	Order     order.Record     `json:"order"`
	Execution *execution.State `json:"execution,omitempty"`
}

// ExecReportListResponse wraps the recent report log.
type ExecReportListResponse struct {
	Reports []execution.ReportEvent `json:"reports"`
}

// QuoteListResponse wraps the tracked quote list.
type QuoteListResponse struct {
	Quotes []market.Quote `json:"quotes"`
}
