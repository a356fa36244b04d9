package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side represents the order side.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// SideFromString converts a string to Side.
func SideFromString(s string) (Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return SideBuy, true
	case "SELL":
		return SideSell, true
	default:
		return "", false
	}
}

// OrdType represents the type of order.
type OrdType string

const (
	TypeMarket OrdType = "MARKET"
	TypeLimit  OrdType = "LIMIT"
)

// OrdTypeFromString converts a string to OrdType.
func OrdTypeFromString(s string) (OrdType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MARKET":
		return TypeMarket, true
	case "LIMIT":
		return TypeLimit, true
	default:
		return "", false
	}
}

// TimeInForce represents how long an order remains active at the venue.
type TimeInForce string

const (
	TIFDay TimeInForce = "DAY"
	TIFGTC TimeInForce = "GTC" // Good Till Canceled
	TIFIOC TimeInForce = "IOC" // Immediate or Cancel
	TIFFOK TimeInForce = "FOK" // Fill or Kill
)

// TimeInForceFromString converts a string to TimeInForce.
func TimeInForceFromString(s string) (TimeInForce, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DAY":
		return TIFDay, true
	case "GTC":
		return TIFGTC, true
	case "IOC":
		return TIFIOC, true
	case "FOK":
		return TIFFOK, true
	default:
		return "", false
	}
}

// Status is the canonical order status derived from venue-specific codes.
type Status string

const (
	StatusNew             Status = "NEW"
	StatusPartiallyFilled Status = "PARTIALLY_FILLED"
	StatusFilled          Status = "FILLED"
	StatusCanceled        Status = "CANCELED"
	StatusRejected        Status = "REJECTED"
)

// Record represents one order submitted by a client. Records are immutable
// value objects; mutation means storing a new version under the same OrderID.
type Record struct {
	OrderID   uuid.UUID        `json:"orderId"`
	ClOrdID   string           `json:"clOrdId"`
	CreatedAt time.Time        `json:"createdAt"`
	Symbol    string           `json:"symbol"`
	Side      Side             `json:"side"`
	Qty       int64            `json:"qty"`
	Type      OrdType          `json:"type"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	TIF       TimeInForce      `json:"tif"`
	Status    Status           `json:"status"`
	Message   string           `json:"message,omitempty"`
}

// WithStatus returns a copy of the record with status and message replaced.
func (r Record) WithStatus(status Status, message string) Record {
	r.Status = status
	r.Message = message
	return r
}
