package execution

import (
	"strings"

	"github.com/Checker-Finance/fix-adapter/internal/order"
)

// StatusFromCodes derives the canonical order status from an execution
// report's OrdStatus (39) and ExecType (150) codes. OrdStatus wins when it
// maps; ExecType is the fallback. Both compact numeric codes and symbolic
// spellings are accepted. Returns false when neither code maps — the caller
// must leave the order's current status untouched in that case.
//
// Pure and safe for concurrent use.
func StatusFromCodes(execType, ordStatus string) (order.Status, bool) {
	if status, ok := fromOrdStatus(ordStatus); ok {
		return status, true
	}
	return fromExecType(execType)
}

func fromOrdStatus(ordStatus string) (order.Status, bool) {
	switch normalizeCode(ordStatus) {
	case "0", "NEW":
		return order.StatusNew, true
	case "1", "PARTIALLY_FILLED":
		return order.StatusPartiallyFilled, true
	case "2", "FILLED":
		return order.StatusFilled, true
	case "4", "CANCELED", "CANCELLED":
		return order.StatusCanceled, true
	case "8", "REJECTED":
		return order.StatusRejected, true
	default:
		return "", false
	}
}

func fromExecType(execType string) (order.Status, bool) {
	switch normalizeCode(execType) {
	case "0", "NEW":
		return order.StatusNew, true
	case "1", "PARTIAL_FILL", "PARTIALLY_FILLED":
		return order.StatusPartiallyFilled, true
	case "2", "FILL", "FILLED":
		return order.StatusFilled, true
	case "4", "CANCELED", "CANCELLED":
		return order.StatusCanceled, true
	case "8", "REJECTED":
		return order.StatusRejected, true
	default:
		return "", false
	}
}

// normalizeCode trims, uppercases and collapses separators so that
// "Partial-Fill", "partial fill" and "PARTIAL_FILL" all compare equal.
func normalizeCode(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	return normalized
}
