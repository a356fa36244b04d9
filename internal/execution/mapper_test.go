package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Checker-Finance/fix-adapter/internal/order"
)

func TestStatusFromCodes_NumericCodes(t *testing.T) {
	tests := []struct {
		ordStatus string
		want      order.Status
	}{
		{"0", order.StatusNew},
		{"1", order.StatusPartiallyFilled},
		{"2", order.StatusFilled},
		{"4", order.StatusCanceled},
		{"8", order.StatusRejected},
	}

	for _, tt := range tests {
		status, ok := StatusFromCodes("", tt.ordStatus)
		assert.True(t, ok, "ordStatus %q should map", tt.ordStatus)
		assert.Equal(t, tt.want, status)
	}
}

func TestStatusFromCodes_SymbolicCodes(t *testing.T) {
	tests := []struct {
		ordStatus string
		want      order.Status
	}{
		{"NEW", order.StatusNew},
		{"PARTIALLY_FILLED", order.StatusPartiallyFilled},
		{"FILLED", order.StatusFilled},
		{"CANCELED", order.StatusCanceled},
		{"CANCELLED", order.StatusCanceled},
		{"REJECTED", order.StatusRejected},
	}

	for _, tt := range tests {
		status, ok := StatusFromCodes("", tt.ordStatus)
		assert.True(t, ok, "ordStatus %q should map", tt.ordStatus)
		assert.Equal(t, tt.want, status)
	}
}

func TestStatusFromCodes_OrdStatusWinsOverExecType(t *testing.T) {
	// ExecType says partial, OrdStatus says filled: OrdStatus is
	// authoritative for the order's state.
	status, ok := StatusFromCodes("1", "2")
	assert.True(t, ok)
	assert.Equal(t, order.StatusFilled, status)
}

func TestStatusFromCodes_ExecTypeFallback(t *testing.T) {
	status, ok := StatusFromCodes("PARTIAL_FILL", "")
	assert.True(t, ok)
	assert.Equal(t, order.StatusPartiallyFilled, status)

	status, ok = StatusFromCodes("FILL", "unknown-status")
	assert.True(t, ok)
	assert.Equal(t, order.StatusFilled, status)
}

func TestStatusFromCodes_ExecTypeOnlyAliases(t *testing.T) {
	// PARTIAL_FILL and FILL are ExecType spellings; as OrdStatus they do
	// not map and fall through to the ExecType side.
	_, ok := StatusFromCodes("", "PARTIAL_FILL")
	assert.False(t, ok)

	_, ok = StatusFromCodes("", "FILL")
	assert.False(t, ok)
}

func TestStatusFromCodes_Normalization(t *testing.T) {
	for _, raw := range []string{" partially_filled ", "Partially-Filled", "partially filled"} {
		status, ok := StatusFromCodes("", raw)
		assert.True(t, ok, "ordStatus %q should map", raw)
		assert.Equal(t, order.StatusPartiallyFilled, status)
	}
}

func TestStatusFromCodes_Unmappable(t *testing.T) {
	_, ok := StatusFromCodes("", "")
	assert.False(t, ok)

	_, ok = StatusFromCodes("E", "9")
	assert.False(t, ok)
}
