package order

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(clOrdID string) Record {
	return Record{
		OrderID:   uuid.New(),
		ClOrdID:   clOrdID,
		CreatedAt: time.Now().UTC(),
		Symbol:    "MSFT",
		Side:      SideBuy,
		Qty:       10,
		Type:      TypeMarket,
		TIF:       TIFDay,
		Status:    StatusNew,
	}
}

func TestStoreAddAndFind(t *testing.T) {
	store := NewStore()
	record := newRecord("cl-1")
	require.NoError(t, store.Add(record))

	byID, ok := store.FindByOrderID(record.OrderID)
	require.True(t, ok)
	assert.Equal(t, record.ClOrdID, byID.ClOrdID)

	byClOrdID, ok := store.FindByClOrdID("cl-1")
	require.True(t, ok)
	assert.Equal(t, record.OrderID, byClOrdID.OrderID)
}

func TestStoreRejectsDuplicateOrderID(t *testing.T) {
	store := NewStore()
	record := newRecord("cl-1")
	require.NoError(t, store.Add(record))

	err := store.Add(record)
	assert.ErrorIs(t, err, ErrDuplicateOrderID)
}

func TestStoreUpdateReplacesRecord(t *testing.T) {
	store := NewStore()
	record := newRecord("cl-1")
	require.NoError(t, store.Add(record))

	store.Update(record.WithStatus(StatusFilled, "done"))

	updated, ok := store.FindByOrderID(record.OrderID)
	require.True(t, ok)
	assert.Equal(t, StatusFilled, updated.Status)
	assert.Equal(t, "done", updated.Message)
}

func TestStoreListRecentNewestFirst(t *testing.T) {
	store := NewStore()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Add(newRecord(fmt.Sprintf("cl-%d", i))))
	}

	records := store.ListRecent()
	require.Len(t, records, 3)
	assert.Equal(t, "cl-2", records[0].ClOrdID)
	assert.Equal(t, "cl-0", records[2].ClOrdID)
}
