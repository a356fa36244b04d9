package order

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrDuplicateOrderID is returned when adding an order whose primary
// identifier is already present. IDs are generated, so this indicates a
// programming error rather than bad input.
var ErrDuplicateOrderID = errors.New("order: duplicate order id")

// Store is an in-memory order store keyed by primary order ID and by the
// client correlation ID (ClOrdID). Add/Update take the write lock, so order
// mutations are serialized; lookups only take the read lock.
type Store struct {
	mu        sync.RWMutex
	byOrderID map[uuid.UUID]Record
	byClOrdID map[string]uuid.UUID
	sequence  []uuid.UUID // insertion order, oldest first
}

// NewStore creates an empty order store.
func NewStore() *Store {
	return &Store{
		byOrderID: make(map[uuid.UUID]Record),
		byClOrdID: make(map[string]uuid.UUID),
	}
}

// Add inserts a new order record, indexing it by OrderID and ClOrdID.
func (s *Store) Add(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byOrderID[record.OrderID]; exists {
		return ErrDuplicateOrderID
	}

	s.byOrderID[record.OrderID] = record
	if record.ClOrdID != "" {
		s.byClOrdID[record.ClOrdID] = record.OrderID
	}
	s.sequence = append(s.sequence, record.OrderID)
	return nil
}

// Update replaces the stored record for the record's OrderID. The ClOrdID
// index is not touched; the correlation ID is immutable post-creation.
func (s *Store) Update(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byOrderID[record.OrderID] = record
}

// FindByOrderID returns the record for the primary identifier, if present.
func (s *Store) FindByOrderID(orderID uuid.UUID) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byOrderID[orderID]
	return record, ok
}

// FindByClOrdID returns the record for the client correlation ID, if present.
func (s *Store) FindByClOrdID(clOrdID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orderID, ok := s.byClOrdID[clOrdID]
	if !ok {
		return Record{}, false
	}
	record, ok := s.byOrderID[orderID]
	return record, ok
}

// ListRecent returns all known orders, most recently created first.
func (s *Store) ListRecent() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, 0, len(s.sequence))
	for i := len(s.sequence) - 1; i >= 0; i-- {
		if record, ok := s.byOrderID[s.sequence[i]]; ok {
			records = append(records, record)
		}
	}
	return records
}
