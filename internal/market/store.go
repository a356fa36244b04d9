package market

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrCrossedQuote is returned when an update would leave a symbol with a
// bid above its ask.
var ErrCrossedQuote = errors.New("crossed quote: bid exceeds ask")

// Quote is the latest known top-of-book snapshot for a symbol. Fields the
// feed has never supplied stay nil.
type Quote struct {
	Symbol    string           `json:"symbol"`
	Bid       *decimal.Decimal `json:"bid,omitempty"`
	Ask       *decimal.Decimal `json:"ask,omitempty"`
	Last      *decimal.Decimal `json:"last,omitempty"`
	Source    string           `json:"source"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Store holds the latest quote per symbol. Updates merge field by field so
// a bid-only tick does not wipe out a previously seen ask.
type Store struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

// NewStore creates an empty quote store.
func NewStore() *Store {
	return &Store{quotes: make(map[string]Quote)}
}

// Upsert merges the update into the stored quote for its symbol. A merge
// that would cross the book is rejected and the stored quote is unchanged.
func (s *Store) Upsert(update Quote) (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.quotes[update.Symbol]
	merged.Symbol = update.Symbol
	if update.Bid != nil {
		merged.Bid = update.Bid
	}
	if update.Ask != nil {
		merged.Ask = update.Ask
	}
	if update.Last != nil {
		merged.Last = update.Last
	}
	if merged.Bid != nil && merged.Ask != nil && merged.Bid.GreaterThan(*merged.Ask) {
		return Quote{}, ErrCrossedQuote
	}
	merged.Source = update.Source
	merged.UpdatedAt = update.UpdatedAt

	s.quotes[update.Symbol] = merged
	return merged, nil
}

// Get returns the stored quote for a symbol.
func (s *Store) Get(symbol string) (Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[symbol]
	return q, ok
}

// List returns all stored quotes sorted by symbol.
func (s *Store) List() []Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Len returns the number of symbols tracked.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes)
}
