package market

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Checker-Finance/fix-adapter/internal/metrics"
)

// Quote sources.
const (
	SourceGateway   = "FIX"
	SourceSimulated = "SIMULATED"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9._-]{1,24}$`)

// Update is a normalized quote tick before it reaches the store.
type Update struct {
	Symbol string
	Bid    *decimal.Decimal
	Ask    *decimal.Decimal
	Last   *decimal.Decimal
}

// Service validates and applies market data updates.
type Service struct {
	store  *Store
	logger *zap.Logger
}

// NewService creates the market data service.
func NewService(store *Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// ApplyGatewayUpdate records a tick relayed by the FIX gateway. Invalid
// ticks are counted and dropped; the feed must not stall on one bad frame.
func (s *Service) ApplyGatewayUpdate(update Update) {
	if _, err := s.apply(update, SourceGateway); err != nil {
		metrics.IncError("market_data", "gateway_update")
		s.logger.Warn("market.gateway_update_dropped",
			zap.String("symbol", update.Symbol),
			zap.Error(err))
	}
}

// Simulate records a synthetic tick, used by the simulation endpoint to
// exercise the pipeline without a live session.
func (s *Service) Simulate(update Update) (Quote, error) {
	return s.apply(update, SourceSimulated)
}

func (s *Service) apply(update Update, source string) (Quote, error) {
	symbol := strings.ToUpper(strings.TrimSpace(update.Symbol))
	if !symbolPattern.MatchString(symbol) {
		return Quote{}, fmt.Errorf("invalid symbol %q", update.Symbol)
	}
	if update.Bid == nil && update.Ask == nil && update.Last == nil {
		return Quote{}, fmt.Errorf("quote for %s carries no prices", symbol)
	}

	quote, err := s.store.Upsert(Quote{
		Symbol:    symbol,
		Bid:       update.Bid,
		Ask:       update.Ask,
		Last:      update.Last,
		Source:    source,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Quote{}, fmt.Errorf("upsert quote for %s: %w", symbol, err)
	}

	s.logger.Debug("market.quote_applied",
		zap.String("symbol", symbol),
		zap.String("source", source))
	return quote, nil
}

// Status summarizes the feed state for the status endpoint.
type Status struct {
	Symbols   int       `json:"symbols"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// FeedStatus reports how many symbols are tracked and when the feed last
// moved.
func (s *Service) FeedStatus() Status {
	status := Status{Symbols: s.store.Len()}
	for _, quote := range s.store.List() {
		if quote.UpdatedAt.After(status.UpdatedAt) {
			status.UpdatedAt = quote.UpdatedAt
		}
	}
	return status
}

// Quote returns the latest quote for a symbol.
func (s *Service) Quote(symbol string) (Quote, bool) {
	return s.store.Get(strings.ToUpper(strings.TrimSpace(symbol)))
}

// Quotes returns all tracked quotes.
func (s *Service) Quotes() []Quote {
	return s.store.List()
}
