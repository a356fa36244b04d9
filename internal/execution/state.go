package execution

import (
	"sync"
	"time"
)

const maxRecentReports = 200

// StateStore keeps the merged execution state per order key plus a bounded
// most-recent-first log of raw reports. Both of an event's identifiers
// (ClOrdID and venue OrderID) index the same merged state, so lookups by
// either return identical results.
//
// A single store-level mutex linearizes updates; concurrent writers to the
// same order are folded, never overwritten. Reads take the read lock only.
type StateStore struct {
	mu          sync.RWMutex
	latestByKey map[string]*State
	recent      []ReportEvent
}

// NewStateStore creates an empty execution state store.
func NewStateStore() *StateStore {
	return &StateStore{
		latestByKey: make(map[string]*State),
	}
}

// Update merges the event's non-nil fields onto the state stored for its
// primary key and points every key the event carries at the merged state.
// Events carrying no identifier are dropped and not logged; they cannot be
// attributed to any order. Returns false for such drops.
func (s *StateStore) Update(event ReportEvent) bool {
	keys := event.Keys()
	if len(keys) == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := merge(s.latestByKey[keys[0]], event)
	for _, key := range keys {
		s.latestByKey[key] = merged
	}

	s.recent = append([]ReportEvent{event}, s.recent...)
	if len(s.recent) > maxRecentReports {
		s.recent = s.recent[:maxRecentReports]
	}
	return true
}

// LatestFor returns a copy of the merged state for the given key.
func (s *StateStore) LatestFor(key string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.latestByKey[key]
	if !ok {
		return State{}, false
	}
	return *state, true
}

// RecentReports returns a snapshot of the raw report log, most recent first.
func (s *StateStore) RecentReports() []ReportEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reports := make([]ReportEvent, len(s.recent))
	copy(reports, s.recent)
	return reports
}

// merge folds an event onto the current state field by field, preferring the
// event's value when present and keeping the prior value otherwise.
func merge(current *State, event ReportEvent) *State {
	updatedAt := event.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	if current == nil {
		current = &State{}
	}
	return &State{
		ExecType:  firstNonEmpty(event.ExecType, current.ExecType),
		OrdStatus: firstNonEmpty(event.OrdStatus, current.OrdStatus),
		FilledQty: firstNonNil(event.CumQty, current.FilledQty),
		LeavesQty: firstNonNil(event.LeavesQty, current.LeavesQty),
		AvgPx:     firstNonNil(event.AvgPx, current.AvgPx),
		LastPx:    firstNonNil(event.LastPx, current.LastPx),
		LastQty:   firstNonNil(event.LastQty, current.LastQty),
		Text:      firstNonEmpty(event.Text, current.Text),
		UpdatedAt: updatedAt,
	}
}

func firstNonEmpty(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

func firstNonNil[T any](preferred, fallback *T) *T {
	if preferred != nil {
		return preferred
	}
	return fallback
}
