package state

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/timekeep/internal/action"
	"github.com/five82/timekeep/internal/entry"
	"github.com/five82/timekeep/internal/flux"
)

// ChangeEvent is emitted after every action that changed the store.
const ChangeEvent = "change"

// Snapshot is a consistent copy of the store for boundary code that wants all
// values at once.
type Snapshot struct {
	Entries             []entry.Entry
	TotalDuration       time.Duration
	HasAPIError         bool
	LastError           error
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// IsOffline returns true when the service has failed several times in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// EntryStore owns the entry list and everything derived from it. It changes
// only in response to dispatched actions.
type EntryStore struct {
	mu                  sync.RWMutex
	entries             []entry.Entry
	total               time.Duration
	hasAPIError         bool
	lastError           error
	lastUpdated         time.Time
	consecutiveFailures int

	listeners  *flux.Emitter
	dispatcher *action.Dispatcher
	token      flux.Token
	now        func() time.Time
}

// NewEntryStore creates an empty store registered with dispatcher.
func NewEntryStore(dispatcher *action.Dispatcher) *EntryStore {
	s := &EntryStore{
		listeners:  flux.NewEmitter(),
		dispatcher: dispatcher,
		now:        time.Now,
	}
	s.token = dispatcher.Register(s.handle)
	return s
}

// Close unregisters the store from its dispatcher.
func (s *EntryStore) Close() {
	s.dispatcher.Unregister(s.token)
}

// Reset returns the store to its initial state without notifying listeners.
func (s *EntryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.total = 0
	s.hasAPIError = false
	s.lastError = nil
	s.lastUpdated = time.Time{}
	s.consecutiveFailures = 0
}

// AllEntries returns a copy of the entries in insertion order.
func (s *EntryStore) AllEntries() []entry.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entry.Clone(s.entries)
}

// HasAPIError reports whether the last state-changing action was a failure.
func (s *EntryStore) HasAPIError() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasAPIError
}

// TotalDuration returns the summed duration of stopped entries.
func (s *EntryStore) TotalDuration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// LastError returns the error behind HasAPIError, or nil.
func (s *EntryStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Snapshot returns a copy of the current state.
func (s *EntryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Entries:             entry.Clone(s.entries),
		TotalDuration:       s.total,
		HasAPIError:         s.hasAPIError,
		LastError:           s.lastError,
		LastUpdated:         s.lastUpdated,
		ConsecutiveFailures: s.consecutiveFailures,
	}
}

// AddChangeListener registers l for event.
func (s *EntryStore) AddChangeListener(event string, l flux.Listener) {
	s.listeners.On(event, l)
}

// RemoveChangeListener unregisters l. Unknown listeners are ignored.
func (s *EntryStore) RemoveChangeListener(event string, l flux.Listener) {
	s.listeners.Off(event, l)
}

func (s *EntryStore) handle(act action.Action) {
	if s.apply(act) {
		s.listeners.Emit(ChangeEvent)
	}
}

// apply mutates state for act and reports whether anything changed. The lock
// is released before listeners run so they can read accessors.
func (s *EntryStore) apply(act action.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a := act.(type) {
	case action.LoadRequested:
		return false

	case action.ReceivedAll:
		s.entries = entry.Clone(a.Entries)
		s.succeeded()
		return true

	case action.ReceivedAdded:
		s.entries = append(s.entries, a.Entry.Clone())
		s.succeeded()
		return true

	case action.EntryDeleted:
		idx := s.indexOf(a.ID)
		if idx < 0 {
			// Already gone; still a successful call.
			return s.succeeded()
		}
		s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
		s.succeeded()
		return true

	case action.EntryUpdated:
		idx := s.indexOf(a.Entry.ID)
		if idx < 0 {
			// Deleted while the update was in flight; do not resurrect it.
			slog.Debug("ignoring update for unknown entry", "id", a.Entry.ID)
			return s.succeeded()
		}
		s.entries[idx] = a.Entry.Clone()
		s.succeeded()
		return true

	case action.APIError:
		s.hasAPIError = true
		s.lastError = a.Err
		s.lastUpdated = s.now()
		s.consecutiveFailures++
		return true

	default:
		slog.Debug("ignoring unrecognized action", "type", fmt.Sprintf("%T", act))
		return false
	}
}

// succeeded recomputes the total and clears the error flag. It reports whether
// the error flag was set, which on its own counts as a state change.
func (s *EntryStore) succeeded() bool {
	hadError := s.hasAPIError
	s.total = entry.TotalDuration(s.entries)
	s.hasAPIError = false
	s.lastError = nil
	s.lastUpdated = s.now()
	s.consecutiveFailures = 0
	return hadError
}

func (s *EntryStore) indexOf(id entry.ID) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
