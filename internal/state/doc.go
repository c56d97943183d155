// Package state holds timekeep's entry store.
//
// # Overview
//
// EntryStore is the single owner of the entry list. It registers a handler
// with the action dispatcher at construction and changes only when an action
// arrives. Boundary code (the TUI controller, the CLI) reads it through
// accessors and learns about changes through change listeners.
//
//	Dispatcher.Dispatch(action)
//	        │
//	        ▼
//	EntryStore.handle ──► apply (write lock) ──► Emit(ChangeEvent) (no lock)
//	                                                   │
//	                                                   ▼
//	                                      listener reads AllEntries(),
//	                                      HasAPIError(), TotalDuration()
//
// # Reducer
//
//	LoadRequested  no change, no emission
//	ReceivedAll    replace entries, recompute total, clear error
//	ReceivedAdded  append entry, recompute total, clear error
//	EntryDeleted   remove by id, recompute total, clear error
//	EntryUpdated   replace by id, recompute total, clear error
//	APIError       set error, entries and total untouched
//
// An EntryUpdated for an id the store does not hold is ignored apart from
// clearing the error flag. That happens when a stop completes after a delete
// of the same entry, and the entry must stay deleted.
//
// Any other action type is ignored without emitting.
//
// # Invariants
//
//   - TotalDuration always equals the sum of Duration over stopped entries.
//   - HasAPIError is true exactly when the most recent state-changing action
//     was an APIError.
//   - Accessors return copies. Entries, including their StoppedAt pointers,
//     are cloned on the way in and on the way out.
//
// # Concurrency Model
//
// Handlers run on the flux.Loop goroutine, one at a time. Accessors take a read
// lock so the bubbletea and CLI goroutines can call them directly. The write
// lock is released before listeners are notified; a listener that reads the
// store sees the state the action produced.
//
// # Testing Considerations
//
// Construct a fresh store per test with NewEntryStore(action.NewDispatcher()),
// or call Reset between cases. Dispatching directly on the dispatcher from a
// test goroutine is fine as long as the test does not dispatch concurrently.
package state
