// Package flux provides the unidirectional update primitives timekeep is built on.
//
// # Overview
//
// Every state change in timekeep travels one way:
//
//	boundary (ui, cli)
//	      │
//	      ▼
//	action creators ──► Loop.Post ──► Dispatcher.Dispatch ──► store handler
//	                                                              │
//	                                                              ▼
//	                                                   Emitter.Emit("change")
//	                                                              │
//	                                                              ▼
//	                                               listeners re-read the store
//
// # Components
//
//   - dispatcher.go: Dispatcher, a synchronous fan-out bus. Callbacks run in
//     registration order on the caller's goroutine. A second Dispatch while one
//     is running panics with ErrReentrantDispatch.
//   - emitter.go: Emitter, the change-listener registry stores embed. Listeners
//     are matched by identity so the value passed to On must be the value passed
//     to Off.
//   - loop.go: Loop, a single goroutine that runs posted tasks in order. Remote
//     calls complete on their own goroutines and post their dispatch here.
//
// # Concurrency Model
//
// The Dispatcher does no queueing and no waiting. Serialization is the Loop's
// job: as long as every Dispatch happens inside a Loop task, no two handlers
// ever run at the same time and actions apply in the order they were posted.
// Dispatching from two goroutines at once is treated exactly like a re-entrant
// dispatch and panics rather than silently interleaving handlers.
//
// # Error Handling
//
// Misuse panics: re-entrant dispatch, unregistering an unknown token, and
// registering a nil callback. These indicate bugs, not runtime conditions.
// Posting to a stopped Loop is a runtime condition and reports false or
// ErrLoopStopped. Tasks still queued when the Loop stops never run; Submit
// takes a drop func that is called for them instead.
package flux
