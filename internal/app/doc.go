// Package app is the composition root for timekeep.
//
// # Overview
//
// Run loads configuration, points slog at the log file, wires the runtime and
// hands control to the TUI. The one-shot CLI commands reuse the same Runtime
// so both surfaces share one dispatcher, store and set of action creators.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()      Read config.toml
//	       ├─────> SetupLogging()     slog text handler on the log file
//	       ├─────> Start()            api.Client + dispatcher + store + loop
//	       ├─────> StartPoller()      Periodic LoadEntries
//	       └─────> ui.Run()           TUI (blocks)
//
// # Polling Behavior
//
// The poller calls LoadEntries every poll interval and waits for the result.
// Consecutive failures double the delay up to 30 seconds; a list dropped as
// superseded by a newer load is not a failure. A zero interval disables it.
//
// # Error Handling
//
// Configuration and client construction errors are fatal and returned from
// Run. Remote failures are logged by the action creators and surface in the
// store as an API error; the poller keeps going.
package app
