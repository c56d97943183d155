// Package action defines timekeep's actions and the creators that originate them.
//
// Actions form a closed sum type: Action is sealed, and each variant carries
// only its own payload. Stores switch on the concrete type.
//
// Creators are the only code that calls Dispatch. A creator either validates
// local input and dispatches immediately (ErrEmptyName, ErrMissingID,
// ReportError) or calls the remote API on its own goroutine and posts the
// resulting action onto the flux.Loop. A completed call dispatches exactly one
// action: the success variant or APIError, never both.
//
// Remote calls are fire-and-forget. Each creator returns a buffered channel
// that receives one value after the action has been applied; boundary code
// that does not care can drop it.
//
// Completions apply in completion order. Two guards limit the damage of
// out-of-order completions: LoadEntries tags each request with a generation and
// drops a list older than one already applied (ErrSuperseded), and the store
// ignores updates for entries it no longer holds.
package action
