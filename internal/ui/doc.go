// Package ui is the Bubble Tea terminal interface for timekeep.
//
// The Controller is the only piece that talks to the store. It registers
// itself as the store's change listener on Activate, recomputes a
// Presentation on every change and signals the Model through a one-slot
// channel. While the store reports an API error the Controller leaves the
// entries and total untouched and only raises the error indicator.
//
// The Model never mutates state directly. Keys map to action creators
// (add, stop, delete, reload) and the result of each creator comes back as a
// resultMsg for the footer flash.
//
// Views:
//
//   - Entries: the list with live elapsed time for running entries, a
//     header with the total and progress toward an eight hour day.
//   - Logs: the tail of timekeep's own log file, filtered by minimum level.
//
// Theme and the hide-stopped toggle persist through the prefs package.
package ui
