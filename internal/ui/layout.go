package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// layoutCompactWidth is the threshold below which the description
	// column is dropped.
	layoutCompactWidth = 100

	// layoutMinPanelWidth keeps panels readable on tiny terminals.
	layoutMinPanelWidth = 40
)

// logBufferLimit caps how many log lines are read per refresh.
const logBufferLimit = 500

// defaultTick drives elapsed-time redraws and log refreshes.
const defaultTick = time.Second
