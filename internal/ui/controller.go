package ui

import (
	"sync"
	"time"

	"github.com/five82/timekeep/internal/entry"
	"github.com/five82/timekeep/internal/flux"
	"github.com/five82/timekeep/internal/state"
)

// EntrySource is the read side of the entry store.
type EntrySource interface {
	AllEntries() []entry.Entry
	HasAPIError() bool
	TotalDuration() time.Duration
	LastError() error
	AddChangeListener(event string, l flux.Listener)
	RemoveChangeListener(event string, l flux.Listener)
}

// Loader triggers a fresh load of the entry list.
type Loader interface {
	LoadEntries() <-chan error
}

// Presentation is what the list view renders. Entries and Total hold the
// last values read while the store was healthy.
type Presentation struct {
	Entries   []entry.Entry
	Total     time.Duration
	Error     bool
	ErrorText string
}

// Controller binds the view to the store. It registers itself as the change
// listener, so Deactivate removes exactly what Activate added.
type Controller struct {
	store  EntrySource
	loader Loader

	mu      sync.Mutex
	current Presentation
	active  bool
	changes chan struct{}
}

// NewController returns an inactive controller.
func NewController(store EntrySource, loader Loader) *Controller {
	return &Controller{
		store:   store,
		loader:  loader,
		changes: make(chan struct{}, 1),
	}
}

// Activate subscribes to store changes and kicks off the initial load.
func (c *Controller) Activate() <-chan error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		done := make(chan error, 1)
		done <- nil
		return done
	}
	c.active = true
	c.mu.Unlock()

	c.store.AddChangeListener(state.ChangeEvent, c)
	return c.loader.LoadEntries()
}

// Deactivate unsubscribes from store changes.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	wasActive := c.active
	c.active = false
	c.mu.Unlock()

	if wasActive {
		c.store.RemoveChangeListener(state.ChangeEvent, c)
	}
}

// Changed implements flux.Listener. While the store reports an API error the
// entries and total are not re-read; the previous values stay on screen.
func (c *Controller) Changed(string) {
	c.mu.Lock()
	if c.store.HasAPIError() {
		c.current.Error = true
		c.current.ErrorText = errorText(c.store.LastError())
	} else {
		c.current = Presentation{
			Entries: c.store.AllEntries(),
			Total:   c.store.TotalDuration(),
		}
	}
	c.mu.Unlock()

	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// Presentation returns a copy of the current presentation.
func (c *Controller) Presentation() Presentation {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.current
	p.Entries = entry.Clone(c.current.Entries)
	return p
}

// Changes receives a value whenever the presentation was recomputed. Bursts
// collapse into one notification.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

func errorText(err error) string {
	if err == nil {
		return "request failed"
	}
	return err.Error()
}
