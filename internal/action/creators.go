package action

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"

	"github.com/five82/timekeep/internal/entry"
	"github.com/five82/timekeep/internal/flux"
)

// Input errors dispatched without touching the network.
var (
	ErrEmptyName  = errors.New("entry name is required")
	ErrMissingID  = errors.New("entry id is required")
	ErrSuperseded = errors.New("entry list superseded by a newer load")
)

// API is the remote entry collection the creators call into.
type API interface {
	FetchAll(ctx context.Context) ([]entry.Entry, error)
	Create(ctx context.Context, name, description string) (entry.Entry, error)
	Delete(ctx context.Context, id entry.ID) (entry.ID, error)
	Stop(ctx context.Context, id entry.ID) (entry.Entry, error)
}

// Creators turn boundary requests into dispatched actions. Every method returns
// immediately; the returned channel receives exactly one value once the
// resulting action (if any) has been applied. Callers may ignore it.
type Creators struct {
	ctx        context.Context
	api        API
	dispatcher *Dispatcher
	loop       *flux.Loop

	loadIssued atomic.Uint64
	// loadApplied is only touched from loop tasks.
	loadApplied uint64
}

// NewCreators wires creators to the remote API, the dispatcher and the loop
// that serializes dispatches. ctx bounds every remote call.
func NewCreators(ctx context.Context, api API, dispatcher *Dispatcher, loop *flux.Loop) *Creators {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Creators{
		ctx:        ctx,
		api:        api,
		dispatcher: dispatcher,
		loop:       loop,
	}
}

// LoadEntries dispatches LoadRequested and fetches the full list. A list that
// arrives after a newer one has already been applied is dropped and the
// channel receives ErrSuperseded.
func (c *Creators) LoadEntries() <-chan error {
	done := make(chan error, 1)
	gen := c.loadIssued.Add(1)

	c.loop.Post(func() { c.dispatcher.Dispatch(LoadRequested{}) })

	go func() {
		entries, err := c.api.FetchAll(c.ctx)
		if err != nil {
			slog.Error("entries request failed", "op", "fetch-all", "error", err)
		}
		posted := c.loop.Submit(func() {
			if gen < c.loadApplied {
				slog.Debug("dropping superseded entry list", "generation", gen, "applied", c.loadApplied)
				done <- ErrSuperseded
				return
			}
			c.loadApplied = gen
			if err != nil {
				c.dispatcher.Dispatch(APIError{Err: err})
				done <- err
				return
			}
			c.dispatcher.Dispatch(ReceivedAll{Entries: entries})
			done <- nil
		}, func() { done <- flux.ErrLoopStopped })
		if !posted {
			done <- flux.ErrLoopStopped
		}
	}()
	return done
}

// AddEntry creates a new running entry.
func (c *Creators) AddEntry(name, description string) <-chan error {
	name = normalize(name)
	description = normalize(description)
	if name == "" {
		return c.reject(ErrEmptyName)
	}
	return c.remote("create", func(ctx context.Context) (Action, error) {
		created, err := c.api.Create(ctx, name, description)
		if err != nil {
			return nil, err
		}
		return ReceivedAdded{Entry: created}, nil
	})
}

// DeleteEntry removes the entry with id. An entry the server no longer has
// counts as deleted.
func (c *Creators) DeleteEntry(id entry.ID) <-chan error {
	if strings.TrimSpace(string(id)) == "" {
		return c.reject(ErrMissingID)
	}
	return c.remote("delete", func(ctx context.Context) (Action, error) {
		deleted, err := c.api.Delete(ctx, id)
		if isNotFound(err) {
			slog.Debug("entry already gone", "id", id)
			return EntryDeleted{ID: id}, nil
		}
		if err != nil {
			return nil, err
		}
		if deleted == "" {
			deleted = id
		}
		return EntryDeleted{ID: deleted}, nil
	})
}

// StopEntry stops the running entry with id.
func (c *Creators) StopEntry(id entry.ID) <-chan error {
	if strings.TrimSpace(string(id)) == "" {
		return c.reject(ErrMissingID)
	}
	return c.remote("stop", func(ctx context.Context) (Action, error) {
		updated, err := c.api.Stop(ctx, id)
		if err != nil {
			return nil, err
		}
		return EntryUpdated{Entry: updated}, nil
	})
}

// ReportError passes err straight through as an APIError.
func (c *Creators) ReportError(err error) <-chan error {
	if err == nil {
		done := make(chan error, 1)
		done <- nil
		return done
	}
	return c.reject(err)
}

func (c *Creators) reject(err error) <-chan error {
	done := make(chan error, 1)
	c.post(APIError{Err: err}, err, done)
	return done
}

func (c *Creators) remote(op string, call func(ctx context.Context) (Action, error)) <-chan error {
	done := make(chan error, 1)
	go func() {
		act, err := call(c.ctx)
		if err != nil {
			slog.Error("entries request failed", "op", op, "error", err)
			c.post(APIError{Err: err}, err, done)
			return
		}
		slog.Debug("entries request completed", "op", op, "action", act.Type().String())
		c.post(act, nil, done)
	}()
	return done
}

func (c *Creators) post(act Action, result error, done chan<- error) {
	if !c.loop.Submit(func() {
		c.dispatcher.Dispatch(act)
		done <- result
	}, func() { done <- flux.ErrLoopStopped }) {
		done <- flux.ErrLoopStopped
	}
}

// isNotFound matches API errors that report a missing resource.
func isNotFound(err error) bool {
	var nf interface{ NotFound() bool }
	return errors.As(err, &nf) && nf.NotFound()
}

func normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
