package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type funcListener struct {
	fn func(event string)
}

func (l *funcListener) Changed(event string) { l.fn(event) }

// listenerFunc wraps fn in a Listener with its own identity.
func listenerFunc(fn func(event string)) Listener {
	return &funcListener{fn: fn}
}

func TestEmitter_EmitsInRegistrationOrder(t *testing.T) {
	e := NewEmitter()

	var calls []string
	e.On("change", listenerFunc(func(string) { calls = append(calls, "a") }))
	e.On("change", listenerFunc(func(string) { calls = append(calls, "b") }))
	e.On("other", listenerFunc(func(string) { calls = append(calls, "other") }))

	e.Emit("change")

	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestEmitter_SameListenerRegisteredOnce(t *testing.T) {
	e := NewEmitter()

	count := 0
	l := listenerFunc(func(string) { count++ })
	e.On("change", l)
	e.On("change", l)

	e.Emit("change")

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, e.Count("change"))
}

func TestEmitter_OffRemovesExactListener(t *testing.T) {
	e := NewEmitter()

	var calls []string
	keep := listenerFunc(func(string) { calls = append(calls, "keep") })
	drop := listenerFunc(func(string) { calls = append(calls, "drop") })
	e.On("change", keep)
	e.On("change", drop)

	e.Off("change", drop)
	e.Emit("change")

	assert.Equal(t, []string{"keep"}, calls)
}

func TestEmitter_OffUnknownListenerIsNoop(t *testing.T) {
	e := NewEmitter()
	l := listenerFunc(func(string) {})

	assert.NotPanics(t, func() {
		e.Off("change", l)
		e.Off("missing", nil)
	})

	e.On("change", l)
	e.Off("change", l)
	e.Off("change", l)
	assert.Equal(t, 0, e.Count("change"))
}

func TestEmitter_ListenerRemovingItselfDuringEmit(t *testing.T) {
	e := NewEmitter()

	count := 0
	var self Listener
	self = listenerFunc(func(event string) {
		count++
		e.Off(event, self)
	})
	e.On("change", self)

	e.Emit("change")
	e.Emit("change")

	assert.Equal(t, 1, count)
}

type pointerListener struct {
	events []string
}

func (p *pointerListener) Changed(event string) {
	p.events = append(p.events, event)
}

func TestEmitter_PointerListenersMatchByIdentity(t *testing.T) {
	e := NewEmitter()
	first := &pointerListener{}
	second := &pointerListener{}

	e.On("change", first)
	e.On("change", second)
	e.Off("change", first)
	e.Emit("change")

	assert.Empty(t, first.events)
	assert.Equal(t, []string{"change"}, second.events)
}
