package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAction struct {
	name string
}

func TestDispatcher_CallsEveryCallbackInOrder(t *testing.T) {
	d := NewDispatcher[testAction]()

	var calls []string
	d.Register(func(a testAction) { calls = append(calls, "first:"+a.name) })
	d.Register(func(a testAction) { calls = append(calls, "second:"+a.name) })
	d.Register(func(a testAction) { calls = append(calls, "third:"+a.name) })

	d.Dispatch(testAction{name: "x"})

	assert.Equal(t, []string{"first:x", "second:x", "third:x"}, calls)
	assert.False(t, d.dispatching.Load())
}

func TestDispatcher_UnregisterStopsDelivery(t *testing.T) {
	d := NewDispatcher[testAction]()

	count := 0
	token := d.Register(func(testAction) { count++ })
	other := 0
	d.Register(func(testAction) { other++ })

	d.Dispatch(testAction{})
	d.Unregister(token)
	d.Dispatch(testAction{})

	assert.Equal(t, 1, count)
	assert.Equal(t, 2, other)
	assert.Equal(t, 1, d.Len())
}

func TestDispatcher_UnregisterUnknownTokenPanics(t *testing.T) {
	d := NewDispatcher[testAction]()
	token := d.Register(func(testAction) {})
	d.Unregister(token)

	assert.Panics(t, func() { d.Unregister(token) })
	assert.Panics(t, func() { d.Unregister(Token(99)) })
}

func TestDispatcher_ReentrantDispatchPanics(t *testing.T) {
	d := NewDispatcher[testAction]()
	d.Register(func(a testAction) {
		if a.name == "outer" {
			d.Dispatch(testAction{name: "inner"})
		}
	})

	assert.PanicsWithValue(t, ErrReentrantDispatch, func() {
		d.Dispatch(testAction{name: "outer"})
	})

	// The in-progress flag is released even after the panic.
	assert.False(t, d.dispatching.Load())
	assert.NotPanics(t, func() { d.Dispatch(testAction{name: "after"}) })
}

func TestDispatcher_RegistrationDuringDispatchAppliesNextTime(t *testing.T) {
	d := NewDispatcher[testAction]()

	late := 0
	registered := false
	d.Register(func(testAction) {
		if !registered {
			registered = true
			d.Register(func(testAction) { late++ })
		}
	})

	d.Dispatch(testAction{})
	require.Equal(t, 0, late)

	d.Dispatch(testAction{})
	assert.Equal(t, 1, late)
}

func TestDispatcher_RegisterNilPanics(t *testing.T) {
	d := NewDispatcher[testAction]()
	assert.Panics(t, func() { d.Register(nil) })
}
