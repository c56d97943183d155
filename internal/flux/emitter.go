package flux

import "sync"

// Listener receives change notifications from an Emitter. Listeners are matched
// by identity, so implementations should be pointers.
type Listener interface {
	Changed(event string)
}

// Emitter maps event names to ordered listener sets.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]Listener
}

// NewEmitter returns an emitter with no listeners.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string][]Listener)}
}

// On registers l for event. Registering the same listener twice is a no-op.
func (e *Emitter) On(event string, l Listener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.listeners[event] {
		if existing == l {
			return
		}
	}
	e.listeners[event] = append(e.listeners[event], l)
}

// Off removes l from event. Removing a listener that was never added is a no-op.
func (e *Emitter) Off(event string, l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.listeners[event]
	for i, existing := range current {
		if existing == l {
			next := append(current[:i:i], current[i+1:]...)
			if len(next) == 0 {
				delete(e.listeners, event)
			} else {
				e.listeners[event] = next
			}
			return
		}
	}
}

// Emit calls every listener registered for event, in registration order, on the
// calling goroutine. Listeners may add or remove listeners; the change applies
// to the next Emit.
func (e *Emitter) Emit(event string) {
	e.mu.Lock()
	current := e.listeners[event]
	listeners := make([]Listener, len(current))
	copy(listeners, current)
	e.mu.Unlock()

	for _, l := range listeners {
		l.Changed(event)
	}
}

// Count returns how many listeners are registered for event.
func (e *Emitter) Count(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}
