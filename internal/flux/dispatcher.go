package flux

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Token identifies a registered callback.
type Token uint64

// ErrReentrantDispatch is the panic value raised when Dispatch is called while
// another dispatch is still running.
var ErrReentrantDispatch = errors.New("flux: cannot dispatch in the middle of a dispatch")

type registration[A any] struct {
	token    Token
	callback func(A)
}

// Dispatcher fans an action out to every registered callback, synchronously and
// in registration order.
type Dispatcher[A any] struct {
	mu          sync.Mutex
	callbacks   []registration[A]
	nextToken   Token
	dispatching atomic.Bool
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher[A any]() *Dispatcher[A] {
	return &Dispatcher[A]{}
}

// Register adds callback and returns the token needed to remove it.
func (d *Dispatcher[A]) Register(callback func(A)) Token {
	if callback == nil {
		panic("flux: nil callback")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextToken++
	d.callbacks = append(d.callbacks, registration[A]{token: d.nextToken, callback: callback})
	return d.nextToken
}

// Unregister removes the callback registered under token. Unknown tokens panic.
func (d *Dispatcher[A]) Unregister(token Token) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, reg := range d.callbacks {
		if reg.token == token {
			d.callbacks = append(d.callbacks[:i:i], d.callbacks[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("flux: unregister of unknown token %d", token))
}

// Dispatch delivers action to every callback registered at the time of the
// call. It panics with ErrReentrantDispatch if a dispatch is already running;
// that is always a cyclic update or an unserialized caller.
func (d *Dispatcher[A]) Dispatch(action A) {
	if !d.dispatching.CompareAndSwap(false, true) {
		panic(ErrReentrantDispatch)
	}
	defer d.dispatching.Store(false)

	d.mu.Lock()
	callbacks := make([]registration[A], len(d.callbacks))
	copy(callbacks, d.callbacks)
	d.mu.Unlock()

	for _, reg := range callbacks {
		reg.callback(action)
	}
}

// Len returns the number of registered callbacks.
func (d *Dispatcher[A]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.callbacks)
}
