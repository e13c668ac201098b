package formstate

import (
	"github.com/tbxark/formstate/patch"
	"github.com/tbxark/formstate/store"
	"github.com/tbxark/formstate/types"
)

// Snapshot returns the current state. The returned value must be treated as
// read-only.
func (c *Controller[T]) Snapshot() store.State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[T]) Values() T {
	return c.Snapshot().Values
}

// Errors returns a copy of the current error map.
func (c *Controller[T]) Errors() types.ErrorMap {
	return c.Snapshot().Errors.Normalize()
}

func (c *Controller[T]) IsPristine() bool {
	return c.Snapshot().IsPristine
}

func (c *Controller[T]) IsValid() bool {
	return c.Snapshot().IsValid
}

// Dirty returns the fields whose current value differs from the initial one.
func (c *Controller[T]) Dirty() (types.Patch, error) {
	s := c.Snapshot()
	return patch.Diff(s.InitialValues, s.Values)
}

// Subscribe registers fn to receive every new state. Under concurrent use
// notifications may arrive out of order; State.Version orders them. fn must not
// block. The returned function removes the subscription.
func (c *Controller[T]) Subscribe(fn func(store.State[T])) (cancel func()) {
	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Controller[T]) listenersLocked() []func(store.State[T]) {
	if len(c.listeners) == 0 {
		return nil
	}
	out := make([]func(store.State[T]), 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}

func (c *Controller[T]) publish(listeners []func(store.State[T]), s store.State[T]) {
	for _, fn := range listeners {
		fn(s)
	}
}
