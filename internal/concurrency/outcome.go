package concurrency

import "sync"

// Outcome is a single-resolution result cell shared between a waiting caller
// and concurrent producers. The first Resolve or Fail wins; every later write
// is a no-op, so a late-arriving message cannot race an already-fired timeout.
type Outcome[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewOutcome returns an unresolved outcome.
func NewOutcome[T any]() *Outcome[T] {
	return &Outcome[T]{done: make(chan struct{})}
}

// Resolve records a successful value. Returns true when this call won.
func (o *Outcome[T]) Resolve(value T) bool {
	won := false
	o.once.Do(func() {
		o.value = value
		won = true
		close(o.done)
	})
	return won
}

// Fail records a failure. Returns true when this call won.
func (o *Outcome[T]) Fail(err error) bool {
	won := false
	o.once.Do(func() {
		o.err = err
		won = true
		close(o.done)
	})
	return won
}

// Done is closed once the outcome is resolved either way.
func (o *Outcome[T]) Done() <-chan struct{} {
	return o.done
}

// Result returns the recorded value or error. Only valid after Done is closed.
func (o *Outcome[T]) Result() (T, error) {
	return o.value, o.err
}
