// Package assets decodes user-supplied images and sounds off the frame thread
// and publishes them through result slots.
package assets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrPending is returned by Slot.Err while the asset is still decoding.
var ErrPending = errors.New("asset still loading")

// Slot is a write-once result holder for an asynchronously decoded asset.
// Readers poll with Get or block with Wait; the writer publishes with a single
// atomic pointer swap, so a reader never sees a partial value.
type Slot[T any] struct {
	name string
	val  atomic.Pointer[T]
	err  atomic.Pointer[error]
	done chan struct{}
	once sync.Once
}

// NewSlot creates an empty slot.
func NewSlot[T any](name string) *Slot[T] {
	return &Slot[T]{name: name, done: make(chan struct{})}
}

// Ready returns a slot already bound to v.
func Ready[T any](name string, v T) *Slot[T] {
	s := NewSlot[T](name)
	s.Bind(v)
	return s
}

// Name returns the asset name the slot was created with.
func (s *Slot[T]) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Bind publishes the decoded value. Only the first Bind or Fail takes effect.
func (s *Slot[T]) Bind(v T) {
	s.once.Do(func() {
		s.val.Store(&v)
		close(s.done)
	})
}

// Fail records a decode error. Only the first Bind or Fail takes effect.
func (s *Slot[T]) Fail(err error) {
	s.once.Do(func() {
		s.err.Store(&err)
		close(s.done)
	})
}

// Get returns the bound value, or false if the slot is nil, pending or failed.
func (s *Slot[T]) Get() (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	p := s.val.Load()
	if p == nil {
		return zero, false
	}
	return *p, true
}

// Err returns the decode error, ErrPending while loading, or nil once bound.
func (s *Slot[T]) Err() error {
	if p := s.err.Load(); p != nil {
		return *p
	}
	if s.val.Load() == nil {
		return ErrPending
	}
	return nil
}

// Done is closed once the slot is bound or failed.
func (s *Slot[T]) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the slot settles or ctx is done.
func (s *Slot[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-s.done:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if v, ok := s.Get(); ok {
		return v, nil
	}
	return zero, s.Err()
}
