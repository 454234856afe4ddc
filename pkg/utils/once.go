package utils

import (
	"errors"
	"sync/atomic"
)

// ErrAlreadySet is returned by OnceValue.Set after the first successful Set.
var ErrAlreadySet = errors.New("value already set")

// OnceValue holds a value that can be published exactly once and then read
// without locking.
type OnceValue[T any] struct {
	p atomic.Pointer[T]
}

// Set publishes v. Subsequent calls fail with ErrAlreadySet.
func (o *OnceValue[T]) Set(v *T) error {
	if v == nil {
		return errors.New("cannot publish nil value")
	}
	if !o.p.CompareAndSwap(nil, v) {
		return ErrAlreadySet
	}
	return nil
}

// Get returns the published value.
func (o *OnceValue[T]) Get() (*T, bool) {
	v := o.p.Load()
	return v, v != nil
}
