// Package pool wraps sync.Pool with a typed Get so callers skip the assertion
package pool

import (
	"errors"
	"sync"
)

var (
	ErrNilConstructor = errors.New("litepool: constructor must not be nil")
	ErrNilValue       = errors.New("litepool: constructor returned nil")
)

// Resettable values are reset on Put, before they go back in the pool
type Resettable interface {
	Reset()
}

type Pool[T any] struct {
	pool sync.Pool
}

// NewLitePool calls newFn once up front so a constructor that returns nil is
// caught here rather than on the first Get
func NewLitePool[T any](newFn func() T) (*Pool[T], error) {
	if newFn == nil {
		return nil, ErrNilConstructor
	}
	if any(newFn()) == nil {
		return nil, ErrNilValue
	}

	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return newFn() },
		},
	}, nil
}

func (p *Pool[T]) Get() T {
	//nolint:forcetypeassert // New only ever returns T
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(v T) {
	if r, ok := any(v).(Resettable); ok {
		r.Reset()
	}
	p.pool.Put(v)
}
