package eventbus

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// DefaultBufferSize is the per subscriber queue length
const DefaultBufferSize = 16

// EventBus fans events out to every subscriber. Publishing never blocks: a
// subscriber whose queue is full misses the event and it is counted as dropped.
type EventBus[T any] struct {
	subscribers *xsync.Map[uint64, *subscriber[T]]
	nextID      atomic.Uint64
	dropped     atomic.Uint64
	closed      atomic.Bool
	bufferSize  int
}

type subscriber[T any] struct {
	ch     chan T
	mu     sync.RWMutex
	closed bool
}

func New[T any]() *EventBus[T] {
	return NewWithBuffer[T](DefaultBufferSize)
}

func NewWithBuffer[T any](bufferSize int) *EventBus[T] {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &EventBus[T]{
		subscribers: xsync.NewMap[uint64, *subscriber[T]](),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new subscriber. The channel is closed when ctx ends,
// when the returned cancel func is called or when the bus shuts down.
func (eb *EventBus[T]) Subscribe(ctx context.Context) (<-chan T, func()) {
	if eb.closed.Load() {
		ch := make(chan T)
		close(ch)
		return ch, func() {}
	}

	id := eb.nextID.Add(1)
	sub := &subscriber[T]{ch: make(chan T, eb.bufferSize)}
	eb.subscribers.Store(id, sub)

	stop := context.AfterFunc(ctx, func() { eb.remove(id) })
	return sub.ch, func() {
		stop()
		eb.remove(id)
	}
}

// Publish delivers event to every subscriber with room in its queue and
// returns how many received it
func (eb *EventBus[T]) Publish(event T) int {
	if eb.closed.Load() {
		return 0
	}

	delivered := 0
	eb.subscribers.Range(func(_ uint64, sub *subscriber[T]) bool {
		sub.mu.RLock()
		defer sub.mu.RUnlock()
		if sub.closed {
			return true
		}
		select {
		case sub.ch <- event:
			delivered++
		default:
			eb.dropped.Add(1)
		}
		return true
	})
	return delivered
}

// Shutdown closes every subscriber channel; later publishes are ignored
func (eb *EventBus[T]) Shutdown() {
	if !eb.closed.CompareAndSwap(false, true) {
		return
	}
	eb.subscribers.Range(func(id uint64, _ *subscriber[T]) bool {
		eb.remove(id)
		return true
	})
}

type Stats struct {
	Subscribers int
	Dropped     uint64
	IsShutdown  bool
}

func (eb *EventBus[T]) Stats() Stats {
	return Stats{
		Subscribers: eb.subscribers.Size(),
		Dropped:     eb.dropped.Load(),
		IsShutdown:  eb.closed.Load(),
	}
}

func (eb *EventBus[T]) remove(id uint64) {
	sub, ok := eb.subscribers.LoadAndDelete(id)
	if !ok {
		return
	}
	// sends happen under the read lock, so none can race the close
	sub.mu.Lock()
	sub.closed = true
	close(sub.ch)
	sub.mu.Unlock()
}
