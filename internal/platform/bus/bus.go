// Package bus is a small in-process fan-out used for session changes and
// document status updates. Publish never blocks: a subscriber whose buffer is
// full misses the event
package bus

import "sync"

// DefaultBuffer is the per-subscriber channel capacity
const DefaultBuffer = 16

// Bus fans out values of T to every live subscriber
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   map[uint64]chan T
	next   uint64
	closed bool
}

// New returns an empty bus
func New[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[uint64]chan T)}
}

// Subscribe registers a listener. The returned cancel func removes it and
// closes the channel; it is safe to call more than once
func (b *Bus[T]) Subscribe(buffer int) (<-chan T, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan T, buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers v to each subscriber that has room and returns how many got it
func (b *Bus[T]) Publish(v T) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, ch := range b.subs {
		select {
		case ch <- v:
			n++
		default:
		}
	}
	return n
}

// Len reports the live subscriber count
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close drops all subscribers and closes their channels
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
