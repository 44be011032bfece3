package query

import (
	"context"
	"sync"
)

// Generation hands out increasing tickets and remembers the newest one.
// Starting a new ticket cancels the context of the previous one so an older
// fetch can stop early; Current reports whether a ticket is still the newest
type Generation struct {
	mu     sync.Mutex
	n      uint64
	cancel context.CancelFunc
}

// Ticket identifies one fetch
type Ticket uint64

// Next issues a ticket, cancels the previous fetch and returns a context
// derived from parent for the new one
func (g *Generation) Next(parent context.Context) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	g.n++
	g.cancel = cancel
	return ctx, Ticket(g.n)
}

// Current reports whether t is the newest ticket
func (g *Generation) Current(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return uint64(t) == g.n
}

// Done releases the context of t when it is still the newest ticket
func (g *Generation) Done(t Ticket) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if uint64(t) == g.n && g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// Stop cancels whatever fetch is in flight and invalidates outstanding tickets
func (g *Generation) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.n++
}
