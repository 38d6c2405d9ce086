package refresh

import "sync"

// Guard drops results that arrive after the owning view was closed.
// Apply runs fn under the guard's lock, so Close also waits for an apply
// that is already running.
type Guard struct {
	mu     sync.Mutex
	closed bool
}

// Apply runs fn unless the guard is closed and reports whether it ran.
func (g *Guard) Apply(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	fn()
	return true
}

func (g *Guard) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

func (g *Guard) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}
