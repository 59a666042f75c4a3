package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution; latecomers block until the leader finishes and share its
// result.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*sharedResult
}

type sharedResult struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. The boolean reports whether the
// result came from another caller's execution.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*sharedResult)
	}
	if existing, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-existing.done
		return existing.val, existing.err, true
	}

	leader := &sharedResult{done: make(chan struct{})}
	g.inflight[key] = leader
	g.mu.Unlock()

	leader.val, leader.err = fn()

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()
	close(leader.done)

	return leader.val, leader.err, false
}
