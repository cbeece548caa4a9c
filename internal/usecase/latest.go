package usecase

import "sync"

// LatestGate implements "last request for the current key wins" for
// re-issued external fetches. Each fetch registers its query key and gets
// a token; when it completes it checks the token before applying its
// result, so a stale in-flight fetch whose parameters no longer match
// current state is discarded rather than aborted.
type LatestGate struct {
	mu  sync.Mutex
	key string
	seq uint64
}

// Begin registers key as the current query and returns a token for it.
func (g *LatestGate) Begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.key = key
	g.seq++
	return g.seq
}

// Current reports whether the fetch identified by token is still the
// latest one issued.
func (g *LatestGate) Current(token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return token == g.seq
}

// Key returns the current query key.
func (g *LatestGate) Key() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.key
}
