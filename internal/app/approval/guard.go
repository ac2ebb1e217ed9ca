package approval

import (
	"sync"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

// keyedGuard serializes session transitions per manager identity. Webhook
// deliveries for different managers proceed without contention; two
// near-simultaneous messages for the same manager take turns.
type keyedGuard struct {
	mu    sync.Mutex
	locks map[domain.ManagerID]*sync.Mutex
}

func newKeyedGuard() *keyedGuard {
	return &keyedGuard{locks: make(map[domain.ManagerID]*sync.Mutex)}
}

// lease is a held per-manager lock. The holder may release it around a
// blocking adapter call and re-take it before applying the result; any
// state read before the gap must be revalidated after it.
type lease struct {
	mu *sync.Mutex
}

func (g *keyedGuard) acquire(id domain.ManagerID) *lease {
	g.mu.Lock()
	m, ok := g.locks[id]
	if !ok {
		m = &sync.Mutex{}
		g.locks[id] = m
	}
	g.mu.Unlock()

	m.Lock()
	return &lease{mu: m}
}

func (l *lease) unlock() { l.mu.Unlock() }
func (l *lease) relock() { l.mu.Lock() }
