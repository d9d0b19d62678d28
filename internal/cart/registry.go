package cart

import (
	"context"
	"sync"
	"time"

	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

// Registry owns every live session cart. Carts are created empty on first
// touch and evicted after sitting idle past the TTL; eviction is the only
// way a cart leaves memory short of process exit.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*registryEntry
	ttl   time.Duration
}

type registryEntry struct {
	cart     *Cart
	lastSeen time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		carts: map[string]*registryEntry{},
		ttl:   ttl,
	}
}

// Get returns the session's cart, creating an empty one on first touch, and
// refreshes its idle deadline.
func (r *Registry) Get(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.carts[sessionID]
	if !ok {
		entry = &registryEntry{cart: New()}
		r.carts[sessionID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.cart
}

// Drop removes the session's cart immediately.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}

// Len reports the number of live carts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// Sweep evicts carts idle past the TTL and reports how many were removed.
// Carts with a checkout in flight are left alone regardless of age.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for sessionID, entry := range r.carts {
		if now.Sub(entry.lastSeen) < r.ttl {
			continue
		}
		if entry.cart.CheckoutInFlight() {
			continue
		}
		delete(r.carts, sessionID)
		evicted++
	}
	return evicted
}

// Run sweeps on the given interval until the context is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration, logg *logger.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if evicted := r.Sweep(now); evicted > 0 && logg != nil {
				logg.Info(logg.WithField(ctx, "evicted", evicted), "cart.sessions.swept")
			}
		}
	}
}
