package chat

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DeliverFunc pushes one rendered HTML fragment to a connected client.
type DeliverFunc func(ctx context.Context, fragment string) error

// Registry tracks the delivery callbacks of all live chat connections.
// It is created once at startup and passed by reference to whatever needs
// to broadcast; there is no package-level instance. Entries are best-effort:
// a connection that dies without a disconnect simply fails delivery until
// its handler returns and removes it.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]DeliverFunc
	logger *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]DeliverFunc),
		logger: slog.Default(),
	}
}

// Add registers a delivery callback under id. Re-registering an existing id
// replaces the callback.
func (r *Registry) Add(id string, fn DeliverFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = fn
}

// Remove drops the callback registered under id. Removing an absent id is
// a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// snapshot copies the current connection set so delivery never holds the lock.
func (r *Registry) snapshot() map[string]DeliverFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]DeliverFunc, len(r.conns))
	for id, fn := range r.conns {
		out[id] = fn
	}
	return out
}

// Broadcast delivers fragment to every connection registered at the moment
// of the call. Fan-out is concurrent and a failing recipient never blocks
// delivery to the others; its error is logged and the connection is left for
// its own handler to remove.
func (r *Registry) Broadcast(ctx context.Context, fragment string) {
	conns := r.snapshot()
	if len(conns) == 0 {
		return
	}

	g := new(errgroup.Group)
	for id, fn := range conns {
		id, fn := id, fn
		g.Go(func() error {
			if err := fn(ctx, fragment); err != nil {
				r.logger.Debug("broadcast delivery failed", "conn", id, "error", err)
			}
			return nil
		})
	}
	g.Wait()
}
