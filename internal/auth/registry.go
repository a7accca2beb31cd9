package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
)

// SessionAuthClient is the slice of the auth service the registry needs to
// build per-session stores.
type SessionAuthClient interface {
	// ResolveCurrentUser returns the application user behind sessionID, nil
	// when the session is gone.
	ResolveCurrentUser(ctx context.Context, sessionID string) (*domainauth.AppUser, error)
	// SubscribeSessionChanges delivers replacement users (nil on sign-out)
	// for sessionID until the returned unsubscribe runs.
	SubscribeSessionChanges(ctx context.Context, sessionID string, fn func(*domainauth.AppUser)) (func(), error)
}

// defaultMaxIdle is how long an untouched per-session store survives before
// the sweeper reclaims it.
const defaultMaxIdle = 30 * time.Minute

// RegistryOptions groups dependencies for Registry.
type RegistryOptions struct {
	Client  SessionAuthClient
	Logger  *slog.Logger
	MaxIdle time.Duration // 0 means defaultMaxIdle
}

// Registry hands out one booted Store per session ID. Stores are created
// lazily on first access, reused across requests for the same session, and
// reclaimed on logout or after sitting idle.
type Registry struct {
	client  SessionAuthClient
	logger  *slog.Logger
	maxIdle time.Duration

	mu     sync.Mutex
	stores map[string]*entry
	done   chan struct{}
	once   sync.Once
}

type entry struct {
	store    *Store
	lastSeen time.Time
}

// NewRegistry creates a Registry and starts its idle sweeper.
func NewRegistry(opts RegistryOptions) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxIdle := opts.MaxIdle
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdle
	}
	r := &Registry{
		client:  opts.Client,
		logger:  logger,
		maxIdle: maxIdle,
		stores:  map[string]*entry{},
		done:    make(chan struct{}),
	}
	go r.sweep()
	return r
}

// StoreFor returns the store tracking sessionID, booting a new one on first
// access. The boot is synchronous, so the returned store is initialized.
func (r *Registry) StoreFor(ctx context.Context, sessionID string) *Store {
	r.mu.Lock()
	if e, ok := r.stores[sessionID]; ok {
		e.lastSeen = time.Now()
		r.mu.Unlock()
		return e.store
	}
	store := NewStore(StoreOptions{
		Resolve: func(ctx context.Context) (*domainauth.AppUser, error) {
			return r.client.ResolveCurrentUser(ctx, sessionID)
		},
		Subscribe: func(ctx context.Context, fn func(*domainauth.AppUser)) (func(), error) {
			return r.client.SubscribeSessionChanges(ctx, sessionID, fn)
		},
		Logger: r.logger,
	})
	r.stores[sessionID] = &entry{store: store, lastSeen: time.Now()}
	r.mu.Unlock()

	store.Boot(ctx)
	return store
}

// Evict tears down the store for sessionID, if any. Called on logout.
func (r *Registry) Evict(sessionID string) {
	r.mu.Lock()
	e, ok := r.stores[sessionID]
	if ok {
		delete(r.stores, sessionID)
	}
	r.mu.Unlock()
	if ok {
		e.store.Close()
	}
}

// Close stops the sweeper and tears down every store.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.done) })
	r.mu.Lock()
	stores := r.stores
	r.stores = map[string]*entry{}
	r.mu.Unlock()
	for _, e := range stores {
		e.store.Close()
	}
}

func (r *Registry) sweep() {
	ticker := time.NewTicker(r.maxIdle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case now := <-ticker.C:
			var stale []*Store
			r.mu.Lock()
			for id, e := range r.stores {
				if now.Sub(e.lastSeen) > r.maxIdle {
					stale = append(stale, e.store)
					delete(r.stores, id)
				}
			}
			n := len(stale)
			r.mu.Unlock()
			for _, s := range stale {
				s.Close()
			}
			if n > 0 {
				r.logger.Debug("reclaimed idle session stores", "count", n)
			}
		}
	}
}
