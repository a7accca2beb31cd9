package auth

// Package auth implements the session-state kernel: a sequence-numbered state
// store tracking one principal's authentication state, the access-guard
// decision table evaluated against it, and a per-session registry used by the
// HTTP layer.

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	domainauth "github.com/campushq/internhub/internal/domain/auth"
)

// State is the authentication state tuple consumers read.
//
// Initialized=false means the user is UNKNOWN, not unauthenticated; guards
// must wait, never redirect, until the first resolution lands.
type State struct {
	User        *domainauth.AppUser
	Loading     bool
	Initialized bool
	Err         string
}

// ResolveFunc resolves the current application user for the tracked principal.
// A nil user with nil error means "no live session".
type ResolveFunc func(ctx context.Context) (*domainauth.AppUser, error)

// SubscribeFunc registers fn for session-change notifications carrying the
// complete replacement user (nil on sign-out) and returns an unsubscribe.
type SubscribeFunc func(ctx context.Context, fn func(*domainauth.AppUser)) (func(), error)

// StoreOptions groups dependencies for Store.
type StoreOptions struct {
	Resolve   ResolveFunc   // Required
	Subscribe SubscribeFunc // Optional: store works resolve-only without it
	Logger    *slog.Logger  // Optional
}

// Store owns the authentication state for one principal.
//
// The one-shot resolver and the change subscription race freely; every update
// is tagged with a monotonically increasing sequence number and a stale
// update never overwrites a newer one. Initialized transitions false->true
// exactly once, on the first resolution (success or failure), and never
// transitions back.
type Store struct {
	resolve   ResolveFunc
	subscribe SubscribeFunc
	logger    *slog.Logger

	seq atomic.Uint64 // update sequence source

	mu      sync.Mutex
	state   State
	applied uint64 // highest sequence number applied so far
	closed  bool
	unsub   func()
	subs    map[int]func(State)
	nextSub int
}

// NewStore creates a Store in the Booting stage (Loading, not Initialized).
func NewStore(opts StoreOptions) *Store {
	if opts.Resolve == nil {
		panic("auth.NewStore: Resolve is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		resolve:   opts.Resolve,
		subscribe: opts.Subscribe,
		logger:    logger,
		state:     State{Loading: true},
		subs:      map[int]func(State){},
	}
}

// update carries one candidate state mutation.
type update struct {
	seq  uint64
	user *domainauth.AppUser
	err  error
}

// Boot registers the change subscription and performs the initial resolution.
// The resolution is synchronous so callers observe an initialized store on
// return; notifications arriving during the resolve are reconciled by
// sequence number, whichever lands last wins.
func (s *Store) Boot(ctx context.Context) {
	if s.subscribe != nil {
		unsub, err := s.subscribe(ctx, func(u *domainauth.AppUser) {
			// Sequence assigned at delivery: a notification received after a
			// resolve started outranks that resolve's eventual result.
			s.apply(update{seq: s.seq.Add(1), user: u})
		})
		if err != nil {
			s.logger.Warn("session-change subscription unavailable, store is resolve-only", "error", err)
		} else {
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				unsub()
			} else {
				s.unsub = unsub
				s.mu.Unlock()
			}
		}
	}

	s.resolveAndApply(ctx)
}

// RefreshUser re-resolves the current user and applies the result under the
// same sequencing rule. Used after actions known to change the directory
// record (e.g. a role change) that emit no session event.
func (s *Store) RefreshUser(ctx context.Context) {
	s.resolveAndApply(ctx)
}

func (s *Store) resolveAndApply(ctx context.Context) {
	// Sequence assigned before the call: a notification delivered while the
	// resolve is in flight wins over the resolve's older view.
	seq := s.seq.Add(1)
	user, err := s.resolve(ctx)
	s.apply(update{seq: seq, user: user, err: err})
}

func (s *Store) apply(u update) {
	s.mu.Lock()
	if s.closed || u.seq <= s.applied {
		// Torn-down store or stale update; drop it.
		s.mu.Unlock()
		return
	}
	s.applied = u.seq
	s.state.Loading = false
	s.state.Initialized = true
	if u.err != nil {
		// Failures surface as a message and preserve the last-known user: a
		// transient fault while re-checking must not eject a signed-in user.
		s.state.Err = u.err.Error()
	} else {
		s.state.User = u.user
		s.state.Err = ""
	}
	snapshot := s.state
	listeners := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Snapshot returns the current committed state. Consumers always observe a
// complete tuple, never a torn update.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to run after every committed state change and
// returns an unsubscribe function.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close tears the store down. Pending resolves and notifications that land
// after Close are suppressed rather than mutating a dead store.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsub
	s.unsub = nil
	s.subs = map[int]func(State){}
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
