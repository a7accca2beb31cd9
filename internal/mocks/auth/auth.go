package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campushq/internhub/internal/data"
	domainauth "github.com/campushq/internhub/internal/domain/auth"
	"github.com/campushq/internhub/internal/domain/model"
	"github.com/campushq/internhub/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider    = (*MockAuthProvider)(nil)
	_ ports.SessionStore    = (*MemorySessionStore)(nil)
	_ ports.SessionEventBus = (*MemoryEventBus)(nil)
	_ ports.UserDirectory   = (*MemoryDirectory)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL         string
	DefaultIdentity domainauth.Identity

	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultIdentity: domainauth.Identity{
			UserID:    "mock-user-1",
			Name:      "Mock User",
			Email:     "mock.user@campus.edu",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.callCount++
	state := fmt.Sprintf("state-%d", m.callCount)
	nonce := fmt.Sprintf("nonce-%d", m.callCount)
	return m.AuthURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	identity := m.DefaultIdentity
	identity.ExpiresAt = time.Now().Add(time.Hour)
	return identity, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// MemoryEventBus delivers session events synchronously to subscribers in the
// same process.
type MemoryEventBus struct {
	mu      sync.Mutex
	nextID  int
	subs    map[string]map[int]func(*domainauth.Session)
	history []PublishedEvent
}

// PublishedEvent records one Publish call for assertions.
type PublishedEvent struct {
	SessionID string
	Session   *domainauth.Session
}

// NewMemoryEventBus creates a new in-process event bus.
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{subs: make(map[string]map[int]func(*domainauth.Session))}
}

func (m *MemoryEventBus) Publish(_ context.Context, sessionID string, sess *domainauth.Session) error {
	m.mu.Lock()
	m.history = append(m.history, PublishedEvent{SessionID: sessionID, Session: sess})
	var fns []func(*domainauth.Session)
	for _, fn := range m.subs[sessionID] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
	return nil
}

func (m *MemoryEventBus) Subscribe(_ context.Context, sessionID string, fn func(*domainauth.Session)) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subs[sessionID] == nil {
		m.subs[sessionID] = make(map[int]func(*domainauth.Session))
	}
	id := m.nextID
	m.nextID++
	m.subs[sessionID][id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[sessionID], id)
	}, nil
}

// Published returns a copy of every event published so far.
func (m *MemoryEventBus) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.history))
	copy(out, m.history)
	return out
}

// MemoryDirectory is an in-memory user directory keyed by external user ID.
type MemoryDirectory struct {
	mu       sync.Mutex
	profiles map[string]*model.UserProfile
	// FindErr, when set, is returned by every lookup to simulate outages.
	FindErr error
}

// NewMemoryDirectory creates a new in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{profiles: make(map[string]*model.UserProfile)}
}

// Put registers or replaces a profile.
func (m *MemoryDirectory) Put(profile *model.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
}

// Remove deletes the profile for userID.
func (m *MemoryDirectory) Remove(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, userID)
}

func (m *MemoryDirectory) FindByUserID(_ context.Context, userID string) (*model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, data.ErrProfileNotFound
	}
	cp := *profile
	return &cp, nil
}
