package session

import (
	"context"
	"errors"
	"sync"

	"rfidattend/internal/domain"
)

// ErrNotLoggedIn is returned when no cached session exists.
var ErrNotLoggedIn = errors.New("not logged in")

// Store persists the single authenticated-teacher blob. Load returns nil,
// nil when nothing is cached.
type Store interface {
	Load(ctx context.Context) (*domain.SessionWire, error)
	Save(ctx context.Context, s domain.SessionWire) error
	Clear(ctx context.Context) error
}

// Manager seeds in-memory auth state from a Store once and keeps both in
// step on login and logout.
type Manager struct {
	store Store

	mu     sync.Mutex
	loaded bool
	cur    *domain.SessionWire
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Current returns the cached session, reading the store on first use only.
func (m *Manager) Current(ctx context.Context) (*domain.SessionWire, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return m.cur, nil
	}
	s, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	m.cur, m.loaded = s, true
	return m.cur, nil
}

// RequireTeacher returns the session or ErrNotLoggedIn.
func (m *Manager) RequireTeacher(ctx context.Context) (*domain.SessionWire, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil || s.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}
	return s, nil
}

func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	_, err := m.RequireTeacher(ctx)
	return err == nil
}

// Login caches s as the authenticated session.
func (m *Manager) Login(ctx context.Context, s domain.SessionWire) error {
	if err := m.store.Save(ctx, s); err != nil {
		return err
	}
	m.mu.Lock()
	m.cur, m.loaded = &s, true
	m.mu.Unlock()
	return nil
}

// Logout clears the persisted blob and in-memory state.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.cur, m.loaded = nil, true
	m.mu.Unlock()
	return nil
}
