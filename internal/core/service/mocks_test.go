package service

import (
	"context"
	"sync"

	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/port"
)

// Mock CacheRepository
type mockCacheRepo struct {
	idempotencySet map[string]bool
	sessions       map[string]domain.Session
	err            error
	mu             sync.Mutex
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{
		idempotencySet: make(map[string]bool),
		sessions:       make(map[string]domain.Session),
	}
}

func (m *mockCacheRepo) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return false, m.err
	}
	if m.idempotencySet[key] {
		return false, nil
	}
	m.idempotencySet[key] = true
	return true, nil
}

func (m *mockCacheRepo) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.idempotencySet, key)
	return nil
}

func (m *mockCacheRepo) SaveSession(ctx context.Context, session domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Token] = session
	return nil
}

func (m *mockCacheRepo) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (m *mockCacheRepo) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// Mock EventQueue
type mockEventQueue struct {
	events []domain.Event
	mu     sync.Mutex
}

func (m *mockEventQueue) Enqueue(ctx context.Context, event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventQueue) types() []domain.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// Mock AccountRepository
type mockAccountRepo struct {
	byHandle map[string]domain.Account
	mu       sync.Mutex
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{byHandle: make(map[string]domain.Account)}
}

func (m *mockAccountRepo) CreateAccount(ctx context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byHandle[account.Handle]; ok {
		return port.ErrConflict
	}
	m.byHandle[account.Handle] = account
	return nil
}

func (m *mockAccountRepo) GetAccountByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.byHandle[handle]
	if !ok {
		return nil, nil
	}
	return &account, nil
}
