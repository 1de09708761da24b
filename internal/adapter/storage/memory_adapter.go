package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/port"
)

const memorySweepInterval = time.Minute

// MemoryCache stands in for Redis when no address is configured. Expired
// entries are dropped on read and by a sweep that runs on writes at most
// once per memorySweepInterval.
type MemoryCache struct {
	mu          sync.Mutex
	idempotency map[string]time.Time
	sessions    map[string]domain.Session
	nextSweep   time.Time
	now         func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		idempotency: make(map[string]time.Time),
		sessions:    make(map[string]domain.Session),
		now:         time.Now,
	}
}

func (m *MemoryCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	if expires, ok := m.idempotency[key]; ok && now.Before(expires) {
		return false, nil
	}
	m.idempotency[key] = now.Add(idempotencyKeyTTL)
	return true, nil
}

func (m *MemoryCache) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.idempotency, key)
	return nil
}

func (m *MemoryCache) SaveSession(ctx context.Context, session domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(m.now())
	m.sessions[session.Token] = session
	return nil
}

func (m *MemoryCache) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	if session.Expired(m.now()) {
		delete(m.sessions, token)
		return nil, nil
	}
	return &session, nil
}

func (m *MemoryCache) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MemoryCache) sweepLocked(now time.Time) {
	if now.Before(m.nextSweep) {
		return
	}
	m.nextSweep = now.Add(memorySweepInterval)

	for key, expires := range m.idempotency {
		if !now.Before(expires) {
			delete(m.idempotency, key)
		}
	}
	for token, session := range m.sessions {
		if session.Expired(now) {
			delete(m.sessions, token)
		}
	}
}

// MemoryAccounts stands in for MySQL account storage.
type MemoryAccounts struct {
	mu       sync.RWMutex
	byHandle map[string]domain.Account
}

func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{byHandle: make(map[string]domain.Account)}
}

func (m *MemoryAccounts) CreateAccount(ctx context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byHandle[account.Handle]; ok {
		return port.ErrConflict
	}
	m.byHandle[account.Handle] = account
	return nil
}

func (m *MemoryAccounts) GetAccountByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.byHandle[handle]
	if !ok {
		return nil, nil
	}
	return &account, nil
}
