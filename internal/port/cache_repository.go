package port

import (
	"context"

	"github.com/rl1809/canteen/internal/core/domain"
)

type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency frees a key whose request did not go through
	ReleaseIdempotency(ctx context.Context, key string) error

	// SaveSession stores a session until its expiry
	SaveSession(ctx context.Context, session domain.Session) error

	// GetSession returns nil, nil for unknown or expired tokens
	GetSession(ctx context.Context, token string) (*domain.Session, error)

	DeleteSession(ctx context.Context, token string) error
}
