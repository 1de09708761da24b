package port

import (
	"context"

	"github.com/rl1809/canteen/internal/core/domain"
)

// EventQueue accepts domain events for asynchronous fan-out.
type EventQueue interface {
	Enqueue(ctx context.Context, event domain.Event) error
}

type AuditRepository interface {
	CreateAudit(ctx context.Context, event domain.Event) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}
