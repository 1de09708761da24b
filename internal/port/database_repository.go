package port

import (
	"context"
	"errors"
	"time"

	"github.com/rl1809/canteen/internal/core/domain"
)

var ErrConflict = errors.New("record already exists")

type OrderRepository interface {
	// CreateOrder persists a newly placed order
	CreateOrder(ctx context.Context, order domain.Order) error

	// MarkDelivered records pickup of a pending order
	MarkDelivered(ctx context.Context, orderID string, at time.Time) error

	// GetOrder returns nil, nil when the order does not exist
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

type AccountRepository interface {
	// CreateAccount returns ErrConflict when the handle is taken
	CreateAccount(ctx context.Context, account domain.Account) error

	// GetAccountByHandle returns nil, nil when no account matches
	GetAccountByHandle(ctx context.Context, handle string) (*domain.Account, error)
}
