package service

import (
	"sync"
	"time"

	"github.com/rl1809/canteen/internal/core/domain"
)

const (
	maxTokenAttempts   = 64
	maxDeliveredOrders = 1024
)

// orderBook keeps every pending order and the most recent delivered ones,
// plus the index of pickup tokens that are still awaiting delivery. Older
// delivered orders are only reachable through the order repository.
type orderBook struct {
	mu             sync.Mutex
	byID           map[string]domain.Order
	pending        map[string]string // token -> order id, empty while only reserved
	delivered      []string          // oldest first
	deliveredLimit int
	newToken       func() (string, error)
}

func newOrderBook() *orderBook {
	return &orderBook{
		byID:           make(map[string]domain.Order),
		pending:        make(map[string]string),
		deliveredLimit: maxDeliveredOrders,
		newToken:       generateToken,
	}
}

// reserve claims a token no other pending order holds.
func (b *orderBook) reserve() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := b.newToken()
		if err != nil {
			return "", err
		}
		if _, taken := b.pending[token]; taken {
			continue
		}
		b.pending[token] = ""
		return token, nil
	}

	return "", ErrTokensExhausted
}

func (b *orderBook) cancel(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending[token] == "" {
		delete(b.pending, token)
	}
}

// open stores the order under its reserved token.
func (b *orderBook) open(order domain.Order) domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	order.Status = domain.OrderStatusPending
	b.byID[order.ID] = order
	b.pending[order.Token] = order.ID
	return order
}

func (b *orderBook) get(id string) (domain.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.byID[id]
	return order, ok
}

// deliver closes the pending order holding token and frees the token.
func (b *orderBook) deliver(token string, at time.Time) (domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.pending[token]
	if id == "" {
		return domain.Order{}, ErrTokenNotFound
	}

	order := b.byID[id]
	order.Status = domain.OrderStatusDelivered
	order.DeliveredAt = &at
	b.byID[id] = order
	delete(b.pending, token)

	b.delivered = append(b.delivered, id)
	for len(b.delivered) > b.deliveredLimit {
		delete(b.byID, b.delivered[0])
		b.delivered[0] = ""
		b.delivered = b.delivered[1:]
	}

	return order, nil
}

func (b *orderBook) pendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
