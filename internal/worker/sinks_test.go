package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/port"
)

type mockOrderRepo struct {
	mu        sync.Mutex
	created   []domain.Order
	delivered map[string]time.Time
	createErr error
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, order)
	return nil
}

func (m *mockOrderRepo) MarkDelivered(ctx context.Context, orderID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delivered == nil {
		m.delivered = make(map[string]time.Time)
	}
	m.delivered[orderID] = at
	return nil
}

func (m *mockOrderRepo) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return nil, nil
}

func TestOrderSink(t *testing.T) {
	repo := &mockOrderRepo{}
	sink := NewOrderSink(repo)
	ctx := context.Background()
	at := time.Date(2026, 1, 5, 12, 30, 0, 0, time.UTC)

	order := domain.Order{ID: "o-1", Status: domain.OrderStatusPending}
	require.NoError(t, sink.Handle(ctx, domain.Event{Type: domain.EventOrderPlaced, Order: &order}))

	delivered := order
	delivered.DeliveredAt = &at
	require.NoError(t, sink.Handle(ctx, domain.Event{Type: domain.EventOrderDelivered, Order: &delivered}))

	require.NoError(t, sink.Handle(ctx, domain.Event{Type: domain.EventItemAdded, ItemID: "1"}))

	assert.Len(t, repo.created, 1)
	assert.Equal(t, at, repo.delivered["o-1"])
}

func TestOrderSink_Errors(t *testing.T) {
	order := domain.Order{ID: "o-1"}
	event := domain.Event{Type: domain.EventOrderPlaced, Order: &order}

	conflict := NewOrderSink(&mockOrderRepo{createErr: port.ErrConflict})
	assert.NoError(t, conflict.Handle(context.Background(), event))

	broken := NewOrderSink(&mockOrderRepo{createErr: errors.New("db down")})
	assert.ErrorContains(t, broken.Handle(context.Background(), event), "save order o-1")
}

type mockAudits struct{ events []domain.Event }

func (m *mockAudits) CreateAudit(ctx context.Context, event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}

type mockPublisher struct {
	events []domain.Event
	closed bool
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error {
	m.closed = true
	return nil
}

func TestAuditAndPublishSinks(t *testing.T) {
	audits := &mockAudits{}
	publisher := &mockPublisher{}
	event := domain.Event{Type: domain.EventItemDeleted, ItemID: "7"}

	require.NoError(t, NewAuditSink(audits).Handle(context.Background(), event))
	require.NoError(t, NewPublishSink(publisher).Handle(context.Background(), event))

	assert.Equal(t, []domain.Event{event}, audits.events)
	assert.Equal(t, []domain.Event{event}, publisher.events)
}
