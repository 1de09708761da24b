package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/port"
)

// OrderSink mirrors order lifecycle events into the order repository.
type OrderSink struct {
	orders port.OrderRepository
}

func NewOrderSink(orders port.OrderRepository) *OrderSink {
	return &OrderSink{orders: orders}
}

func (s *OrderSink) Name() string { return "orders" }

func (s *OrderSink) Handle(ctx context.Context, event domain.Event) error {
	order := event.Order
	if order == nil {
		return nil
	}

	switch event.Type {
	case domain.EventOrderPlaced:
		err := s.orders.CreateOrder(ctx, *order)
		if errors.Is(err, port.ErrConflict) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("save order %s: %w", order.ID, err)
		}
	case domain.EventOrderDelivered:
		at := event.Timestamp
		if order.DeliveredAt != nil {
			at = *order.DeliveredAt
		}
		if err := s.orders.MarkDelivered(ctx, order.ID, at); err != nil {
			return fmt.Errorf("mark order %s delivered: %w", order.ID, err)
		}
	}
	return nil
}

type AuditSink struct {
	audits port.AuditRepository
}

func NewAuditSink(audits port.AuditRepository) *AuditSink {
	return &AuditSink{audits: audits}
}

func (s *AuditSink) Name() string { return "audit" }

func (s *AuditSink) Handle(ctx context.Context, event domain.Event) error {
	return s.audits.CreateAudit(ctx, event)
}

type PublishSink struct {
	publisher port.EventPublisher
}

func NewPublishSink(publisher port.EventPublisher) *PublishSink {
	return &PublishSink{publisher: publisher}
}

func (s *PublishSink) Name() string { return "publish" }

func (s *PublishSink) Handle(ctx context.Context, event domain.Event) error {
	return s.publisher.Publish(ctx, event)
}
