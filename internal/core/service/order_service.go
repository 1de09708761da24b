package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/canteen/internal/core/catalog"
	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/port"
)

type OrderService struct {
	store  *catalog.Store
	cache  port.CacheRepository
	events port.EventQueue
	orders port.OrderRepository // optional, consulted for orders from earlier runs
	book   *orderBook
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewOrderService(
	store *catalog.Store,
	cache port.CacheRepository,
	events port.EventQueue,
	orders port.OrderRepository,
	logger *zap.SugaredLogger,
) *OrderService {
	return &OrderService{
		store:  store,
		cache:  cache,
		events: events,
		orders: orders,
		book:   newOrderBook(),
		logger: logger,
		now:    time.Now,
	}
}

// PlaceOrder buys one unit of itemID and returns the order with its pickup token.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID, requestID, itemID string) (domain.Order, error) {
	idempotencyKey := fmt.Sprintf("order:%s:%s", customerID, requestID)

	ok, err := s.cache.SetIdempotency(ctx, idempotencyKey)
	if err != nil {
		return domain.Order{}, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return domain.Order{}, ErrDuplicateRequest
	}

	token, err := s.book.reserve()
	if err != nil {
		s.logger.Errorw("failed to assign pickup token", "item_id", itemID, "error", err)
		s.release(ctx, idempotencyKey)
		return domain.Order{}, err
	}

	item, err := s.take(itemID)
	if err != nil {
		s.book.cancel(token)
		s.release(ctx, idempotencyKey)
		return domain.Order{}, err
	}

	order := s.book.open(domain.Order{
		ID:         uuid.NewString(),
		ItemID:     item.ID,
		ItemName:   item.Name,
		Price:      item.Price,
		CustomerID: customerID,
		Token:      token,
		CreatedAt:  s.now(),
	})

	s.logger.Infow("order placed", "order_id", order.ID, "item_id", item.ID, "remaining", item.AvailabilityCount)
	s.publish(ctx, domain.EventOrderPlaced, order, customerID)

	return order, nil
}

func (s *OrderService) take(itemID string) (domain.MenuItem, error) {
	current, found := s.store.Get(itemID)
	if !found {
		return domain.MenuItem{}, ErrItemNotFound
	}
	if !current.IsAvailable {
		return domain.MenuItem{}, ErrItemUnavailable
	}

	item, outcome := s.store.OrderItem(itemID)
	switch outcome {
	case catalog.OK:
		return item, nil
	case catalog.OutOfStock:
		return domain.MenuItem{}, ErrOutOfStock
	default:
		return domain.MenuItem{}, ErrItemNotFound
	}
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if order, ok := s.book.get(orderID); ok {
		return order, nil
	}
	if s.orders == nil {
		return domain.Order{}, ErrOrderNotFound
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return domain.Order{}, ErrOrderNotFound
	}
	return *order, nil
}

// VerifyToken hands over the pending order that carries token.
func (s *OrderService) VerifyToken(ctx context.Context, actorID, token string) (domain.Order, error) {
	if !validToken(token) {
		return domain.Order{}, ErrInvalidToken
	}

	order, err := s.book.deliver(token, s.now())
	if err != nil {
		s.logger.Infow("token rejected", "token", token, "actor_id", actorID)
		return domain.Order{}, err
	}

	s.logger.Infow("order delivered", "order_id", order.ID, "token", token, "actor_id", actorID)
	s.publish(ctx, domain.EventOrderDelivered, order, actorID)

	return order, nil
}

// PendingOrders is the number of tokens awaiting pickup.
func (s *OrderService) PendingOrders() int {
	return s.book.pendingCount()
}

func (s *OrderService) release(ctx context.Context, key string) {
	if err := s.cache.ReleaseIdempotency(ctx, key); err != nil {
		s.logger.Warnw("failed to release idempotency key", "key", key, "error", err)
	}
}

func (s *OrderService) publish(ctx context.Context, eventType domain.EventType, order domain.Order, actorID string) {
	event := domain.Event{
		Type:      eventType,
		ItemID:    order.ItemID,
		Order:     &order,
		ActorID:   actorID,
		Timestamp: s.now(),
	}
	if err := s.events.Enqueue(ctx, event); err != nil {
		s.logger.Warnw("failed to enqueue order event", "order_id", order.ID, "event_type", eventType, "error", err)
	}
}
