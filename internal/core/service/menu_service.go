package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rl1809/canteen/internal/core/catalog"
	"github.com/rl1809/canteen/internal/core/domain"
	"github.com/rl1809/canteen/internal/port"
)

type ListFilter struct {
	OrderableOnly bool
	Category      domain.Category
}

type MenuService struct {
	store    *catalog.Store
	events   port.EventQueue
	validate *validator.Validate
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewMenuService(store *catalog.Store, events port.EventQueue, logger *zap.SugaredLogger) *MenuService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &MenuService{
		store:    store,
		events:   events,
		validate: validate,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *MenuService) List(ctx context.Context, filter ListFilter) []domain.MenuItem {
	items := s.store.Snapshot()
	if !filter.OrderableOnly && filter.Category == "" {
		return items
	}

	out := items[:0]
	for _, item := range items {
		if filter.OrderableOnly && !item.Orderable() {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s *MenuService) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	item, ok := s.store.Get(id)
	if !ok {
		return domain.MenuItem{}, ErrItemNotFound
	}
	return item, nil
}

func (s *MenuService) Create(ctx context.Context, actorID string, fields domain.ItemFields) (domain.MenuItem, error) {
	if err := s.Validate(fields); err != nil {
		return domain.MenuItem{}, err
	}

	item := s.store.AddItem(fields)
	s.logger.Infow("menu item added", "item_id", item.ID, "name", item.Name, "actor_id", actorID)
	s.publish(ctx, domain.EventItemAdded, item, actorID)

	return item, nil
}

func (s *MenuService) Update(ctx context.Context, actorID string, item domain.MenuItem) (domain.MenuItem, error) {
	if err := s.Validate(item.ItemFields); err != nil {
		return domain.MenuItem{}, err
	}
	return s.resubmit(ctx, actorID, item)
}

func (s *MenuService) Delete(ctx context.Context, actorID, id string) error {
	item, ok := s.store.Get(id)
	if !ok || s.store.DeleteItem(id) != catalog.OK {
		return ErrItemNotFound
	}

	s.logger.Infow("menu item deleted", "item_id", id, "actor_id", actorID)
	s.publish(ctx, domain.EventItemDeleted, item, actorID)

	return nil
}

// ToggleAvailability flips the manual availability flag, leaving the count as is.
func (s *MenuService) ToggleAvailability(ctx context.Context, actorID, id string) (domain.MenuItem, error) {
	item, ok := s.store.Get(id)
	if !ok {
		return domain.MenuItem{}, ErrItemNotFound
	}

	item.IsAvailable = !item.IsAvailable
	return s.resubmit(ctx, actorID, item)
}

// AdjustCount moves the count by delta, never below zero.
func (s *MenuService) AdjustCount(ctx context.Context, actorID, id string, delta int) (domain.MenuItem, error) {
	item, ok := s.store.Get(id)
	if !ok {
		return domain.MenuItem{}, ErrItemNotFound
	}
	if delta > 0 && item.AvailabilityCount > math.MaxInt-delta {
		return domain.MenuItem{}, &ValidationError{Fields: map[string]string{"delta": "would overflow the count"}}
	}

	item.AvailabilityCount = max(0, item.AvailabilityCount+delta)
	return s.resubmit(ctx, actorID, item)
}

// Validate applies the checks the store leaves to its callers.
func (s *MenuService) Validate(fields domain.ItemFields) error {
	problems := make(map[string]string)

	if err := s.validate.Struct(fields); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate item: %w", err)
		}
		for _, fe := range fieldErrs {
			problems[fe.Field()] = describe(fe)
		}
	}
	if fields.Price.IsNegative() {
		problems["price"] = "cannot be negative"
	}

	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

func (s *MenuService) resubmit(ctx context.Context, actorID string, item domain.MenuItem) (domain.MenuItem, error) {
	if s.store.UpdateItem(item) != catalog.OK {
		return domain.MenuItem{}, ErrItemNotFound
	}

	s.logger.Infow("menu item updated", "item_id", item.ID, "available", item.IsAvailable, "count", item.AvailabilityCount, "actor_id", actorID)
	s.publish(ctx, domain.EventItemUpdated, item, actorID)

	return item, nil
}

func (s *MenuService) publish(ctx context.Context, eventType domain.EventType, item domain.MenuItem, actorID string) {
	event := domain.Event{
		Type:      eventType,
		ItemID:    item.ID,
		Item:      &item,
		ActorID:   actorID,
		Timestamp: s.now(),
	}
	if err := s.events.Enqueue(ctx, event); err != nil {
		s.logger.Warnw("failed to enqueue menu event", "item_id", item.ID, "event_type", eventType, "error", err)
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "an image is required"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "cannot be negative"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
