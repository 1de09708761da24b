package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/rl1809/canteen/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu     sync.Mutex
	name   string
	events []domain.Event
	err    error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Handle(ctx context.Context, event domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) received() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.events...)
}

func orderEvent(eventType domain.EventType, orderID string) domain.Event {
	return domain.Event{Type: eventType, ItemID: "1", Order: &domain.Order{ID: orderID}}
}

func TestPool_FansOutToEverySink(t *testing.T) {
	failing := &recordingSink{name: "failing", err: errors.New("boom")}
	healthy := &recordingSink{name: "healthy"}
	pool := NewPool(Config{Workers: 4, QueueSize: 16}, zap.NewNop().Sugar(), failing, healthy)

	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Enqueue(context.Background(), orderEvent(domain.EventOrderPlaced, fmt.Sprintf("o-%d", i))))
	}
	pool.Close()

	assert.Len(t, failing.received(), 10)
	assert.Len(t, healthy.received(), 10)
}

func TestPool_KeepsOrderPerKey(t *testing.T) {
	sink := &recordingSink{name: "orders"}
	pool := NewPool(Config{Workers: 8, QueueSize: 256}, zap.NewNop().Sugar(), sink)

	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("o-%d", i)
		require.NoError(t, pool.Enqueue(context.Background(), orderEvent(domain.EventOrderPlaced, id)))
		require.NoError(t, pool.Enqueue(context.Background(), orderEvent(domain.EventOrderDelivered, id)))
	}
	pool.Close()

	placed := make(map[string]bool)
	for _, event := range sink.received() {
		switch event.Type {
		case domain.EventOrderPlaced:
			placed[event.Order.ID] = true
		case domain.EventOrderDelivered:
			assert.True(t, placed[event.Order.ID], "delivered before placed: %s", event.Order.ID)
		}
	}
	assert.Len(t, placed, 50)
}

func TestPool_EnqueueAfterClose(t *testing.T) {
	pool := NewPool(Config{Workers: 1, QueueSize: 1}, zap.NewNop().Sugar())
	pool.Close()
	pool.Close()

	err := pool.Enqueue(context.Background(), orderEvent(domain.EventOrderPlaced, "o-1"))
	assert.ErrorIs(t, err, ErrPoolClosed)
}

type blockingSink struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingSink) Name() string { return "blocking" }

func (s *blockingSink) Handle(ctx context.Context, event domain.Event) error {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return nil
}

func TestPool_EnqueueHonoursContext(t *testing.T) {
	sink := &blockingSink{started: make(chan struct{}), release: make(chan struct{})}
	pool := NewPool(Config{Workers: 1, QueueSize: 1}, zap.NewNop().Sugar(), sink)

	require.NoError(t, pool.Enqueue(context.Background(), orderEvent(domain.EventOrderPlaced, "a")))
	<-sink.started
	require.NoError(t, pool.Enqueue(context.Background(), orderEvent(domain.EventOrderPlaced, "b")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pool.Enqueue(ctx, orderEvent(domain.EventOrderPlaced, "c"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(sink.release)
	pool.Close()
}
