package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/rl1809/canteen/internal/core/domain"
)

var ErrPoolClosed = errors.New("event pool closed")

// Sink consumes events drained from the pool.
type Sink interface {
	Name() string
	Handle(ctx context.Context, event domain.Event) error
}

type Config struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration // per event, per sink
}

// Pool fans domain events out to sinks on a fixed set of workers. Events
// sharing a key (order id, else item id) always land on the same worker, so
// an order is stored before it is marked delivered.
type Pool struct {
	queues  []chan domain.Event
	sinks   []Sink
	timeout time.Duration
	logger  *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewPool(cfg Config, logger *zap.SugaredLogger, sinks ...Sink) *Pool {
	workers := max(cfg.Workers, 1)
	perWorker := max(cfg.QueueSize/workers, 1)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	p := &Pool{
		queues:  make([]chan domain.Event, workers),
		sinks:   sinks,
		timeout: timeout,
		logger:  logger,
	}

	for i := range p.queues {
		p.queues[i] = make(chan domain.Event, perWorker)
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.workerLoop(id, p.queues[id])
		}(i)
	}

	logger.Infow("started event workers", "workers", workers, "sinks", len(sinks))
	return p
}

// Enqueue blocks while the worker's queue is full, until ctx is done.
func (p *Pool) Enqueue(ctx context.Context, event domain.Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.queues[p.slot(event)] <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits for queued ones to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Infow("event workers stopped")
}

func (p *Pool) slot(event domain.Event) int {
	key := event.ItemID
	if event.Order != nil {
		key = event.Order.ID
	}
	return int(xxhash.Sum64String(key) % uint64(len(p.queues)))
}

func (p *Pool) workerLoop(id int, queue <-chan domain.Event) {
	for event := range queue {
		for _, sink := range p.sinks {
			p.deliver(id, sink, event)
		}
	}
}

func (p *Pool) deliver(id int, sink Sink, event domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := sink.Handle(ctx, event); err != nil {
		p.logger.Errorw("sink failed",
			"worker", id,
			"sink", sink.Name(),
			"event_type", event.Type,
			"item_id", event.ItemID,
			"error", err,
		)
	}
}
