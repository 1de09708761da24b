package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rl1809/canteen/internal/core/domain"
)

const QueueCanteenEvents = "canteen-events"

type Config struct {
	URL        string
	MaxRetries int
	RetryDelay time.Duration
}

// RabbitMQPublisher pushes domain events to a durable queue for kitchen
// displays and other consumers outside this process.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	mu      sync.Mutex
}

func NewRabbitMQPublisher(cfg Config) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		QueueCanteenEvents, // name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", QueueCanteenEvents, err)
	}

	return &RabbitMQPublisher{conn: conn, channel: channel, cfg: cfg}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         string(event.Type),
		Timestamp:    event.Timestamp,
		Body:         body,
	}

	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.cfg.RetryDelay):
			}
		}

		p.mu.Lock()
		lastErr = p.channel.PublishWithContext(ctx, "", QueueCanteenEvents, false, false, msg)
		p.mu.Unlock()

		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to publish after %d retries: %w", p.cfg.MaxRetries, lastErr)
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Encode is the wire form of an event on the queue.
func Encode(event domain.Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return body, nil
}
