package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/rl1809/canteen/internal/core/domain"
)

const auditCollection = "catalog_audit"

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type auditDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Type      string             `bson:"type"`
	ItemID    string             `bson:"item_id"`
	ItemName  string             `bson:"item_name,omitempty"`
	Price     string             `bson:"price,omitempty"`
	Count     *int               `bson:"availability_count,omitempty"`
	Available *bool              `bson:"is_available,omitempty"`
	OrderID   string             `bson:"order_id,omitempty"`
	Token     string             `bson:"token,omitempty"`
	ActorID   string             `bson:"actor_id"`
	Timestamp time.Time          `bson:"timestamp"`
}

// MongoAdapter keeps the audit trail of catalog and order events.
type MongoAdapter struct {
	client *mongo.Client
	audits *mongo.Collection
}

func NewMongoAdapter(cfg MongoConfig) (*MongoAdapter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoAdapter{
		client: client,
		audits: client.Database(cfg.Database).Collection(auditCollection),
	}, nil
}

func (m *MongoAdapter) CreateIndexes(ctx context.Context) error {
	_, err := m.audits.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "item_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "order_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

func (m *MongoAdapter) CreateAudit(ctx context.Context, event domain.Event) error {
	if _, err := m.audits.InsertOne(ctx, newAuditDocument(event)); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func (m *MongoAdapter) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoAdapter) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func newAuditDocument(event domain.Event) auditDocument {
	doc := auditDocument{
		Type:      string(event.Type),
		ItemID:    event.ItemID,
		ActorID:   event.ActorID,
		Timestamp: event.Timestamp,
	}
	if item := event.Item; item != nil {
		count, available := item.AvailabilityCount, item.IsAvailable
		doc.ItemName = item.Name
		doc.Price = item.Price.String()
		doc.Count = &count
		doc.Available = &available
	}
	if order := event.Order; order != nil {
		doc.ItemName = order.ItemName
		doc.Price = order.Price.String()
		doc.OrderID = order.ID
		doc.Token = order.Token
	}
	return doc
}
