package domain

import "time"

type EventType string

const (
	EventItemAdded      EventType = "item.added"
	EventItemUpdated    EventType = "item.updated"
	EventItemDeleted    EventType = "item.deleted"
	EventOrderPlaced    EventType = "order.placed"
	EventOrderDelivered EventType = "order.delivered"
)

type Event struct {
	Type      EventType `json:"type"`
	ItemID    string    `json:"item_id"`
	Item      *MenuItem `json:"item,omitempty"`
	Order     *Order    `json:"order,omitempty"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
}
