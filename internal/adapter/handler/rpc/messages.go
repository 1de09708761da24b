package rpc

import "time"

type LoginRequest struct {
	Kind     string `json:"kind"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Kind      string    `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ListMenuRequest struct {
	OrderableOnly bool   `json:"orderable_only"`
	Category      string `json:"category,omitempty"`
}

type MenuItem struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Price             string `json:"price"`
	AvailabilityCount int    `json:"availability_count"`
	IsAvailable       bool   `json:"is_available"`
	Category          string `json:"category"`
	ImageAddress      string `json:"image_address"`
	Orderable         bool   `json:"orderable"`
}

type ListMenuResponse struct {
	Items []MenuItem `json:"items"`
}

type PlaceOrderRequest struct {
	RequestID string `json:"request_id"`
	ItemID    string `json:"item_id"`
}

type GetOrderRequest struct {
	OrderID string `json:"order_id"`
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type Order struct {
	ID          string     `json:"id"`
	ItemID      string     `json:"item_id"`
	ItemName    string     `json:"item_name"`
	Price       string     `json:"price"`
	Token       string     `json:"token"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}
