package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Transitions are arbitrated by the admin dashboard;
// the API applies last write wins.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order is a customer purchase with its line items.
type Order struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	ProfileID     uuid.UUID   `json:"profile_id" db:"profile_id"`
	Status        string      `json:"status" db:"status"`
	Total         float64     `json:"total" db:"total"`
	CustomerName  string      `json:"customer_name" db:"customer_name"`
	CustomerPhone string      `json:"customer_phone" db:"customer_phone"`
	Address       string      `json:"address" db:"address"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem is one catalog item within an order, priced at purchase time.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ItemID    uuid.UUID `json:"item_id" db:"item_id"`
	Title     string    `json:"title" db:"title"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// ValidOrderStatus checks whether status is one of the known order states.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
