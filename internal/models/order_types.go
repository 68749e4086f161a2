package models

import "time"

// Order statuses. The only legal transition is PLACED -> DELIVERED.
const (
	OrderStatusPlaced    = "PLACED"
	OrderStatusDelivered = "DELIVERED"
)

// Order is the model for the 'orders' table.
// Immutable once created, except for the status transition.
type Order struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"userId" db:"user_id"`
	Status       string    `json:"status" db:"status"`
	TotalInPaise int64     `json:"totalInPaise" db:"total_in_paise"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem is the model for the 'order_items' table.
// UnitPriceInPaise is the price observed at checkout time, deliberately
// decoupled from items.price_in_paise so later price changes leave
// historical orders untouched.
type OrderItem struct {
	ID               int64     `json:"id" db:"id"`
	OrderID          int64     `json:"orderId" db:"order_id"`
	ItemID           int64     `json:"itemId" db:"item_id"`
	Quantity         int       `json:"quantity" db:"quantity"`
	UnitPriceInPaise int64     `json:"unitPriceInPaise" db:"unit_price_in_paise"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}
