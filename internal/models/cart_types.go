package models

import "time"

// Cart defines the struct for the 'carts' table.
// One row per user (UNIQUE on user_id), created lazily on first access.
// It is never deleted; checkout only removes its lines.
type Cart struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem defines the struct for the 'cart_items' table.
// (cart_id, item_id) is unique; quantity is always > 0 — setting a line
// to zero deletes the row instead of storing a zero.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	CartID    int64     `json:"cartId" db:"cart_id"`
	ItemID    int64     `json:"itemId" db:"item_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
