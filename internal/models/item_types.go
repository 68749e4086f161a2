package models

import "time"

// Item is the model for the 'items' table.
// Prices are integer paise so money never goes through floating point.
// Stock is mutated only by admin restock and checkout; it never goes negative.
type Item struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	PriceInPaise int64     `json:"priceInPaise" db:"price_in_paise"`
	Stock        int       `json:"stock" db:"stock"`
	CategoryID   int64     `json:"categoryId" db:"category_id"`
	ImageURL     *string   `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Join (not in the items table, populated manually)
	Category *Category `json:"category,omitempty" db:"-"`
}
