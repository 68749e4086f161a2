package models

import "time"

// Inventory log reasons: the two producers of stock changes.
const (
	InventoryReasonAdminRestock  = "ADMIN_RESTOCK"
	InventoryReasonOrderCheckout = "ORDER_CHECKOUT"
)

// InventoryLog is the model for the 'inventory_logs' table: an append-only
// ledger of every stock change. Replaying deltas in timestamp order plus the
// item's initial stock must always equal its current stock.
type InventoryLog struct {
	ID        int64     `json:"id" db:"id"`
	ItemID    int64     `json:"itemId" db:"item_id"`
	Delta     int       `json:"delta" db:"delta"`
	Reason    string    `json:"reason" db:"reason"`
	OrderID   *int64    `json:"orderId,omitempty" db:"order_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
