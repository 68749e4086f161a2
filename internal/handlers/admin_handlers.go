package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/foodmate/foodmate-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Admin Handlers ---
//

// RestockInput defines the JSON for restocking an item. Delta is a pointer
// so negative corrections bind cleanly; zero is rejected below.
type RestockInput struct {
	Delta *int `json:"delta" binding:"required"`
}

// RestockItem is the handler for POST /v1/admin/items/:id/restock.
// Updates stock and appends one ADMIN_RESTOCK row to the inventory ledger,
// in the same transaction so the ledger can never drift from the stock.
func (h *Handlers) RestockItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var input RestockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delta := *input.Delta
	if delta == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delta must be non-zero"})
		return
	}

	tx, err := h.DB.BeginTx(c, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var stock int
	err = tx.QueryRow("SELECT stock FROM items WHERE id = ?", itemID).Scan(&stock)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	newStock := stock + delta
	if newStock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Restock would make stock negative",
			"stock": stock,
		})
		return
	}

	now := time.Now()
	if _, err := tx.Exec(
		"UPDATE items SET stock = ?, updated_at = ? WHERE id = ?",
		newStock, now, itemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}

	if _, err := tx.Exec(
		"INSERT INTO inventory_logs (item_id, delta, reason, order_id, created_at) VALUES (?, ?, ?, NULL, ?)",
		itemID, delta, models.InventoryReasonAdminRestock, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write inventory log"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"itemId": itemID,
		"stock":  newStock,
		"delta":  delta,
	})
}

// GetItemInventoryLogs is the handler for GET /v1/admin/items/:id/inventory-logs.
// Returns the ledger oldest-first: replaying the deltas on top of the item's
// initial stock reconstructs its stock history.
func (h *Handlers) GetItemInventoryLogs(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var exists int64
	err = h.DB.QueryRow("SELECT id FROM items WHERE id = ?", itemID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, item_id, delta, reason, order_id, created_at
		FROM inventory_logs
		WHERE item_id = ?
		ORDER BY created_at ASC, id ASC`, itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory logs"})
		return
	}
	defer rows.Close()

	logs := []models.InventoryLog{}
	for rows.Next() {
		var entry models.InventoryLog
		var orderID sql.NullInt64
		if err := rows.Scan(&entry.ID, &entry.ItemID, &entry.Delta, &entry.Reason, &orderID, &entry.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan inventory log"})
			return
		}
		if orderID.Valid {
			entry.OrderID = &orderID.Int64
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating inventory logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// MarkOrderDelivered is the handler for POST /v1/admin/orders/:id/deliver.
// PLACED -> DELIVERED is the only legal transition and it happens once.
func (h *Handlers) MarkOrderDelivered(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRow("SELECT status FROM orders WHERE id = ?", orderID).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	if status != models.OrderStatusPlaced {
		c.JSON(http.StatusConflict, gin.H{"error": "Order has already been delivered"})
		return
	}

	if _, err := tx.Exec(
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		models.OrderStatusDelivered, time.Now(), orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId": orderID,
		"status":  models.OrderStatusDelivered,
	})
}
