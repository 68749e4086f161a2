package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/foodmate/foodmate-golang/internal/models"
	"github.com/gin-gonic/gin"
)

// CheckoutIssue is the per-line diagnostic returned on a failed checkout.
type CheckoutIssue struct {
	ItemID    int64  `json:"itemId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Reason    string `json:"reason"`
}

const checkoutReasonNotAvailable = "NOT_AVAILABLE"

// checkoutLine is a cart line plus the item state re-read inside the
// checkout transaction (never the state cached at add-to-cart time).
type checkoutLine struct {
	ItemID       int64
	Quantity     int
	PriceInPaise int64
}

// Checkout is the handler for POST /v1/checkout.
//
// The whole conversion of a cart into an order runs as one serializable
// transaction: load cart lines, re-read every item row, validate stock,
// then order + order_items + stock decrements + inventory log + cart clear.
// If any line falls short nothing at all is written and the response lists
// every offending line, so the user can adjust and retry. Quantities are
// never clamped: checkout is all-or-nothing, not per line.
//
// Two concurrent checkouts competing on the same item rows are serialized
// by the isolation level; the loser observes the winner's committed
// decrements. A request dropped before commit rolls back via the request
// context handed to BeginTx.
func (h *Handlers) Checkout(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	tx, err := h.DB.BeginTx(c, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find cart"})
		return
	}

	rows, err := tx.Query(
		"SELECT item_id, quantity FROM cart_items WHERE cart_id = ? ORDER BY id ASC", cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart items"})
		return
	}

	var lines []checkoutLine
	for rows.Next() {
		var line checkoutLine
		if err := rows.Scan(&line.ItemID, &line.Quantity); err != nil {
			rows.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan cart item"})
			return
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating cart items"})
		return
	}
	rows.Close()

	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}

	// Re-read every item row for fresh stock and price. Collect an issue per
	// shortfall instead of failing on the first one, so the client gets the
	// complete picture in a single round trip.
	var issues []CheckoutIssue
	var totalInPaise int64
	for i := range lines {
		line := &lines[i]

		var stock int
		err := tx.QueryRow(
			"SELECT price_in_paise, stock FROM items WHERE id = ?", line.ItemID,
		).Scan(&line.PriceInPaise, &stock)
		if err != nil {
			if err == sql.ErrNoRows {
				issues = append(issues, CheckoutIssue{
					ItemID:    line.ItemID,
					Requested: line.Quantity,
					Available: 0,
					Reason:    checkoutReasonNotAvailable,
				})
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check item stock"})
			return
		}

		// Strict less-than: a request for exactly the available stock succeeds.
		if stock < line.Quantity {
			issues = append(issues, CheckoutIssue{
				ItemID:    line.ItemID,
				Requested: line.Quantity,
				Available: stock,
				Reason:    checkoutReasonNotAvailable,
			})
			continue
		}

		totalInPaise += int64(line.Quantity) * line.PriceInPaise
	}

	if len(issues) > 0 {
		// Deferred rollback discards everything; the cart is left untouched.
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "PARTIAL_FAIL",
			"issues": issues,
		})
		return
	}

	now := time.Now()
	result, err := tx.Exec(
		"INSERT INTO orders (user_id, status, total_in_paise, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		userID, models.OrderStatusPlaced, totalInPaise, now, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new order ID"})
		return
	}

	for _, line := range lines {
		// Snapshot the line with the price observed above.
		if _, err := tx.Exec(
			"INSERT INTO order_items (order_id, item_id, quantity, unit_price_in_paise, created_at) VALUES (?, ?, ?, ?, ?)",
			orderID, line.ItemID, line.Quantity, line.PriceInPaise, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save order item"})
			return
		}

		if _, err := tx.Exec(
			"UPDATE items SET stock = stock - ?, updated_at = ? WHERE id = ?",
			line.Quantity, now, line.ItemID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deduct stock"})
			return
		}

		if _, err := tx.Exec(
			"INSERT INTO inventory_logs (item_id, delta, reason, order_id, created_at) VALUES (?, ?, ?, ?, ?)",
			line.ItemID, -line.Quantity, models.InventoryReasonOrderCheckout, orderID, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write inventory log"})
			return
		}
	}

	if _, err := tx.Exec("DELETE FROM cart_items WHERE cart_id = ?", cartID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":       "SUCCESS",
		"orderId":      orderID,
		"totalInPaise": totalInPaise,
	})
}
