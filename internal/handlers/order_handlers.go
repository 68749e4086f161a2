package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/foodmate/foodmate-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Order Retrieval Handlers ---
//
// Orders are read-only to their owner; the only mutation after checkout is
// the admin deliver transition in admin_handlers.go.
//

// OrderLineResponse extends the base OrderItem with the item's name for
// display; the captured unit price still comes from the order line.
type OrderLineResponse struct {
	models.OrderItem
	ItemName string `json:"itemName"`
}

// OrderResponse is one order with its resolved lines.
type OrderResponse struct {
	models.Order
	Items []OrderLineResponse `json:"items"`
}

// GetMyOrders is the handler for GET /v1/orders.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	rows, err := h.DB.Query(`
		SELECT id, user_id, status, total_in_paise, created_at, updated_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []OrderResponse{}
	index := map[int64]int{}
	for rows.Next() {
		var o OrderResponse
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalInPaise, &o.CreatedAt, &o.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		o.Items = []OrderLineResponse{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating orders"})
		return
	}

	lineRows, err := h.DB.Query(`
		SELECT oi.id, oi.order_id, oi.item_id, oi.quantity, oi.unit_price_in_paise, oi.created_at, i.name
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN items i ON oi.item_id = i.id
		WHERE o.user_id = ?
		ORDER BY oi.id ASC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var line OrderLineResponse
		if err := lineRows.Scan(
			&line.ID, &line.OrderID, &line.ItemID, &line.Quantity,
			&line.UnitPriceInPaise, &line.CreatedAt, &line.ItemName,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order item"})
			return
		}
		if i, ok := index[line.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, line)
		}
	}
	if err := lineRows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating order items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /v1/orders/:id.
// Ownership is enforced in the query itself: someone else's order id looks
// identical to a missing one.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var o OrderResponse
	err = h.DB.QueryRow(`
		SELECT id, user_id, status, total_in_paise, created_at, updated_at
		FROM orders
		WHERE id = ? AND user_id = ?`, orderID, userID).Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalInPaise, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT oi.id, oi.order_id, oi.item_id, oi.quantity, oi.unit_price_in_paise, oi.created_at, i.name
		FROM order_items oi
		JOIN items i ON oi.item_id = i.id
		WHERE oi.order_id = ?
		ORDER BY oi.id ASC`, o.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}
	defer rows.Close()

	o.Items = []OrderLineResponse{}
	for rows.Next() {
		var line OrderLineResponse
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.ItemID, &line.Quantity,
			&line.UnitPriceInPaise, &line.CreatedAt, &line.ItemName,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order item"})
			return
		}
		o.Items = append(o.Items, line)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating order items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": o})
}
