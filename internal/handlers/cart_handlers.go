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
// --- Cart Handlers ---
//
// Stock checks here are advisory only: they bound the quantity against the
// stock visible right now, but reserve nothing. Checkout re-validates every
// line inside its transaction and is the sole authoritative gate.
//

// getOrCreateCartID finds a user's cart or lazily creates one.
// Must be called within a transaction so the create cannot race itself;
// the UNIQUE(user_id) constraint backstops concurrent first requests.
func (h *Handlers) getOrCreateCartID(tx *sql.Tx, userID int64) (int64, error) {
	var cartID int64

	err := tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}

	if err == sql.ErrNoRows {
		now := time.Now()
		result, err := tx.Exec(
			"INSERT INTO carts (user_id, created_at, updated_at) VALUES (?, ?, ?)",
			userID, now, now)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}

	return 0, err
}

// CartLineResponse is one resolved line in a cart response.
type CartLineResponse struct {
	ItemID   int64       `json:"itemId"`
	Quantity int         `json:"quantity"`
	Item     models.Item `json:"item"`
}

// CartResponse is the shape every cart endpoint returns, so callers always
// observe a consistent post-state.
type CartResponse struct {
	ID     int64              `json:"id"`
	UserID int64              `json:"userId"`
	Items  []CartLineResponse `json:"items"`
}

// respondWithCart writes the full resolved cart for cartID.
func (h *Handlers) respondWithCart(c *gin.Context, cartID, userID int64) {
	query := `
		SELECT
			ci.item_id, ci.quantity,
			i.id, i.name, i.description, i.price_in_paise, i.stock, i.category_id,
			i.image_url, i.created_at, i.updated_at
		FROM cart_items ci
		JOIN items i ON ci.item_id = i.id
		WHERE ci.cart_id = ?
		ORDER BY ci.id ASC`
	rows, err := h.DB.Query(query, cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query cart items"})
		return
	}
	defer rows.Close()

	lines := []CartLineResponse{}
	for rows.Next() {
		var line CartLineResponse
		if err := rows.Scan(
			&line.ItemID, &line.Quantity,
			&line.Item.ID, &line.Item.Name, &line.Item.Description,
			&line.Item.PriceInPaise, &line.Item.Stock, &line.Item.CategoryID,
			&line.Item.ImageURL, &line.Item.CreatedAt, &line.Item.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan cart item"})
			return
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating cart items"})
		return
	}

	c.JSON(http.StatusOK, CartResponse{ID: cartID, UserID: userID, Items: lines})
}

// GetCart is the handler for GET /v1/cart.
func (h *Handlers) GetCart(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	cartID, err := h.getOrCreateCartID(tx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart initialization failed"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Commit failed"})
		return
	}

	h.respondWithCart(c, cartID, userID)
}

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ItemID   int64 `json:"itemId" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /v1/cart/items.
// Adding an item already in the cart merges quantities: the line becomes
// existing + requested, and the stock bound applies to the merged total.
func (h *Handlers) AddToCart(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	cartID, err := h.getOrCreateCartID(tx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart initialization failed"})
		return
	}

	var stock int
	err = tx.QueryRow("SELECT stock FROM items WHERE id = ?", input.ItemID).Scan(&stock)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	existingQty := 0
	err = tx.QueryRow(
		"SELECT quantity FROM cart_items WHERE cart_id = ? AND item_id = ?",
		cartID, input.ItemID).Scan(&existingQty)
	if err != nil && err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	merged := existingQty + input.Quantity
	if merged > stock {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Insufficient stock",
			"available": stock,
			"requested": merged,
		})
		return
	}

	if err := h.upsertCartLine(tx, cartID, input.ItemID, merged, existingQty > 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Commit failed"})
		return
	}

	h.respondWithCart(c, cartID, userID)
}

// upsertCartLine writes the absolute quantity for a cart line.
// Written as select-then-write (callers pass whether the line exists) so the
// SQL stays portable instead of leaning on MySQL's ON DUPLICATE KEY.
func (h *Handlers) upsertCartLine(tx *sql.Tx, cartID, itemID int64, quantity int, exists bool) error {
	now := time.Now()
	if exists {
		_, err := tx.Exec(
			"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE cart_id = ? AND item_id = ?",
			quantity, now, cartID, itemID)
		return err
	}
	_, err := tx.Exec(
		"INSERT INTO cart_items (cart_id, item_id, quantity, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		cartID, itemID, quantity, now, now)
	return err
}

// UpdateCartItemInput defines the JSON for setting a line's quantity.
// Quantity is a pointer so an explicit 0 survives binding's required check.
type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// UpdateCartItem is the handler for PATCH /v1/cart/items/:item_id.
// Unlike AddToCart this replaces the quantity outright; 0 deletes the line.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity := *input.Quantity

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	cartID, err := h.getOrCreateCartID(tx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart initialization failed"})
		return
	}

	if quantity == 0 {
		// Delete is idempotent: an absent line is already the desired state.
		if _, err := tx.Exec(
			"DELETE FROM cart_items WHERE cart_id = ? AND item_id = ?", cartID, itemID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
	} else {
		var stock int
		err = tx.QueryRow("SELECT stock FROM items WHERE id = ?", itemID).Scan(&stock)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if quantity > stock {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "Insufficient stock",
				"available": stock,
				"requested": quantity,
			})
			return
		}

		existingQty := 0
		err = tx.QueryRow(
			"SELECT quantity FROM cart_items WHERE cart_id = ? AND item_id = ?",
			cartID, itemID).Scan(&existingQty)
		if err != nil && err != sql.ErrNoRows {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := h.upsertCartLine(tx, cartID, itemID, quantity, existingQty > 0); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Commit failed"})
		return
	}

	h.respondWithCart(c, cartID, userID)
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:item_id.
// Idempotent: removing an absent line still returns the (unchanged) cart.
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	cartID, err := h.getOrCreateCartID(tx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart initialization failed"})
		return
	}

	if _, err := tx.Exec(
		"DELETE FROM cart_items WHERE cart_id = ? AND item_id = ?", cartID, itemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Commit failed"})
		return
	}

	h.respondWithCart(c, cartID, userID)
}
