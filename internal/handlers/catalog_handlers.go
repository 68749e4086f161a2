package handlers

import (
	"database/sql"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foodmate/foodmate-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

//
// --- Catalog Handlers (Public) ---
//

// GetAllCategories is the handler for GET /v1/categories.
func (h *Handlers) GetAllCategories(c *gin.Context) {
	rows, err := h.DB.Query(
		"SELECT id, name, slug, created_at, updated_at FROM categories ORDER BY name ASC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan category"})
			return
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating categories"})
		return
	}

	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// SearchItems is the handler for GET /v1/items.
// Supports ?category=, ?q= (name/description search), ?page= and ?limit=.
func (h *Handlers) SearchItems(c *gin.Context) {
	q := c.Query("q")
	categoryID := c.Query("category")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var where strings.Builder
	var args []interface{}

	where.WriteString(" WHERE 1=1")
	if categoryID != "" && categoryID != "all" {
		where.WriteString(" AND i.category_id = ?")
		args = append(args, categoryID)
	}
	if q != "" {
		where.WriteString(" AND (i.name LIKE ? OR i.description LIKE ?)")
		searchTerm := "%" + q + "%"
		args = append(args, searchTerm, searchTerm)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM items i" + where.String()
	if err := h.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count items"})
		return
	}

	query := `
		SELECT
			i.id, i.name, i.description, i.price_in_paise, i.stock, i.category_id,
			i.image_url, i.created_at, i.updated_at,
			c.id, c.name, c.slug, c.created_at, c.updated_at
		FROM items i
		JOIN categories c ON i.category_id = c.id` +
		where.String() +
		" ORDER BY i.name ASC LIMIT ? OFFSET ?"
	pageArgs := append(args, limit, (page-1)*limit)

	rows, err := h.DB.Query(query, pageArgs...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var cat models.Category
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.PriceInPaise, &item.Stock,
			&item.CategoryID, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt,
			&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt, &cat.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan item"})
			return
		}
		item.Category = &cat
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating items"})
		return
	}

	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetItem is the handler for GET /v1/items/:id.
func (h *Handlers) GetItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.Item
	var cat models.Category
	query := `
		SELECT
			i.id, i.name, i.description, i.price_in_paise, i.stock, i.category_id,
			i.image_url, i.created_at, i.updated_at,
			c.id, c.name, c.slug, c.created_at, c.updated_at
		FROM items i
		JOIN categories c ON i.category_id = c.id
		WHERE i.id = ?`
	err = h.DB.QueryRow(query, itemID).Scan(
		&item.ID, &item.Name, &item.Description, &item.PriceInPaise, &item.Stock,
		&item.CategoryID, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt,
		&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	item.Category = &cat
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateCategoryInput defines the JSON for creating a category.
type CreateCategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory is the handler for POST /v1/admin/categories.
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingID int64
	err := h.DB.QueryRow("SELECT id FROM categories WHERE name = ?", input.Name).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		return
	}
	if err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	now := time.Now()
	result, err := h.DB.Exec(
		"INSERT INTO categories (name, slug, created_at, updated_at) VALUES (?, ?, ?, ?)",
		input.Name, slug.Make(input.Name), now, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	categoryID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new category ID"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": models.Category{
		ID:        categoryID,
		Name:      input.Name,
		Slug:      slug.Make(input.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}})
}
