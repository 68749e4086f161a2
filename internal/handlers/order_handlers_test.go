package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foodmate/foodmate-golang/internal/handlers"
	"github.com/foodmate/foodmate-golang/internal/models"
)

func TestGetMyOrders(t *testing.T) {
	router, db := setupTestRouter(t)
	userID := createTestUser(t, db, "orders@example.com", models.RoleCustomer)
	token := bearerToken(t, userID)
	categoryID := createTestCategory(t, db, "Mains", "mains")
	biryaniID := createTestItem(t, db, categoryID, "Hyderabadi Biryani", 32000, 25)
	dalID := createTestItem(t, db, categoryID, "Dal Makhani", 26000, 45)

	t.Run("no orders yet returns an empty list", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet, "/v1/orders", nil, token)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			Orders []handlers.OrderResponse `json:"orders"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.NotNil(t, response.Orders)
		assert.Empty(t, response.Orders)
	})

	performRequest(router, http.MethodPost, "/v1/cart/items",
		handlers.AddToCartInput{ItemID: biryaniID, Quantity: 2}, token)
	performRequest(router, http.MethodPost, "/v1/cart/items",
		handlers.AddToCartInput{ItemID: dalID, Quantity: 1}, token)
	first := performRequest(router, http.MethodPost, "/v1/checkout", nil, token)
	assert.Equal(t, http.StatusCreated, first.Code)

	performRequest(router, http.MethodPost, "/v1/cart/items",
		handlers.AddToCartInput{ItemID: dalID, Quantity: 3}, token)
	second := performRequest(router, http.MethodPost, "/v1/checkout", nil, token)
	assert.Equal(t, http.StatusCreated, second.Code)

	t.Run("returns orders newest-first with resolved lines", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet, "/v1/orders", nil, token)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			Orders []handlers.OrderResponse `json:"orders"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Len(t, response.Orders, 2)

		newest := response.Orders[0]
		assert.Equal(t, int64(3*26000), newest.TotalInPaise)
		assert.Len(t, newest.Items, 1)
		assert.Equal(t, "Dal Makhani", newest.Items[0].ItemName)
		assert.Equal(t, int64(26000), newest.Items[0].UnitPriceInPaise)

		oldest := response.Orders[1]
		assert.Equal(t, int64(2*32000+26000), oldest.TotalInPaise)
		assert.Len(t, oldest.Items, 2)
	})

	t.Run("users only see their own orders", func(t *testing.T) {
		stranger := createTestUser(t, db, "stranger@example.com", models.RoleCustomer)
		recorder := performRequest(router, http.MethodGet, "/v1/orders", nil, bearerToken(t, stranger))

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			Orders []handlers.OrderResponse `json:"orders"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Empty(t, response.Orders)
	})
}

func TestGetOrderDetails(t *testing.T) {
	router, db := setupTestRouter(t)
	userID := createTestUser(t, db, "detail@example.com", models.RoleCustomer)
	token := bearerToken(t, userID)
	categoryID := createTestCategory(t, db, "Desserts", "desserts")
	itemID := createTestItem(t, db, categoryID, "Gulab Jamun", 12000, 60)

	performRequest(router, http.MethodPost, "/v1/cart/items",
		handlers.AddToCartInput{ItemID: itemID, Quantity: 2}, token)
	checkout := performRequest(router, http.MethodPost, "/v1/checkout", nil, token)
	assert.Equal(t, http.StatusCreated, checkout.Code)
	placed := decodeCheckout(t, checkout.Body.Bytes())

	t.Run("returns the order with its snapshot lines", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet, "/v1/orders/"+itoa(placed.OrderID), nil, token)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			Order handlers.OrderResponse `json:"order"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, placed.OrderID, response.Order.ID)
		assert.Equal(t, models.OrderStatusPlaced, response.Order.Status)
		assert.Equal(t, int64(24000), response.Order.TotalInPaise)
		assert.Len(t, response.Order.Items, 1)
		assert.Equal(t, 2, response.Order.Items[0].Quantity)
		assert.Equal(t, int64(12000), response.Order.Items[0].UnitPriceInPaise)
	})

	t.Run("someone else's order looks like a missing one", func(t *testing.T) {
		other := createTestUser(t, db, "other@example.com", models.RoleCustomer)
		recorder := performRequest(router, http.MethodGet,
			"/v1/orders/"+itoa(placed.OrderID), nil, bearerToken(t, other))
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("404 for an unknown order", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet, "/v1/orders/99999", nil, token)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("400 for a non-numeric id", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet, "/v1/orders/abc", nil, token)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
