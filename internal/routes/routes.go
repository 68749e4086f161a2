package routes

import (
	"net/http"
	"os"
	"strings"

	"github.com/foodmate/foodmate-golang/internal/handlers"
	"github.com/foodmate/foodmate-golang/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsConfig allows the browser frontend to talk to us with credentials.
// Origins come from CORS_ORIGIN (comma-separated), defaulting to the local
// Vite dev server.
func corsConfig() cors.Config {
	origins := []string{"http://localhost:5173"}
	if env := os.Getenv("CORS_ORIGIN"); env != "" {
		origins = strings.Split(env, ",")
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = origins
	config.AllowCredentials = true
	config.AllowHeaders = append(config.AllowHeaders, "Authorization")
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	return config
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(corsConfig()))

	v1 := router.Group("/v1")
	{
		// --- Health Check (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public, rate limited) ---
		authLimit := middleware.AuthRateLimit()
		v1.POST("/register", authLimit, h.Register)
		v1.POST("/login", authLimit, h.Login)
		v1.POST("/logout", h.Logout)

		// --- Catalog Routes (Public) ---
		v1.GET("/categories", h.GetAllCategories)
		v1.GET("/items", h.SearchItems)
		v1.GET("/items/:id", h.GetItem)

		// --- Protected Routes (Login Required) ---
		authed := v1.Group("/")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.GET("/me", h.GetMe)

			authed.GET("/cart", h.GetCart)
			authed.POST("/cart/items", h.AddToCart)
			authed.PATCH("/cart/items/:item_id", h.UpdateCartItem)
			authed.DELETE("/cart/items/:item_id", h.DeleteCartItem)

			authed.POST("/checkout", middleware.CheckoutRateLimit(), h.Checkout)

			authed.GET("/orders", h.GetMyOrders)
			authed.GET("/orders/:id", h.GetOrderDetails)
		}

		// --- Admin-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.AdminMiddleware(h.DB))
		{
			admin.POST("/categories", h.CreateCategory)
			admin.POST("/items/:id/restock", h.RestockItem)
			admin.GET("/items/:id/inventory-logs", h.GetItemInventoryLogs)
			admin.POST("/orders/:id/deliver", h.MarkOrderDelivered)
		}
	}

	return router
}
