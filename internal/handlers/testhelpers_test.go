package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/foodmate/foodmate-golang/internal/auth"
	"github.com/foodmate/foodmate-golang/internal/handlers"
	"github.com/foodmate/foodmate-golang/internal/models"
	"github.com/foodmate/foodmate-golang/internal/routes"
)

// testSchema mirrors internal/database.InitSchema in sqlite dialect, so the
// handlers run against an in-memory database with the same shape.
const testSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'customer',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	slug TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	price_in_paise INTEGER NOT NULL,
	stock INTEGER NOT NULL DEFAULT 0,
	category_id INTEGER NOT NULL REFERENCES categories(id),
	image_url TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE carts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE REFERENCES users(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE cart_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	cart_id INTEGER NOT NULL REFERENCES carts(id),
	item_id INTEGER NOT NULL REFERENCES items(id),
	quantity INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (cart_id, item_id)
);
CREATE TABLE orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	status TEXT NOT NULL DEFAULT 'PLACED',
	total_in_paise INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE order_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id INTEGER NOT NULL REFERENCES orders(id),
	item_id INTEGER NOT NULL REFERENCES items(id),
	quantity INTEGER NOT NULL,
	unit_price_in_paise INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE TABLE inventory_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	item_id INTEGER NOT NULL REFERENCES items(id),
	delta INTEGER NOT NULL,
	reason TEXT NOT NULL,
	order_id INTEGER REFERENCES orders(id),
	created_at DATETIME NOT NULL
);
`

// setupTestRouter builds the real router on top of an in-memory sqlite
// database. MaxOpenConns(1) keeps every connection on the same in-memory DB.
func setupTestRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return routes.SetupRouter(&handlers.Handlers{DB: db}), db
}

// createTestUser inserts a user directly; auth handlers have their own tests.
func createTestUser(t *testing.T, db *sql.DB, email, role string) int64 {
	t.Helper()

	var password models.Password
	if err := password.Set("password123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now()
	result, err := db.Exec(
		"INSERT INTO users (email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		email, password.Hash, role, now, now)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	id, _ := result.LastInsertId()
	return id
}

func createTestCategory(t *testing.T, db *sql.DB, name, slugStr string) int64 {
	t.Helper()

	now := time.Now()
	result, err := db.Exec(
		"INSERT INTO categories (name, slug, created_at, updated_at) VALUES (?, ?, ?, ?)",
		name, slugStr, now, now)
	if err != nil {
		t.Fatalf("failed to create category %s: %v", name, err)
	}
	id, _ := result.LastInsertId()
	return id
}

func createTestItem(t *testing.T, db *sql.DB, categoryID int64, name string, priceInPaise int64, stock int) int64 {
	t.Helper()

	now := time.Now()
	result, err := db.Exec(
		"INSERT INTO items (name, description, price_in_paise, stock, category_id, image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, NULL, ?, ?)",
		name, name+" description", priceInPaise, stock, categoryID, now, now)
	if err != nil {
		t.Fatalf("failed to create item %s: %v", name, err)
	}
	id, _ := result.LastInsertId()
	return id
}

func bearerToken(t *testing.T, userID int64) string {
	t.Helper()

	token, err := auth.GenerateToken(userID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "Bearer " + token
}

// performRequest runs one request through the router. A non-empty authHeader
// is set as the Authorization header.
func performRequest(router *gin.Engine, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func itemStock(t *testing.T, db *sql.DB, itemID int64) int {
	t.Helper()

	var stock int
	if err := db.QueryRow("SELECT stock FROM items WHERE id = ?", itemID).Scan(&stock); err != nil {
		t.Fatalf("failed to read stock for item %d: %v", itemID, err)
	}
	return stock
}

func cartQuantity(t *testing.T, db *sql.DB, userID, itemID int64) int {
	t.Helper()

	var quantity int
	err := db.QueryRow(`
		SELECT ci.quantity FROM cart_items ci
		JOIN carts c ON ci.cart_id = c.id
		WHERE c.user_id = ? AND ci.item_id = ?`, userID, itemID).Scan(&quantity)
	if err == sql.ErrNoRows {
		return 0
	}
	if err != nil {
		t.Fatalf("failed to read cart quantity: %v", err)
	}
	return quantity
}

func countRows(t *testing.T, db *sql.DB, query string, args ...interface{}) int {
	t.Helper()

	var count int
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}
