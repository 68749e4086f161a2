package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/foodmate/foodmate-golang/internal/database"
	"github.com/foodmate/foodmate-golang/internal/models"
	"github.com/gosimple/slug"
	"github.com/joho/godotenv"
)

// Seeder: creates the schema, an admin user, a demo customer, and a static
// food catalog. Safe to run repeatedly — existing rows are skipped.

type seedItem struct {
	Name         string
	Description  string
	PriceInPaise int64
	Stock        int
}

var catalog = map[string][]seedItem{
	"Starters": {
		{"Paneer Tikka", "Char-grilled cottage cheese with mint chutney", 22000, 40},
		{"Veg Spring Rolls", "Crispy rolls stuffed with seasonal vegetables", 16000, 50},
		{"Chicken 65", "Spicy deep-fried chicken bites", 24000, 35},
	},
	"Mains": {
		{"Butter Chicken", "Tandoori chicken simmered in tomato-butter gravy", 36000, 30},
		{"Dal Makhani", "Black lentils slow-cooked overnight", 26000, 45},
		{"Hyderabadi Biryani", "Fragrant basmati rice with saffron and spices", 32000, 25},
		{"Palak Paneer", "Cottage cheese in a smooth spinach gravy", 28000, 30},
	},
	"Breads": {
		{"Butter Naan", "Leavened bread from the tandoor", 6000, 100},
		{"Garlic Kulcha", "Naan topped with garlic and coriander", 7000, 80},
	},
	"Desserts": {
		{"Gulab Jamun", "Milk dumplings in cardamom syrup, two pieces", 12000, 60},
		{"Rasmalai", "Cottage cheese patties in saffron milk", 14000, 40},
	},
	"Beverages": {
		{"Masala Chai", "Spiced milk tea", 5000, 120},
		{"Mango Lassi", "Sweet yogurt drink with Alphonso mango", 9000, 70},
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.InitSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	seedUser(db, envOr("ADMIN_EMAIL", "admin@foodmate.local"), envOr("ADMIN_PASSWORD", "admin123"), models.RoleAdmin)
	seedUser(db, "demo@foodmate.local", "demo1234", models.RoleCustomer)

	created := 0
	for categoryName, items := range catalog {
		categoryID, err := seedCategory(db, categoryName)
		if err != nil {
			log.Fatalf("Failed to seed category %q: %v", categoryName, err)
		}
		for _, item := range items {
			inserted, err := seedCatalogItem(db, categoryID, item)
			if err != nil {
				log.Fatalf("Failed to seed item %q: %v", item.Name, err)
			}
			if inserted {
				created++
			}
		}
	}

	log.Printf("Seed complete: %d new items", created)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func seedUser(db *sql.DB, email, plaintext, role string) {
	var id int64
	err := db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&id)
	if err == nil {
		return
	}
	if err != sql.ErrNoRows {
		log.Fatalf("Failed to check user %q: %v", email, err)
	}

	var password models.Password
	if err := password.Set(plaintext); err != nil {
		log.Fatalf("Failed to hash password for %q: %v", email, err)
	}

	now := time.Now()
	if _, err := db.Exec(
		"INSERT INTO users (email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		email, password.Hash, role, now, now); err != nil {
		log.Fatalf("Failed to create user %q: %v", email, err)
	}
	log.Printf("Created %s user %s", role, email)
}

func seedCategory(db *sql.DB, name string) (int64, error) {
	var id int64
	err := db.QueryRow("SELECT id FROM categories WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	now := time.Now()
	result, err := db.Exec(
		"INSERT INTO categories (name, slug, created_at, updated_at) VALUES (?, ?, ?, ?)",
		name, slug.Make(name), now, now)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func seedCatalogItem(db *sql.DB, categoryID int64, item seedItem) (bool, error) {
	var id int64
	err := db.QueryRow(
		"SELECT id FROM items WHERE name = ? AND category_id = ?",
		item.Name, categoryID).Scan(&id)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, err
	}

	now := time.Now()
	if _, err := db.Exec(
		"INSERT INTO items (name, description, price_in_paise, stock, category_id, image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, NULL, ?, ?)",
		item.Name, item.Description, item.PriceInPaise, item.Stock, categoryID, now, now); err != nil {
		return false, err
	}
	return true, nil
}
