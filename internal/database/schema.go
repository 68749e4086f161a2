package database

import "database/sql"

// InitSchema creates all tables if they do not exist yet. It runs on every
// startup so a fresh database is usable without a separate migration step.
func InitSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'customer',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(120) NOT NULL UNIQUE,
			slug VARCHAR(140) NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			price_in_paise BIGINT NOT NULL,
			stock INT NOT NULL DEFAULT 0,
			category_id BIGINT NOT NULL,
			image_url VARCHAR(512),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (category_id) REFERENCES categories(id)
		)`,
		// UNIQUE(user_id) is what enforces one cart per user.
		`CREATE TABLE IF NOT EXISTS carts (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			cart_id BIGINT NOT NULL,
			item_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE KEY uniq_cart_item (cart_id, item_id),
			FOREIGN KEY (cart_id) REFERENCES carts(id),
			FOREIGN KEY (item_id) REFERENCES items(id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'PLACED',
			total_in_paise BIGINT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			item_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			unit_price_in_paise BIGINT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id),
			FOREIGN KEY (item_id) REFERENCES items(id)
		)`,
		// Append-only: rows are never updated or deleted.
		`CREATE TABLE IF NOT EXISTS inventory_logs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			item_id BIGINT NOT NULL,
			delta INT NOT NULL,
			reason VARCHAR(20) NOT NULL,
			order_id BIGINT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (item_id) REFERENCES items(id),
			FOREIGN KEY (order_id) REFERENCES orders(id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
