package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. Expects a MySQL instance
// on localhost:3306 with a database named 'stockledger_test'; tests are
// skipped when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/stockledger_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"CartItems", "OrderItems", "Orders", "InventoryActivity", "ProductVariant", "Product"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the tests write against.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductTable := `
	CREATE TABLE IF NOT EXISTS Product (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL,
		stockQuantity INT NOT NULL DEFAULT 0,
		isActive TINYINT(1) DEFAULT 1,
		isDeleted TINYINT(1) DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_slug (slug),
		INDEX idx_deleted (isDeleted)
	)`

	createProductVariantTable := `
	CREATE TABLE IF NOT EXISTS ProductVariant (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		sku VARCHAR(100) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		inventory INT NOT NULL DEFAULT 0,
		isDefault TINYINT(1) NOT NULL DEFAULT 0,
		FOREIGN KEY (productId) REFERENCES Product(id) ON DELETE CASCADE,
		INDEX idx_product (productId),
		INDEX idx_sku (sku)
	)`

	createInventoryActivityTable := `
	CREATE TABLE IF NOT EXISTS InventoryActivity (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		variantId INT,
		type VARCHAR(30) NOT NULL,
		quantity INT NOT NULL,
		previousQuantity INT NOT NULL DEFAULT 0,
		newQuantity INT NOT NULL DEFAULT 0,
		referenceType VARCHAR(20),
		referenceId INT UNSIGNED,
		note TEXT,
		performedBy INT NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_product_created (productId, createdAt),
		INDEX idx_reference (referenceId, referenceType),
		INDEX idx_type (type),
		INDEX idx_performed_by (performedBy)
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		userId INT NOT NULL,
		status VARCHAR(50) DEFAULT 'PENDING',
		totalPrice DECIMAL(10,2) DEFAULT 0.00,
		fulfillmentWarning TINYINT(1) NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_user (userId)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		productId INT NOT NULL,
		variantId INT,
		quantity INT DEFAULT 1,
		price DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId),
		INDEX idx_product (productId)
	)`

	createCartItemsTable := `
	CREATE TABLE IF NOT EXISTS CartItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		userId INT NOT NULL,
		productId INT NOT NULL,
		variantId INT,
		quantity INT NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_user_product_variant (userId, productId, variantId),
		INDEX idx_user (userId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Product", createProductTable},
		{"ProductVariant", createProductVariantTable},
		{"InventoryActivity", createInventoryActivityTable},
		{"Orders", createOrdersTable},
		{"OrderItems", createOrderItemsTable},
		{"CartItems", createCartItemsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
