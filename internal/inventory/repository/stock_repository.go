package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
)

// MySQLStockRepository owns the only write path to the product stock fields.
// Reads lock the row so the balance snapshot and the following update run
// against the same value.
type MySQLStockRepository struct {
	db *sql.DB
}

func NewMySQLStockRepository(db *sql.DB) *MySQLStockRepository {
	return &MySQLStockRepository{db: db}
}

func (r *MySQLStockRepository) FindProductForUpdate(ctx context.Context, tx *sql.Tx, productID int) (*domain.Product, error) {
	query := `
		SELECT id, name, slug, stockQuantity, isActive, isDeleted, createdAt, updatedAt
		FROM Product
		WHERE id = ? AND isDeleted = 0
		FOR UPDATE
	`

	var p domain.Product
	err := tx.QueryRowContext(ctx, query, productID).Scan(
		&p.ID, &p.Name, &p.Slug, &p.StockQuantity,
		&p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product for update: %w", err)
	}

	return &p, nil
}

func (r *MySQLStockRepository) FindVariantForUpdate(ctx context.Context, tx *sql.Tx, productID int, variantID int) (*domain.Variant, error) {
	query := `
		SELECT id, productId, sku, price, inventory, isDefault
		FROM ProductVariant
		WHERE id = ? AND productId = ?
		FOR UPDATE
	`

	var v domain.Variant
	err := tx.QueryRowContext(ctx, query, variantID, productID).Scan(
		&v.ID, &v.ProductID, &v.SKU, &v.Price, &v.Inventory, &v.IsDefault,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("variant with id %d not found for product %d", variantID, productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying variant for update: %w", err)
	}

	return &v, nil
}

// UpdateProductStock writes the new balance for the row the caller locked
// with FindProductForUpdate. No rows-affected check: MySQL reports zero
// changed rows when the clamped value equals the current one.
func (r *MySQLStockRepository) UpdateProductStock(ctx context.Context, tx *sql.Tx, productID int, newQuantity int) error {
	query := `UPDATE Product SET stockQuantity = ? WHERE id = ?`

	_, err := tx.ExecContext(ctx, query, newQuantity, productID)
	if err != nil {
		return fmt.Errorf("updating product stock: %w", err)
	}

	return nil
}

func (r *MySQLStockRepository) UpdateVariantInventory(ctx context.Context, tx *sql.Tx, variantID int, newQuantity int) error {
	query := `UPDATE ProductVariant SET inventory = ? WHERE id = ?`

	_, err := tx.ExecContext(ctx, query, newQuantity, variantID)
	if err != nil {
		return fmt.Errorf("updating variant inventory: %w", err)
	}

	return nil
}
