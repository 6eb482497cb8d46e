package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindProductWithVariants(ctx context.Context, productID int) (*domain.Product, error) {
	query := `
		SELECT id, name, slug, stockQuantity, isActive, isDeleted, createdAt, updatedAt
		FROM Product
		WHERE id = ? AND isDeleted = 0
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&p.ID, &p.Name, &p.Slug, &p.StockQuantity,
		&p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}

	variantQuery := `
		SELECT id, productId, sku, price, inventory, isDefault
		FROM ProductVariant
		WHERE productId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, variantQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("querying product variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Variant
		err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Price, &v.Inventory, &v.IsDefault)
		if err != nil {
			return nil, fmt.Errorf("scanning variant row: %w", err)
		}
		p.Variants = append(p.Variants, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating variant rows: %w", err)
	}

	p.EnsureDefaultVariant()

	return &p, nil
}

func (r *MySQLRepository) FindItem(ctx context.Context, userID int, productID int, variantID *int) (*domain.CartItem, error) {
	query := `
		SELECT id, userId, productId, variantId, quantity, createdAt, updatedAt
		FROM CartItems
		WHERE userId = ? AND productId = ?`
	args := []interface{}{userID, productID}

	if variantID != nil {
		query += " AND variantId = ?"
		args = append(args, *variantID)
	} else {
		query += " AND variantId IS NULL"
	}

	var item domain.CartItem
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.VariantID,
		&item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cart item: %w", err)
	}

	return &item, nil
}

// UpsertItem writes one line per user/product/variant. MySQL unique indexes
// treat NULLs as distinct, so ON DUPLICATE KEY UPDATE would never fire for
// variant-less lines; the write is keyed off the existing row instead.
func (r *MySQLRepository) UpsertItem(ctx context.Context, item domain.CartItem) (*domain.CartItem, error) {
	existing, err := r.FindItem(ctx, item.UserID, item.ProductID, item.VariantID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		query := `UPDATE CartItems SET quantity = ? WHERE id = ?`
		if _, err := r.db.ExecContext(ctx, query, item.Quantity, existing.ID); err != nil {
			return nil, fmt.Errorf("updating cart item: %w", err)
		}
	} else {
		query := `INSERT INTO CartItems (userId, productId, variantId, quantity) VALUES (?, ?, ?, ?)`
		if _, err := r.db.ExecContext(ctx, query, item.UserID, item.ProductID, item.VariantID, item.Quantity); err != nil {
			return nil, fmt.Errorf("inserting cart item: %w", err)
		}
	}

	return r.FindItem(ctx, item.UserID, item.ProductID, item.VariantID)
}
