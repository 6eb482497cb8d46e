package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stockledger/internal/domain"
	"stockledger/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `
		SELECT id, userId, status, totalPrice, fulfillmentWarning, createdAt, updatedAt
		FROM Orders
		WHERE id = ?
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.Status, &order.TotalPrice,
		&order.FulfillmentWarning, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

func (r *MySQLOrderRepository) FindItemsByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	query := `
		SELECT id, orderId, productId, variantId, quantity, price
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.Quantity, &item.Price)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}

// SetFulfillmentWarning flags an order whose stock adjustments did not all
// apply, so operators can reconcile it instead of finding out from the logs.
func (r *MySQLOrderRepository) SetFulfillmentWarning(ctx context.Context, id uint, warning bool) error {
	query := `UPDATE Orders SET fulfillmentWarning = ? WHERE id = ?`

	// No rows-affected check: re-flagging an already flagged order reports
	// zero changed rows.
	_, err := r.db.ExecContext(ctx, query, warning, id)
	if err != nil {
		return fmt.Errorf("updating order fulfillment warning: %w", err)
	}

	return nil
}
