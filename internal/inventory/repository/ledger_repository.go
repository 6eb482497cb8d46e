package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
)

// MySQLLedgerRepository appends and queries the inventory activity ledger.
// The table is append-only; there are no update or delete methods on purpose.
type MySQLLedgerRepository struct {
	db *sql.DB
}

func NewMySQLLedgerRepository(db *sql.DB) *MySQLLedgerRepository {
	return &MySQLLedgerRepository{db: db}
}

func (r *MySQLLedgerRepository) Insert(ctx context.Context, tx *sql.Tx, entry domain.LedgerEntry) (uint, error) {
	query := `
		INSERT INTO InventoryActivity
			(productId, variantId, type, quantity, previousQuantity, newQuantity,
			 referenceType, referenceId, note, performedBy, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var refType *string
	var refID *uint
	if entry.Reference != nil {
		t := string(entry.Reference.Type)
		refType = &t
		refID = &entry.Reference.ID
	}

	result, err := tx.ExecContext(ctx, query,
		entry.ProductID, entry.VariantID, string(entry.Type), entry.Quantity,
		entry.PreviousQuantity, entry.NewQuantity,
		refType, refID, entry.Note, entry.PerformedBy, entry.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting ledger entry: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLLedgerRepository) List(ctx context.Context, filter dto.ActivityFilter, page dto.Page) ([]domain.LedgerEntry, int, error) {
	where, args := buildWhere(filter, "")

	countQuery := "SELECT COUNT(*) FROM InventoryActivity" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting ledger entries: %w", err)
	}

	query := `
		SELECT id, productId, variantId, type, quantity, previousQuantity, newQuantity,
		       referenceType, referenceId, note, performedBy, createdAt
		FROM InventoryActivity` + where + `
		ORDER BY createdAt DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating ledger rows: %w", err)
	}

	return entries, total, nil
}

// FindLatestByProduct returns the newest entry for a product/variant pair.
// Its newQuantity should always match the live stock field.
func (r *MySQLLedgerRepository) FindLatestByProduct(ctx context.Context, productID int, variantID *int) (*domain.LedgerEntry, error) {
	query := `
		SELECT id, productId, variantId, type, quantity, previousQuantity, newQuantity,
		       referenceType, referenceId, note, performedBy, createdAt
		FROM InventoryActivity
		WHERE productId = ?`
	args := []interface{}{productID}

	if variantID != nil {
		query += " AND variantId = ?"
		args = append(args, *variantID)
	} else {
		query += " AND variantId IS NULL"
	}

	query += " ORDER BY createdAt DESC, id DESC LIMIT 1"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying latest ledger entry: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	entry, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Summarize aggregates total quantity moved per product per activity type,
// joined with the product's name and current stock.
func (r *MySQLLedgerRepository) Summarize(ctx context.Context, filter dto.ActivityFilter) ([]dto.ProductActivitySummary, error) {
	where, args := buildWhere(filter, "a.")

	query := `
		SELECT a.productId, p.name, p.stockQuantity, a.type,
		       SUM(a.quantity) AS totalQuantity, COUNT(*) AS cnt
		FROM InventoryActivity a
		JOIN Product p ON p.id = a.productId` + where + `
		GROUP BY a.productId, p.name, p.stockQuantity, a.type
		ORDER BY a.productId, a.type`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity summary: %w", err)
	}
	defer rows.Close()

	var summaries []dto.ProductActivitySummary
	for rows.Next() {
		var productID, currentStock, totalQuantity, count int
		var productName, activityType string

		err := rows.Scan(&productID, &productName, &currentStock, &activityType, &totalQuantity, &count)
		if err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}

		if len(summaries) == 0 || summaries[len(summaries)-1].ProductID != productID {
			summaries = append(summaries, dto.ProductActivitySummary{
				ProductID:    productID,
				ProductName:  productName,
				CurrentStock: currentStock,
			})
		}

		last := &summaries[len(summaries)-1]
		last.Activities = append(last.Activities, dto.TypeSummary{
			Type:          activityType,
			TotalQuantity: totalQuantity,
			Count:         count,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary rows: %w", err)
	}

	return summaries, nil
}

func buildWhere(filter dto.ActivityFilter, prefix string) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.ProductID > 0 {
		conditions = append(conditions, prefix+"productId = ?")
		args = append(args, filter.ProductID)
	}
	if filter.VariantID != nil {
		conditions = append(conditions, prefix+"variantId = ?")
		args = append(args, *filter.VariantID)
	}
	if filter.Type != "" {
		conditions = append(conditions, prefix+"type = ?")
		args = append(args, filter.Type)
	}
	if filter.PerformedBy > 0 {
		conditions = append(conditions, prefix+"performedBy = ?")
		args = append(args, filter.PerformedBy)
	}
	if filter.ReferenceType != "" && filter.ReferenceID > 0 {
		conditions = append(conditions, prefix+"referenceType = ? AND "+prefix+"referenceId = ?")
		args = append(args, filter.ReferenceType, filter.ReferenceID)
	}
	if filter.StartDate != nil {
		conditions = append(conditions, prefix+"createdAt >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, prefix+"createdAt <= ?")
		args = append(args, *filter.EndDate)
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanEntry(rows *sql.Rows) (domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	var refType *string
	var refID *uint

	err := rows.Scan(
		&entry.ID, &entry.ProductID, &entry.VariantID, &entry.Type,
		&entry.Quantity, &entry.PreviousQuantity, &entry.NewQuantity,
		&refType, &refID, &entry.Note, &entry.PerformedBy, &entry.CreatedAt,
	)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("scanning ledger row: %w", err)
	}

	if refType != nil && refID != nil {
		entry.Reference = &domain.Reference{
			Type: domain.ReferenceType(*refType),
			ID:   *refID,
		}
	}

	return entry, nil
}
