package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type StockRepository interface {
	FindProductForUpdate(ctx context.Context, tx *sql.Tx, productID int) (*domain.Product, error)
	FindVariantForUpdate(ctx context.Context, tx *sql.Tx, productID int, variantID int) (*domain.Variant, error)
	UpdateProductStock(ctx context.Context, tx *sql.Tx, productID int, newQuantity int) error
	UpdateVariantInventory(ctx context.Context, tx *sql.Tx, variantID int, newQuantity int) error
}

type LedgerRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, entry domain.LedgerEntry) (uint, error)
}

// RecorderService applies one stock movement: it locks the product or variant
// stock row, writes the clamped new balance and appends the ledger entry, all
// in a single transaction. The stock field and the ledger therefore never
// diverge; a failed append rolls the stock write back.
type RecorderService struct {
	db        TransactionManager
	stockRepo StockRepository
	ledger    LedgerRepository
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewRecorderService(
	db TransactionManager,
	stockRepo StockRepository,
	ledger LedgerRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *RecorderService {
	return &RecorderService{
		db:        db,
		stockRepo: stockRepo,
		ledger:    ledger,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (s *RecorderService) RecordActivity(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback on any exit path; MySQL ignores it after a commit.
	defer tx.Rollback()

	previous, err := s.currentBalance(txCtx, tx, input)
	if err != nil {
		return nil, err
	}

	newQuantity := nextBalance(input.Type, previous, input.Quantity)

	if input.VariantID != nil {
		err = s.stockRepo.UpdateVariantInventory(txCtx, tx, *input.VariantID, newQuantity)
	} else {
		err = s.stockRepo.UpdateProductStock(txCtx, tx, input.ProductID, newQuantity)
	}
	if err != nil {
		s.logger.Error("failed to update stock",
			zap.Int("productId", input.ProductID),
			zap.String("type", string(input.Type)),
			zap.Int("performedBy", input.PerformedBy),
			zap.Int("previousQuantity", previous),
			zap.Int("newQuantity", newQuantity),
			zap.Error(err))
		return nil, err
	}

	entry := domain.LedgerEntry{
		ProductID:        input.ProductID,
		VariantID:        input.VariantID,
		Type:             input.Type,
		Quantity:         input.Quantity,
		PreviousQuantity: previous,
		NewQuantity:      newQuantity,
		Reference:        input.Reference,
		Note:             input.Note,
		PerformedBy:      input.PerformedBy,
		CreatedAt:        time.Now().UTC(),
	}

	id, err := s.ledger.Insert(txCtx, tx, entry)
	if err != nil {
		s.logger.Error("failed to append ledger entry",
			zap.Int("productId", input.ProductID),
			zap.String("type", string(input.Type)),
			zap.Int("performedBy", input.PerformedBy),
			zap.Error(err))
		return nil, err
	}
	entry.ID = id

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit activity transaction",
			zap.Int("productId", input.ProductID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("activity recorded",
		zap.Uint("activityId", entry.ID),
		zap.Int("productId", input.ProductID),
		zap.String("type", string(input.Type)),
		zap.Int("quantity", input.Quantity),
		zap.Int("previousQuantity", previous),
		zap.Int("newQuantity", newQuantity))

	return &entry, nil
}

func (s *RecorderService) currentBalance(ctx context.Context, tx *sql.Tx, input dto.ActivityInput) (int, error) {
	if input.VariantID != nil {
		variant, err := s.stockRepo.FindVariantForUpdate(ctx, tx, input.ProductID, *input.VariantID)
		if err != nil {
			return 0, err
		}
		return variant.Inventory, nil
	}

	product, err := s.stockRepo.FindProductForUpdate(ctx, tx, input.ProductID)
	if err != nil {
		return 0, err
	}
	return product.StockQuantity, nil
}

// nextBalance applies the movement. Decreasing types clamp at zero instead of
// erroring; adjustment sets the absolute target.
func nextBalance(activityType domain.ActivityType, previous int, quantity int) int {
	switch activityType.Direction() {
	case 1:
		return previous + quantity
	case -1:
		next := previous - quantity
		if next < 0 {
			return 0
		}
		return next
	default:
		return quantity
	}
}
