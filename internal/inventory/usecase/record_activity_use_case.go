package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
)

type ActivityRecorder interface {
	RecordActivity(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error)
}

// RecordActivityUseCase validates the requested movement before any write and
// retries the recorder on storage deadlocks. Two identical calls produce two
// ledger entries and two stock changes: the API is imperative-delta, not
// declarative-target (adjustment excepted).
type RecordActivityUseCase struct {
	recorder         ActivityRecorder
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewRecordActivityUseCase(recorder ActivityRecorder, logger *zap.Logger, maxRetryAttempts int) *RecordActivityUseCase {
	return &RecordActivityUseCase{
		recorder:         recorder,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *RecordActivityUseCase) RecordActivity(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	uc.logger.Debug("recording activity",
		zap.Int("productId", input.ProductID),
		zap.String("type", string(input.Type)),
		zap.Int("quantity", input.Quantity),
		zap.Int("performedBy", input.PerformedBy))

	return uc.recordWithRetry(ctx, input)
}

func validateInput(input dto.ActivityInput) error {
	if _, err := domain.ParseActivityType(string(input.Type)); err != nil {
		return err
	}

	if input.Type == domain.ActivityAdjustment {
		if input.Quantity < 0 {
			return apperrors.NewInvalidInputError("adjustment target must not be negative")
		}
	} else if input.Quantity <= 0 {
		return apperrors.NewInvalidInputError("quantity must be a positive integer")
	}

	if input.ProductID <= 0 {
		return apperrors.NewInvalidInputError("productId must be a positive integer")
	}

	if input.PerformedBy <= 0 {
		return apperrors.NewInvalidInputError("performedBy is required")
	}

	if input.Reference != nil {
		switch input.Reference.Type {
		case domain.ReferenceOrder, domain.ReferencePurchase, domain.ReferenceAdjustment, domain.ReferenceReturn:
		default:
			return apperrors.NewInvalidInputError(fmt.Sprintf("unknown reference type: %s", input.Reference.Type))
		}
	}

	return nil
}

func (uc *RecordActivityUseCase) recordWithRetry(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error) {
	maxAttempts := uc.maxRetryAttempts
	// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms), etc.
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		entry, err := uc.recorder.RecordActivity(ctx, input)
		if err == nil {
			return entry, nil
		}

		if isDeadlockError(err) {
			if attempt < maxAttempts {
				backoff := backoffs[min(attempt, len(backoffs))-1]
				jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
				time.Sleep(jitter)
				uc.logger.Warn("deadlock detected, retrying",
					zap.Int("attempt", attempt),
					zap.Int("maxAttempts", maxAttempts),
					zap.Int("productId", input.ProductID))
				continue
			}
			break
		}

		return nil, err
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
