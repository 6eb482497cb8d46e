package usecase

import (
	"context"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
)

type LedgerQueryRepository interface {
	List(ctx context.Context, filter dto.ActivityFilter, page dto.Page) ([]domain.LedgerEntry, int, error)
	Summarize(ctx context.Context, filter dto.ActivityFilter) ([]dto.ProductActivitySummary, error)
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ListActivitiesUseCase is the read-only audit surface over the ledger.
type ListActivitiesUseCase struct {
	ledger LedgerQueryRepository
}

func NewListActivitiesUseCase(ledger LedgerQueryRepository) *ListActivitiesUseCase {
	return &ListActivitiesUseCase{ledger: ledger}
}

func (uc *ListActivitiesUseCase) ListActivities(ctx context.Context, filter dto.ActivityFilter, page dto.Page) ([]domain.LedgerEntry, int, error) {
	if filter.Type != "" {
		if _, err := domain.ParseActivityType(filter.Type); err != nil {
			return nil, 0, err
		}
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, 0, apperrors.NewInvalidInputError("endDate must be after startDate")
	}

	return uc.ledger.List(ctx, filter, normalizePage(page))
}

func (uc *ListActivitiesUseCase) SummarizeActivity(ctx context.Context, filter dto.ActivityFilter) ([]dto.ProductActivitySummary, error) {
	if filter.Type != "" {
		if _, err := domain.ParseActivityType(filter.Type); err != nil {
			return nil, err
		}
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperrors.NewInvalidInputError("endDate must be after startDate")
	}

	return uc.ledger.Summarize(ctx, filter)
}

func normalizePage(page dto.Page) dto.Page {
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Limit < 1 {
		page.Limit = defaultPageLimit
	}
	if page.Limit > maxPageLimit {
		page.Limit = maxPageLimit
	}
	return page
}
