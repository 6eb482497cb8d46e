package cart

import (
	"context"

	"stockledger/internal/domain"
	apperrors "stockledger/internal/errors"
)

type cartUseCase struct {
	guard QuantityGuard
	repo  Repository
}

func NewUseCase(guard QuantityGuard, repo Repository) UseCase {
	return &cartUseCase{guard: guard, repo: repo}
}

// AddItem accumulates onto an existing line, so the guard checks the combined
// quantity, not just the increment.
func (uc *cartUseCase) AddItem(ctx context.Context, req AddItemRequest) (*CartItemDTO, error) {
	existing, err := uc.repo.FindItem(ctx, req.UserID, req.ProductID, req.VariantID)
	if err != nil {
		return nil, err
	}

	newQuantity := req.Quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}

	ok, available, err := uc.guard.CanSetQuantity(ctx, req.ProductID, req.VariantID, newQuantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError(notEnoughStockMessage(available))
	}

	item, err := uc.repo.UpsertItem(ctx, domain.CartItem{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  newQuantity,
	})
	if err != nil {
		return nil, err
	}

	return toCartItemDTO(item), nil
}

// UpdateItemQuantity sets the absolute quantity of an existing line.
func (uc *cartUseCase) UpdateItemQuantity(ctx context.Context, req UpdateItemRequest) (*CartItemDTO, error) {
	existing, err := uc.repo.FindItem(ctx, req.UserID, req.ProductID, req.VariantID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError("cart item not found")
	}

	ok, available, err := uc.guard.CanSetQuantity(ctx, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError(notEnoughStockMessage(available))
	}

	existing.Quantity = req.Quantity
	item, err := uc.repo.UpsertItem(ctx, *existing)
	if err != nil {
		return nil, err
	}

	return toCartItemDTO(item), nil
}

func notEnoughStockMessage(available int) string {
	if available == 0 {
		return "not enough stock available"
	}
	return "requested quantity exceeds available stock"
}

func toCartItemDTO(item *domain.CartItem) *CartItemDTO {
	return &CartItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
	}
}
