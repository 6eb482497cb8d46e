package cart

import (
	"context"

	"stockledger/internal/domain"
)

type UseCase interface {
	AddItem(ctx context.Context, req AddItemRequest) (*CartItemDTO, error)
	UpdateItemQuantity(ctx context.Context, req UpdateItemRequest) (*CartItemDTO, error)
}

// QuantityGuard is the read-only stock check performed before a cart line is
// persisted. It places no hold on stock: two carts can both pass for the last
// unit, and the loser is resolved at order confirmation by the clamped
// decrement.
type QuantityGuard interface {
	CanSetQuantity(ctx context.Context, productID int, variantID *int, quantity int) (bool, int, error)
}

type Repository interface {
	FindProductWithVariants(ctx context.Context, productID int) (*domain.Product, error)
	FindItem(ctx context.Context, userID int, productID int, variantID *int) (*domain.CartItem, error)
	UpsertItem(ctx context.Context, item domain.CartItem) (*domain.CartItem, error)
}
