package cart

import (
	"context"

	"stockledger/internal/errors"
)

type quantityGuard struct {
	repo Repository
}

func NewQuantityGuard(repo Repository) QuantityGuard {
	return &quantityGuard{repo: repo}
}

// CanSetQuantity compares the requested quantity against the live stock:
// the named variant's inventory, the default variant's when the product has
// variants, otherwise the flat stock field. It returns the available stock so
// callers can build a useful refusal message.
func (g *quantityGuard) CanSetQuantity(ctx context.Context, productID int, variantID *int, quantity int) (bool, int, error) {
	product, err := g.repo.FindProductWithVariants(ctx, productID)
	if err != nil {
		return false, 0, err
	}

	if variantID != nil {
		found := false
		for _, v := range product.Variants {
			if v.ID == *variantID {
				found = true
				break
			}
		}
		if !found {
			return false, 0, errors.NewNotFoundError("variant not found")
		}
	}

	available := product.AvailableStock(variantID)
	return quantity <= available, available, nil
}
