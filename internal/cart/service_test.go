package cart

import (
	"context"
	"testing"

	"stockledger/internal/domain"
	apperrors "stockledger/internal/errors"
)

type mockRepository struct {
	FindProductWithVariantsFunc func(ctx context.Context, productID int) (*domain.Product, error)
	FindItemFunc                func(ctx context.Context, userID int, productID int, variantID *int) (*domain.CartItem, error)
	UpsertItemFunc              func(ctx context.Context, item domain.CartItem) (*domain.CartItem, error)
	upserted                    []domain.CartItem
}

func (m *mockRepository) FindProductWithVariants(ctx context.Context, productID int) (*domain.Product, error) {
	return m.FindProductWithVariantsFunc(ctx, productID)
}

func (m *mockRepository) FindItem(ctx context.Context, userID int, productID int, variantID *int) (*domain.CartItem, error) {
	return m.FindItemFunc(ctx, userID, productID, variantID)
}

func (m *mockRepository) UpsertItem(ctx context.Context, item domain.CartItem) (*domain.CartItem, error) {
	m.upserted = append(m.upserted, item)
	return m.UpsertItemFunc(ctx, item)
}

func intPtr(i int) *int {
	return &i
}

func flatProduct(stock int) *domain.Product {
	return &domain.Product{ID: 1, Name: "Flat", StockQuantity: stock}
}

func variantProduct() *domain.Product {
	return &domain.Product{
		ID:   1,
		Name: "Varied",
		Variants: []domain.Variant{
			{ID: 11, ProductID: 1, SKU: "V-DEFAULT", Inventory: 5, IsDefault: true},
			{ID: 12, ProductID: 1, SKU: "V-OTHER", Inventory: 2},
		},
	}
}

func productRepo(product *domain.Product) *mockRepository {
	return &mockRepository{
		FindProductWithVariantsFunc: func(ctx context.Context, productID int) (*domain.Product, error) {
			return product, nil
		},
	}
}

func TestCanSetQuantity_FlatStock(t *testing.T) {
	guard := NewQuantityGuard(productRepo(flatProduct(5)))
	ctx := context.Background()

	ok, available, err := guard.CanSetQuantity(ctx, 1, nil, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok || available != 5 {
		t.Errorf("quantity at limit must pass: ok=%v available=%d", ok, available)
	}

	ok, available, err = guard.CanSetQuantity(ctx, 1, nil, 6)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Errorf("quantity over limit must fail: available=%d", available)
	}
}

func TestCanSetQuantity_NamedVariant(t *testing.T) {
	guard := NewQuantityGuard(productRepo(variantProduct()))
	ctx := context.Background()

	ok, available, err := guard.CanSetQuantity(ctx, 1, intPtr(12), 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok || available != 2 {
		t.Errorf("named variant stock: ok=%v available=%d, want true/2", ok, available)
	}

	ok, _, err = guard.CanSetQuantity(ctx, 1, intPtr(12), 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Error("request above variant inventory must fail")
	}
}

func TestCanSetQuantity_DefaultVariantFallback(t *testing.T) {
	guard := NewQuantityGuard(productRepo(variantProduct()))

	// No variant named: the default variant's inventory governs, not the
	// flat stock field.
	ok, available, err := guard.CanSetQuantity(context.Background(), 1, nil, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok || available != 5 {
		t.Errorf("default variant stock: ok=%v available=%d, want true/5", ok, available)
	}
}

func TestCanSetQuantity_UnknownVariant(t *testing.T) {
	guard := NewQuantityGuard(productRepo(variantProduct()))

	_, _, err := guard.CanSetQuantity(context.Background(), 1, intPtr(99), 1)

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError for unknown variant, got %v", err)
	}
}

func TestCanSetQuantity_ProductLookupError(t *testing.T) {
	repo := &mockRepository{
		FindProductWithVariantsFunc: func(ctx context.Context, productID int) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("product not found")
		},
	}
	guard := NewQuantityGuard(repo)

	_, _, err := guard.CanSetQuantity(context.Background(), 7, nil, 1)

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestCanSetQuantity_ZeroStock(t *testing.T) {
	guard := NewQuantityGuard(productRepo(flatProduct(0)))

	ok, available, err := guard.CanSetQuantity(context.Background(), 1, nil, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok || available != 0 {
		t.Errorf("sold-out product must refuse: ok=%v available=%d", ok, available)
	}
}
