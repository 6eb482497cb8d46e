package cart

import (
	"context"
	"testing"

	"stockledger/internal/domain"
	apperrors "stockledger/internal/errors"
)

type mockGuard struct {
	CanSetQuantityFunc func(ctx context.Context, productID int, variantID *int, quantity int) (bool, int, error)
	checked            []int
}

func (m *mockGuard) CanSetQuantity(ctx context.Context, productID int, variantID *int, quantity int) (bool, int, error) {
	m.checked = append(m.checked, quantity)
	return m.CanSetQuantityFunc(ctx, productID, variantID, quantity)
}

func allowAll() *mockGuard {
	return &mockGuard{
		CanSetQuantityFunc: func(ctx context.Context, productID int, variantID *int, quantity int) (bool, int, error) {
			return true, 100, nil
		},
	}
}

func echoRepo(existing *domain.CartItem) *mockRepository {
	return &mockRepository{
		FindItemFunc: func(ctx context.Context, userID int, productID int, variantID *int) (*domain.CartItem, error) {
			return existing, nil
		},
		UpsertItemFunc: func(ctx context.Context, item domain.CartItem) (*domain.CartItem, error) {
			item.ID = 1
			return &item, nil
		},
	}
}

func TestAddItem_NewLine(t *testing.T) {
	guard := allowAll()
	repo := echoRepo(nil)
	uc := NewUseCase(guard, repo)

	item, err := uc.AddItem(context.Background(), AddItemRequest{
		UserID: 5, ProductID: 1, Quantity: 3,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", item.Quantity)
	}
	if len(guard.checked) != 1 || guard.checked[0] != 3 {
		t.Errorf("guard checked %v, want [3]", guard.checked)
	}
}

func TestAddItem_AccumulatesOntoExistingLine(t *testing.T) {
	guard := allowAll()
	repo := echoRepo(&domain.CartItem{ID: 1, UserID: 5, ProductID: 1, Quantity: 2})
	uc := NewUseCase(guard, repo)

	item, err := uc.AddItem(context.Background(), AddItemRequest{
		UserID: 5, ProductID: 1, Quantity: 3,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Quantity != 5 {
		t.Errorf("quantity = %d, want accumulated 5", item.Quantity)
	}
	if len(guard.checked) != 1 || guard.checked[0] != 5 {
		t.Errorf("guard must check the combined quantity, checked %v", guard.checked)
	}
}

func TestAddItem_RefusedWhenOverStock(t *testing.T) {
	guard := &mockGuard{
		CanSetQuantityFunc: func(ctx context.Context, productID int, variantID *int, quantity int) (bool, int, error) {
			return false, 2, nil
		},
	}
	repo := echoRepo(nil)
	uc := NewUseCase(guard, repo)

	_, err := uc.AddItem(context.Background(), AddItemRequest{
		UserID: 5, ProductID: 1, Quantity: 3,
	})

	ce, ok := apperrors.IsConflictError(err)
	if !ok {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.Message != "requested quantity exceeds available stock" {
		t.Errorf("unexpected message: %q", ce.Message)
	}
	if len(repo.upserted) != 0 {
		t.Error("nothing may be written on refusal")
	}
}

func TestAddItem_SoldOutMessage(t *testing.T) {
	guard := &mockGuard{
		CanSetQuantityFunc: func(ctx context.Context, productID int, variantID *int, quantity int) (bool, int, error) {
			return false, 0, nil
		},
	}
	uc := NewUseCase(guard, echoRepo(nil))

	_, err := uc.AddItem(context.Background(), AddItemRequest{
		UserID: 5, ProductID: 1, Quantity: 1,
	})

	ce, ok := apperrors.IsConflictError(err)
	if !ok {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.Message != "not enough stock available" {
		t.Errorf("unexpected message: %q", ce.Message)
	}
}

func TestUpdateItemQuantity_SetsAbsoluteValue(t *testing.T) {
	guard := allowAll()
	repo := echoRepo(&domain.CartItem{ID: 1, UserID: 5, ProductID: 1, Quantity: 2})
	uc := NewUseCase(guard, repo)

	item, err := uc.UpdateItemQuantity(context.Background(), UpdateItemRequest{
		UserID: 5, ProductID: 1, Quantity: 7,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Quantity != 7 {
		t.Errorf("quantity = %d, want absolute 7", item.Quantity)
	}
	if len(guard.checked) != 1 || guard.checked[0] != 7 {
		t.Errorf("guard must check the absolute quantity, checked %v", guard.checked)
	}
}

func TestUpdateItemQuantity_MissingLine(t *testing.T) {
	uc := NewUseCase(allowAll(), echoRepo(nil))

	_, err := uc.UpdateItemQuantity(context.Background(), UpdateItemRequest{
		UserID: 5, ProductID: 1, Quantity: 2,
	})

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestUpdateItemQuantity_RefusedWhenOverStock(t *testing.T) {
	guard := &mockGuard{
		CanSetQuantityFunc: func(ctx context.Context, productID int, variantID *int, quantity int) (bool, int, error) {
			return false, 4, nil
		},
	}
	repo := echoRepo(&domain.CartItem{ID: 1, UserID: 5, ProductID: 1, Quantity: 2})
	uc := NewUseCase(guard, repo)

	_, err := uc.UpdateItemQuantity(context.Background(), UpdateItemRequest{
		UserID: 5, ProductID: 1, Quantity: 9,
	})

	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(repo.upserted) != 0 {
		t.Error("nothing may be written on refusal")
	}
}

func TestAddItem_VariantForwardedToGuard(t *testing.T) {
	var seenVariant *int
	guard := &mockGuard{
		CanSetQuantityFunc: func(ctx context.Context, productID int, variantID *int, quantity int) (bool, int, error) {
			seenVariant = variantID
			return true, 10, nil
		},
	}
	uc := NewUseCase(guard, echoRepo(nil))

	_, err := uc.AddItem(context.Background(), AddItemRequest{
		UserID: 5, ProductID: 1, VariantID: intPtr(4), Quantity: 1,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if seenVariant == nil || *seenVariant != 4 {
		t.Errorf("variant not forwarded: %v", seenVariant)
	}
}
