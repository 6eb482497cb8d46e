package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
)

type mockActivityRecorder struct {
	RecordActivityFunc func(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error)
	inputs             []dto.ActivityInput
}

func (m *mockActivityRecorder) RecordActivity(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error) {
	m.inputs = append(m.inputs, input)
	return m.RecordActivityFunc(ctx, input)
}

type mockOrderRepository struct {
	FindByIDFunc              func(ctx context.Context, id uint) (*domain.Order, error)
	FindItemsByOrderIDFunc    func(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
	SetFulfillmentWarningFunc func(ctx context.Context, id uint, warning bool) error
	warningCalls              []bool
	itemLookups               int
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderRepository) FindItemsByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	m.itemLookups++
	if m.FindItemsByOrderIDFunc != nil {
		return m.FindItemsByOrderIDFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *mockOrderRepository) SetFulfillmentWarning(ctx context.Context, id uint, warning bool) error {
	m.warningCalls = append(m.warningCalls, warning)
	if m.SetFulfillmentWarningFunc != nil {
		return m.SetFulfillmentWarningFunc(ctx, id, warning)
	}
	return nil
}

func intPtr(i int) *int {
	return &i
}

func testOrder() *domain.Order {
	return &domain.Order{ID: 10, UserID: 33, Status: domain.OrderStatusConfirmed}
}

func testEvent() dto.OrderEvent {
	return dto.OrderEvent{
		OrderID: 10,
		Items: []dto.OrderEventItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, VariantID: intPtr(5), Quantity: 1},
		},
	}
}

func okRecorder() *mockActivityRecorder {
	return &mockActivityRecorder{
		RecordActivityFunc: func(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error) {
			return &domain.LedgerEntry{NewQuantity: 8}, nil
		},
	}
}

func okOrderRepo() *mockOrderRepository {
	return &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return testOrder(), nil
		},
	}
}

func TestOnOrderConfirmed_AllSuccess(t *testing.T) {
	recorder := okRecorder()
	orderRepo := okOrderRepo()
	svc := NewFulfillmentService(recorder, orderRepo, zap.NewNop())

	result, err := svc.OnOrderConfirmed(context.Background(), testEvent())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != dto.FulfillmentAllSuccess {
		t.Errorf("status = %s, want ALL_SUCCESS", result.Status)
	}
	if len(result.Successes) != 2 || len(result.Failures) != 0 {
		t.Errorf("successes=%d failures=%d, want 2/0", len(result.Successes), len(result.Failures))
	}
	if len(orderRepo.warningCalls) != 0 {
		t.Error("warning flag must not be set on full success")
	}

	for i, input := range recorder.inputs {
		if input.Type != domain.ActivitySale {
			t.Errorf("item %d: type = %s, want sale", i, input.Type)
		}
		if input.Reference == nil || input.Reference.Type != domain.ReferenceOrder || input.Reference.ID != 10 {
			t.Errorf("item %d: reference = %+v, want order/10", i, input.Reference)
		}
		if input.PerformedBy != 33 {
			t.Errorf("item %d: performedBy = %d, want order owner 33", i, input.PerformedBy)
		}
		if input.Note != nil {
			t.Errorf("item %d: confirmation must not carry a note, got %q", i, *input.Note)
		}
	}
}

func TestOnOrderCancelled_RecordsReturnsWithNote(t *testing.T) {
	recorder := okRecorder()
	svc := NewFulfillmentService(recorder, okOrderRepo(), zap.NewNop())

	result, err := svc.OnOrderCancelled(context.Background(), testEvent())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != dto.FulfillmentAllSuccess {
		t.Errorf("status = %s, want ALL_SUCCESS", result.Status)
	}

	for i, input := range recorder.inputs {
		if input.Type != domain.ActivityReturn {
			t.Errorf("item %d: type = %s, want return", i, input.Type)
		}
		if input.Note == nil || *input.Note != "order_cancelled" {
			t.Errorf("item %d: note = %v, want order_cancelled", i, input.Note)
		}
	}
}

func TestOnOrderConfirmed_PartialFailureContinuesAndFlags(t *testing.T) {
	recorder := &mockActivityRecorder{
		RecordActivityFunc: func(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error) {
			if input.ProductID == 1 {
				return nil, apperrors.NewNotFoundError("product with id 1 not found")
			}
			return &domain.LedgerEntry{NewQuantity: 4}, nil
		},
	}
	orderRepo := okOrderRepo()
	svc := NewFulfillmentService(recorder, orderRepo, zap.NewNop())

	result, err := svc.OnOrderConfirmed(context.Background(), testEvent())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != dto.FulfillmentPartial {
		t.Errorf("status = %s, want PARTIAL", result.Status)
	}
	if len(result.Successes) != 1 || len(result.Failures) != 1 {
		t.Errorf("successes=%d failures=%d, want 1/1", len(result.Successes), len(result.Failures))
	}
	if result.Failures[0].Reason != dto.ReasonNotFound {
		t.Errorf("failure reason = %s, want NOT_FOUND", result.Failures[0].Reason)
	}
	if len(recorder.inputs) != 2 {
		t.Errorf("a failed item must not stop the pass, recorded %d of 2", len(recorder.inputs))
	}
	if len(orderRepo.warningCalls) != 1 || !orderRepo.warningCalls[0] {
		t.Errorf("expected one warning=true call, got %v", orderRepo.warningCalls)
	}
}

func TestOnOrderConfirmed_AllFailed(t *testing.T) {
	recorder := &mockActivityRecorder{
		RecordActivityFunc: func(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error) {
			return nil, errors.New("write timeout")
		},
	}
	orderRepo := okOrderRepo()
	svc := NewFulfillmentService(recorder, orderRepo, zap.NewNop())

	result, err := svc.OnOrderConfirmed(context.Background(), testEvent())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != dto.FulfillmentAllFailed {
		t.Errorf("status = %s, want ALL_FAILED", result.Status)
	}
	for _, failure := range result.Failures {
		if failure.Reason != dto.ReasonWriteFailed {
			t.Errorf("failure reason = %s, want WRITE_FAILED", failure.Reason)
		}
	}
	if len(orderRepo.warningCalls) != 1 {
		t.Errorf("expected the order to be flagged, got %v", orderRepo.warningCalls)
	}
}

func TestOnOrderConfirmed_OrderNotFound(t *testing.T) {
	recorder := okRecorder()
	orderRepo := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order not found")
		},
	}
	svc := NewFulfillmentService(recorder, orderRepo, zap.NewNop())

	_, err := svc.OnOrderConfirmed(context.Background(), testEvent())

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %v", err)
	}
	if len(recorder.inputs) != 0 {
		t.Error("no activities may be recorded when the order is unknown")
	}
}

func TestOnOrderConfirmed_InvalidInputClassified(t *testing.T) {
	recorder := &mockActivityRecorder{
		RecordActivityFunc: func(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error) {
			return nil, apperrors.NewInvalidInputError("quantity must be positive")
		},
	}
	svc := NewFulfillmentService(recorder, okOrderRepo(), zap.NewNop())

	result, err := svc.OnOrderConfirmed(context.Background(), testEvent())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, failure := range result.Failures {
		if failure.Reason != dto.ReasonInvalidInput {
			t.Errorf("failure reason = %s, want INVALID_INPUT", failure.Reason)
		}
	}
}

func TestOnOrderConfirmed_EmptyEventFallsBackToOrderItems(t *testing.T) {
	recorder := okRecorder()
	orderRepo := okOrderRepo()
	orderRepo.FindItemsByOrderIDFunc = func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
		return []domain.OrderItem{
			{ID: 1, OrderID: orderID, ProductID: 4, Quantity: 2},
			{ID: 2, OrderID: orderID, ProductID: 5, VariantID: intPtr(8), Quantity: 1},
		}, nil
	}
	svc := NewFulfillmentService(recorder, orderRepo, zap.NewNop())

	result, err := svc.OnOrderConfirmed(context.Background(), dto.OrderEvent{OrderID: 10})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != dto.FulfillmentAllSuccess {
		t.Errorf("status = %s, want ALL_SUCCESS", result.Status)
	}
	if len(result.Successes) != 2 {
		t.Errorf("successes = %d, want 2 from the stored lines", len(result.Successes))
	}
	if len(recorder.inputs) != 2 || recorder.inputs[0].ProductID != 4 || recorder.inputs[1].ProductID != 5 {
		t.Errorf("stored lines not used: %+v", recorder.inputs)
	}
	if orderRepo.itemLookups != 1 {
		t.Errorf("item lookups = %d, want 1", orderRepo.itemLookups)
	}
}

func TestOnOrderConfirmed_EventWithItemsSkipsLookup(t *testing.T) {
	recorder := okRecorder()
	orderRepo := okOrderRepo()
	svc := NewFulfillmentService(recorder, orderRepo, zap.NewNop())

	_, err := svc.OnOrderConfirmed(context.Background(), testEvent())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if orderRepo.itemLookups != 0 {
		t.Errorf("payload items must be trusted, lookups = %d", orderRepo.itemLookups)
	}
}

func TestOnOrderConfirmed_ItemLookupError(t *testing.T) {
	recorder := okRecorder()
	orderRepo := okOrderRepo()
	orderRepo.FindItemsByOrderIDFunc = func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
		return nil, errors.New("query failed")
	}
	svc := NewFulfillmentService(recorder, orderRepo, zap.NewNop())

	_, err := svc.OnOrderConfirmed(context.Background(), dto.OrderEvent{OrderID: 10})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(recorder.inputs) != 0 {
		t.Error("no activities may be recorded when the lookup fails")
	}
}

func TestOnOrderConfirmed_WarningWriteFailureDoesNotAbort(t *testing.T) {
	recorder := &mockActivityRecorder{
		RecordActivityFunc: func(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error) {
			return nil, errors.New("deadlock")
		},
	}
	orderRepo := okOrderRepo()
	orderRepo.SetFulfillmentWarningFunc = func(ctx context.Context, id uint, warning bool) error {
		return errors.New("update failed")
	}
	svc := NewFulfillmentService(recorder, orderRepo, zap.NewNop())

	result, err := svc.OnOrderConfirmed(context.Background(), testEvent())

	if err != nil {
		t.Fatalf("a failed warning write must not fail the pass, got %v", err)
	}
	if result.Status != dto.FulfillmentAllFailed {
		t.Errorf("status = %s, want ALL_FAILED", result.Status)
	}
}
