package service

import (
	"context"

	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
)

type ActivityRecorder interface {
	RecordActivity(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindItemsByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
	SetFulfillmentWarning(ctx context.Context, id uint, warning bool) error
}

const noteOrderCancelled = "order_cancelled"

// FulfillmentService reacts to order status transitions: confirmation
// decrements stock with one sale activity per line item, cancellation
// restores it with returns. Line items are adjusted best-effort; a failed
// item does not abort the rest, it flags the order for reconciliation.
// The transition guard itself lives in the order workflow, not here.
type FulfillmentService struct {
	recorder  ActivityRecorder
	orderRepo OrderRepository
	logger    *zap.Logger
}

func NewFulfillmentService(recorder ActivityRecorder, orderRepo OrderRepository, logger *zap.Logger) *FulfillmentService {
	return &FulfillmentService{
		recorder:  recorder,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (s *FulfillmentService) OnOrderConfirmed(ctx context.Context, event dto.OrderEvent) (*dto.FulfillmentResult, error) {
	return s.adjustItems(ctx, event, domain.ActivitySale, nil)
}

func (s *FulfillmentService) OnOrderCancelled(ctx context.Context, event dto.OrderEvent) (*dto.FulfillmentResult, error) {
	note := noteOrderCancelled
	return s.adjustItems(ctx, event, domain.ActivityReturn, &note)
}

func (s *FulfillmentService) adjustItems(
	ctx context.Context,
	event dto.OrderEvent,
	activityType domain.ActivityType,
	note *string,
) (*dto.FulfillmentResult, error) {
	order, err := s.orderRepo.FindByID(ctx, event.OrderID)
	if err != nil {
		return nil, err
	}

	items := event.Items
	if len(items) == 0 {
		// Events without line detail fall back to the order's stored lines.
		orderItems, err := s.orderRepo.FindItemsByOrderID(ctx, event.OrderID)
		if err != nil {
			return nil, err
		}
		for _, oi := range orderItems {
			items = append(items, dto.OrderEventItem{
				ProductID: oi.ProductID,
				VariantID: oi.VariantID,
				Quantity:  oi.Quantity,
			})
		}
	}

	s.logger.Info("order fulfillment pass started",
		zap.Uint("orderId", event.OrderID),
		zap.String("activityType", string(activityType)),
		zap.Int("itemCount", len(items)))

	successes := []dto.ItemSuccess{}
	failures := []dto.ItemFailure{}

	for _, item := range items {
		entry, err := s.recorder.RecordActivity(ctx, dto.ActivityInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Type:      activityType,
			Quantity:  item.Quantity,
			Reference: &domain.Reference{
				Type: domain.ReferenceOrder,
				ID:   event.OrderID,
			},
			Note:        note,
			PerformedBy: order.UserID,
		})

		if err != nil {
			failures = append(failures, dto.ItemFailure{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
				Reason:    classifyFailure(err),
			})
			s.logger.Warn("line item stock adjustment failed",
				zap.Uint("orderId", event.OrderID),
				zap.Int("productId", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			continue
		}

		successes = append(successes, dto.ItemSuccess{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Quantity:    item.Quantity,
			NewQuantity: entry.NewQuantity,
		})
	}

	result := &dto.FulfillmentResult{
		OrderID:   event.OrderID,
		Successes: successes,
		Failures:  failures,
	}

	switch {
	case len(failures) == 0:
		result.Status = dto.FulfillmentAllSuccess
	case len(successes) == 0:
		result.Status = dto.FulfillmentAllFailed
	default:
		result.Status = dto.FulfillmentPartial
	}

	if len(failures) > 0 {
		if err := s.orderRepo.SetFulfillmentWarning(ctx, event.OrderID, true); err != nil {
			s.logger.Error("failed to flag order for reconciliation",
				zap.Uint("orderId", event.OrderID),
				zap.Error(err))
		}
		s.logger.Warn("order fulfillment incomplete",
			zap.Uint("orderId", event.OrderID),
			zap.String("status", string(result.Status)),
			zap.Int("failureCount", len(failures)))
	} else {
		s.logger.Info("order fulfillment pass completed",
			zap.Uint("orderId", event.OrderID),
			zap.Int("successCount", len(successes)))
	}

	return result, nil
}

func classifyFailure(err error) dto.FailureReason {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return dto.ReasonNotFound
	}
	if _, ok := apperrors.IsInvalidInputError(err); ok {
		return dto.ReasonInvalidInput
	}
	if _, ok := apperrors.IsActivityTypeError(err); ok {
		return dto.ReasonInvalidInput
	}
	return dto.ReasonWriteFailed
}
