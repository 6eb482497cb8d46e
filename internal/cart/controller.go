package cart

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
)

type Controller struct {
	useCase UseCase
	logger  *zap.Logger
}

func NewController(useCase UseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleAddItem handles POST /api/cart/items.
func (c *Controller) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	userID, ok := c.requireActor(w, r, logger)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	req.UserID = userID

	if err := validateItemRequest(req.ProductID, req.VariantID, req.Quantity); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	item, err := c.useCase.AddItem(r.Context(), req)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"traceId":   traceID,
		"item":      item,
		"timestamp": time.Now().UTC(),
	})
}

// HandleUpdateItem handles PUT /api/cart/items.
func (c *Controller) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	userID, ok := c.requireActor(w, r, logger)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	req.UserID = userID

	if err := validateItemRequest(req.ProductID, req.VariantID, req.Quantity); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	item, err := c.useCase.UpdateItemQuantity(r.Context(), req)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]interface{}{
		"traceId":   traceID,
		"item":      item,
		"timestamp": time.Now().UTC(),
	})
}

func (c *Controller) requireActor(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, bool) {
	userID, err := strconv.Atoi(r.Header.Get("X-User-Id"))
	if err != nil || userID <= 0 {
		logger.Warn("missing or invalid actor header")
		c.writeValidationError(w, "invalid actor", apperrors.ValidationDetail{
			Field:   "X-User-Id",
			Message: "X-User-Id header must be a positive integer",
		})
		return 0, false
	}
	return userID, true
}

func validateItemRequest(productID int, variantID *int, quantity int) error {
	var details []apperrors.ValidationDetail

	if productID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
	}

	if variantID != nil && *variantID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "variantId",
			Message: "variantId must be a positive integer",
		})
	}

	if quantity < 1 || quantity > 10000 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be between 1 and 10000",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *Controller) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	// Guard refusals surface as a 400-class error with the stock message.
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, traceID, http.StatusBadRequest, "INSUFFICIENT_STOCK", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *Controller) writeError(w http.ResponseWriter, traceID string, status int, code string, message string) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
