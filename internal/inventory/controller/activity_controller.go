package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockledger/internal/domain"
	"stockledger/internal/dto"
	apperrors "stockledger/internal/errors"
)

type RecordActivityUseCase interface {
	RecordActivity(ctx context.Context, input dto.ActivityInput) (*domain.LedgerEntry, error)
}

type ListActivitiesUseCase interface {
	ListActivities(ctx context.Context, filter dto.ActivityFilter, page dto.Page) ([]domain.LedgerEntry, int, error)
	SummarizeActivity(ctx context.Context, filter dto.ActivityFilter) ([]dto.ProductActivitySummary, error)
}

type ActivityController struct {
	recordUseCase RecordActivityUseCase
	listUseCase   ListActivitiesUseCase
	logger        *zap.Logger
}

func NewActivityController(recordUseCase RecordActivityUseCase, listUseCase ListActivitiesUseCase, logger *zap.Logger) *ActivityController {
	return &ActivityController{
		recordUseCase: recordUseCase,
		listUseCase:   listUseCase,
		logger:        logger,
	}
}

// RecordActivity handles POST /api/inventory/activities. The actor comes from
// the X-User-Id header set by the auth layer in front of this service.
func (c *ActivityController) RecordActivity(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	performedBy, err := actorFromRequest(r)
	if err != nil {
		logger.Warn("missing or invalid actor header", zap.Error(err))
		c.writeValidationError(w, "invalid actor", apperrors.ValidationDetail{
			Field:   "X-User-Id",
			Message: "X-User-Id header must be a positive integer",
		})
		return
	}

	var req dto.RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if validationErr := validateRecordRequest(req); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	input := dto.ActivityInput{
		ProductID:   req.ProductID,
		VariantID:   req.VariantID,
		Type:        domain.ActivityType(req.Type),
		Quantity:    req.Quantity,
		Note:        req.Note,
		PerformedBy: performedBy,
	}
	if req.Reference != nil {
		input.Reference = &domain.Reference{
			Type: domain.ReferenceType(req.Reference.Type),
			ID:   req.Reference.ID,
		}
	}

	entry, err := c.recordUseCase.RecordActivity(r.Context(), input)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.RecordActivityResponse{
		TraceID:   traceID,
		Activity:  toActivityDTO(*entry),
		Timestamp: time.Now().UTC(),
	})
}

// ListActivities handles GET /api/inventory/activities.
func (c *ActivityController) ListActivities(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	filter, page, err := parseListQuery(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	c.respondWithList(w, r, traceID, filter, page, logger)
}

// ListProductActivities handles GET /api/inventory/products/{productId}/activities.
func (c *ActivityController) ListProductActivities(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil || productID <= 0 {
		c.writeValidationError(w, "invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return
	}

	filter, page, parseErr := parseListQuery(r)
	if parseErr != nil {
		ve, _ := apperrors.IsValidationError(parseErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}
	filter.ProductID = productID

	c.respondWithList(w, r, traceID, filter, page, logger)
}

// ActivitySummary handles GET /api/inventory/activities/summary.
func (c *ActivityController) ActivitySummary(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	filter, _, err := parseListQuery(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	summary, err := c.listUseCase.SummarizeActivity(r.Context(), filter)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	if summary == nil {
		summary = []dto.ProductActivitySummary{}
	}

	c.writeJSON(w, http.StatusOK, dto.ActivitySummaryResponse{
		TraceID:   traceID,
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	})
}

func (c *ActivityController) respondWithList(w http.ResponseWriter, r *http.Request, traceID string, filter dto.ActivityFilter, page dto.Page, logger *zap.Logger) {
	entries, total, err := c.listUseCase.ListActivities(r.Context(), filter, page)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	activities := make([]dto.ActivityDTO, 0, len(entries))
	for _, entry := range entries {
		activities = append(activities, toActivityDTO(entry))
	}

	if page.Number < 1 {
		page.Number = 1
	}
	if page.Limit < 1 {
		page.Limit = 20
	}

	totalPages := total / page.Limit
	if total%page.Limit > 0 {
		totalPages++
	}

	c.writeJSON(w, http.StatusOK, dto.ListActivitiesResponse{
		TraceID:    traceID,
		Activities: activities,
		Pagination: dto.PaginationDTO{
			Total:      total,
			Page:       page.Number,
			Limit:      page.Limit,
			TotalPages: totalPages,
		},
		Timestamp: time.Now().UTC(),
	})
}

func validateRecordRequest(req dto.RecordActivityRequest) error {
	var details []apperrors.ValidationDetail

	if req.ProductID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
	}

	if req.VariantID != nil && *req.VariantID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "variantId",
			Message: "variantId must be a positive integer",
		})
	}

	if req.Type == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "type",
			Message: "type is required",
		})
	}

	if req.Reference != nil && req.Reference.ID == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "reference.id",
			Message: "reference.id is required when reference is given",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func parseListQuery(r *http.Request) (dto.ActivityFilter, dto.Page, error) {
	var details []apperrors.ValidationDetail
	filter := dto.ActivityFilter{}
	page := dto.Page{Number: 1, Limit: 20}

	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			details = append(details, apperrors.ValidationDetail{Field: "page", Message: "page must be a positive integer"})
		} else {
			page.Number = n
		}
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			details = append(details, apperrors.ValidationDetail{Field: "limit", Message: "limit must be between 1 and 100"})
		} else {
			page.Limit = n
		}
	}

	if v := q.Get("productId"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			details = append(details, apperrors.ValidationDetail{Field: "productId", Message: "productId must be a positive integer"})
		} else {
			filter.ProductID = n
		}
	}

	if v := q.Get("variantId"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			details = append(details, apperrors.ValidationDetail{Field: "variantId", Message: "variantId must be a positive integer"})
		} else {
			filter.VariantID = &n
		}
	}

	if v := q.Get("userId"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			details = append(details, apperrors.ValidationDetail{Field: "userId", Message: "userId must be a positive integer"})
		} else {
			filter.PerformedBy = n
		}
	}

	filter.Type = q.Get("type")

	filter.ReferenceType = q.Get("referenceType")
	if v := q.Get("referenceId"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			details = append(details, apperrors.ValidationDetail{Field: "referenceId", Message: "referenceId must be a positive integer"})
		} else {
			filter.ReferenceID = uint(n)
		}
	}

	if v := q.Get("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "startDate", Message: "startDate must be an RFC3339 timestamp"})
		} else {
			filter.StartDate = &t
		}
	}

	if v := q.Get("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "endDate", Message: "endDate must be an RFC3339 timestamp"})
		} else {
			filter.EndDate = &t
		}
	}

	if len(details) > 0 {
		return filter, page, apperrors.NewValidationError("validation failed", details...)
	}

	return filter, page, nil
}

func actorFromRequest(r *http.Request) (int, error) {
	userID, err := strconv.Atoi(r.Header.Get("X-User-Id"))
	if err != nil {
		return 0, err
	}
	if userID <= 0 {
		return 0, apperrors.NewInvalidInputError("X-User-Id must be a positive integer")
	}
	return userID, nil
}

func toActivityDTO(entry domain.LedgerEntry) dto.ActivityDTO {
	activity := dto.ActivityDTO{
		ID:               entry.ID,
		ProductID:        entry.ProductID,
		VariantID:        entry.VariantID,
		Type:             string(entry.Type),
		Quantity:         entry.Quantity,
		PreviousQuantity: entry.PreviousQuantity,
		NewQuantity:      entry.NewQuantity,
		Note:             entry.Note,
		PerformedBy:      entry.PerformedBy,
		CreatedAt:        entry.CreatedAt,
	}
	if entry.Reference != nil {
		activity.Reference = &dto.ReferenceDTO{
			Type: string(entry.Reference.Type),
			ID:   entry.Reference.ID,
		}
	}
	return activity
}

func (c *ActivityController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsActivityTypeError(err); ok {
		c.writeError(w, traceID, http.StatusBadRequest, "INVALID_ACTIVITY_TYPE", err.Error())
		return
	}

	if _, ok := apperrors.IsInvalidInputError(err); ok {
		c.writeError(w, traceID, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "WRITE_CONFLICT", "stock write conflicted, retry the activity")
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *ActivityController) writeError(w http.ResponseWriter, traceID string, status int, code string, message string) {
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

func (c *ActivityController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *ActivityController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
