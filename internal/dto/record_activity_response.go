package dto

import "time"

type ActivityDTO struct {
	ID               uint          `json:"id"`
	ProductID        int           `json:"productId"`
	VariantID        *int          `json:"variantId,omitempty"`
	Type             string        `json:"type"`
	Quantity         int           `json:"quantity"`
	PreviousQuantity int           `json:"previousQuantity"`
	NewQuantity      int           `json:"newQuantity"`
	Reference        *ReferenceDTO `json:"reference,omitempty"`
	Note             *string       `json:"note,omitempty"`
	PerformedBy      int           `json:"performedBy"`
	CreatedAt        time.Time     `json:"createdAt"`
}

type RecordActivityResponse struct {
	TraceID   string      `json:"traceId"`
	Activity  ActivityDTO `json:"activity"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
