package dto

type FulfillmentStatus string

const (
	FulfillmentAllSuccess FulfillmentStatus = "ALL_SUCCESS"
	FulfillmentPartial    FulfillmentStatus = "PARTIAL"
	FulfillmentAllFailed  FulfillmentStatus = "ALL_FAILED"
)

type FailureReason string

const (
	ReasonNotFound     FailureReason = "NOT_FOUND"
	ReasonInvalidInput FailureReason = "INVALID_INPUT"
	ReasonWriteFailed  FailureReason = "WRITE_FAILED"
)

type ItemSuccess struct {
	ProductID   int
	VariantID   *int
	Quantity    int
	NewQuantity int
}

type ItemFailure struct {
	ProductID int
	VariantID *int
	Quantity  int
	Reason    FailureReason
}

// FulfillmentResult reports the per-line outcome of one order event pass.
// A PARTIAL or ALL_FAILED status also sets the order's fulfillment warning.
type FulfillmentResult struct {
	Status    FulfillmentStatus
	OrderID   uint
	Successes []ItemSuccess
	Failures  []ItemFailure
}
