package dto

import "stockledger/internal/domain"

// ActivityInput is the validated tuple handed to the recorder. Callers (the
// HTTP layer, the fulfillment reactor) are trusted to have authenticated the
// actor already.
type ActivityInput struct {
	ProductID   int
	VariantID   *int
	Type        domain.ActivityType
	Quantity    int
	Reference   *domain.Reference
	Note        *string
	PerformedBy int
}
