package domain

import (
	"fmt"
	"time"

	"stockledger/internal/errors"
)

// ActivityType is the closed set of stock movement kinds. Anything outside
// this set (including the legacy add/remove/adjust names) is rejected.
type ActivityType string

const (
	ActivityStockAddition ActivityType = "stock_addition"
	ActivityStockRemoval  ActivityType = "stock_removal"
	ActivityPurchase      ActivityType = "purchase"
	ActivitySale          ActivityType = "sale"
	ActivityReturn        ActivityType = "return"
	ActivityAdjustment    ActivityType = "adjustment"
	ActivityDamaged       ActivityType = "damaged"
	ActivityTransfer      ActivityType = "transfer"
)

func ParseActivityType(s string) (ActivityType, error) {
	switch t := ActivityType(s); t {
	case ActivityStockAddition, ActivityStockRemoval, ActivityPurchase,
		ActivitySale, ActivityReturn, ActivityAdjustment,
		ActivityDamaged, ActivityTransfer:
		return t, nil
	}
	return "", errors.NewActivityTypeError(fmt.Sprintf("unknown activity type: %s", s))
}

// Direction returns +1 for types that increase stock, -1 for types that
// decrease it, and 0 for adjustment (which sets an absolute target).
func (t ActivityType) Direction() int {
	switch t {
	case ActivityStockAddition, ActivityPurchase, ActivityReturn:
		return 1
	case ActivityStockRemoval, ActivitySale, ActivityDamaged, ActivityTransfer:
		return -1
	default:
		return 0
	}
}

type ReferenceType string

const (
	ReferenceOrder      ReferenceType = "order"
	ReferencePurchase   ReferenceType = "purchase"
	ReferenceAdjustment ReferenceType = "adjustment"
	ReferenceReturn     ReferenceType = "return"
)

// Reference ties a ledger entry to the order or event that caused it.
type Reference struct {
	Type ReferenceType
	ID   uint
}

// LedgerEntry is an immutable record of one stock change. Entries are created
// once by the recorder and never updated or deleted.
type LedgerEntry struct {
	ID               uint
	ProductID        int
	VariantID        *int
	Type             ActivityType
	Quantity         int
	PreviousQuantity int
	NewQuantity      int
	Reference        *Reference
	Note             *string
	PerformedBy      int
	CreatedAt        time.Time
}
