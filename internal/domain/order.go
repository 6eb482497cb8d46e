package domain

import "time"

type Order struct {
	ID                 uint
	UserID             int
	Status             string
	TotalPrice         float64
	FulfillmentWarning bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID int
	VariantID *int
	Quantity  int
	Price     float64
}

const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// AllowedTransitions documents the order state machine owned by the order
// workflow. Cancellation only restocks from states that have not shipped;
// the workflow enforces this before emitting events, the reactor trusts it.
var AllowedTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}
