package dto

// OrderEvent is the payload the order workflow publishes on status
// transitions. Items carry the line detail the reactor needs; a payload
// without items falls back to the order's stored lines. The consumer trusts
// the workflow's transition guard.
type OrderEvent struct {
	OrderID uint             `json:"orderId"`
	Items   []OrderEventItem `json:"items"`
}

type OrderEventItem struct {
	ProductID int  `json:"productId"`
	VariantID *int `json:"variantId,omitempty"`
	Quantity  int  `json:"quantity"`
}
