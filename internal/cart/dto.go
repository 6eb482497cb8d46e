package cart

type AddItemRequest struct {
	UserID    int  `json:"-"`
	ProductID int  `json:"productId"`
	VariantID *int `json:"variantId,omitempty"`
	Quantity  int  `json:"quantity"`
}

type UpdateItemRequest struct {
	UserID    int  `json:"-"`
	ProductID int  `json:"productId"`
	VariantID *int `json:"variantId,omitempty"`
	Quantity  int  `json:"quantity"`
}

type CartItemDTO struct {
	ID        uint `json:"id"`
	ProductID int  `json:"productId"`
	VariantID *int `json:"variantId,omitempty"`
	Quantity  int  `json:"quantity"`
}
