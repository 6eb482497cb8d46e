package dto

type RecordActivityRequest struct {
	ProductID int           `json:"productId"`
	VariantID *int          `json:"variantId,omitempty"`
	Type      string        `json:"type"`
	Quantity  int           `json:"quantity"`
	Reference *ReferenceDTO `json:"reference,omitempty"`
	Note      *string       `json:"note,omitempty"`
}

type ReferenceDTO struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
}
