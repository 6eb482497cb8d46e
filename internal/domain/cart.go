package domain

import "time"

type CartItem struct {
	ID        uint
	UserID    int
	ProductID int
	VariantID *int
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
