package domain

import "time"

type Product struct {
	ID            int
	Name          string
	Slug          string
	StockQuantity int
	IsActive      bool
	IsDeleted     bool
	Variants      []Variant
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Variant struct {
	ID        int
	ProductID int
	SKU       string
	Price     float64
	Inventory int
	IsDefault bool
}

// EnsureDefaultVariant promotes the first variant when none is flagged as
// default. Enforced on every product write so that exactly one default exists
// whenever variants exist.
func (p *Product) EnsureDefaultVariant() {
	if len(p.Variants) == 0 {
		return
	}
	for i := range p.Variants {
		if p.Variants[i].IsDefault {
			return
		}
	}
	p.Variants[0].IsDefault = true
}

// DefaultVariant returns the variant quantity checks fall back to when the
// caller does not name one. Nil when the product has no variants.
func (p *Product) DefaultVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].IsDefault {
			return &p.Variants[i]
		}
	}
	if len(p.Variants) > 0 {
		return &p.Variants[0]
	}
	return nil
}

// AvailableStock returns the live stock a requested quantity is checked
// against: the named variant's inventory, the default variant's when variants
// exist, otherwise the flat stock field.
func (p *Product) AvailableStock(variantID *int) int {
	if variantID != nil {
		for i := range p.Variants {
			if p.Variants[i].ID == *variantID {
				return p.Variants[i].Inventory
			}
		}
		return 0
	}
	if v := p.DefaultVariant(); v != nil {
		return v.Inventory
	}
	return p.StockQuantity
}
