package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTaxRate is applied to products without an explicit VAT rate.
const DefaultTaxRate = 20

// Product represents a sellable item in the catalog. Stock quantity is
// decremented by the finalization transaction; LastCost feeds the
// negative-margin audit warning when a line is added below cost.
type Product struct {
	ID         uuid.UUID  `json:"id"`
	BranchID   string     `json:"branch_id,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	SKU        string     `json:"sku"`
	Barcode    string     `json:"barcode,omitempty"`
	Name       string     `json:"name"`
	Unit       string     `json:"unit"`
	Quantity   float64    `json:"quantity"`
	MinStock   float64    `json:"min_stock"`
	SalePrice  float64    `json:"sale_price"`
	LastCost   float64    `json:"last_cost"`
	VATRate    *float64   `json:"vat_rate,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// EffectiveTaxRate returns the product's VAT rate, or the default when none
// is set.
func (p *Product) EffectiveTaxRate() float64 {
	if p.VATRate != nil {
		return *p.VATRate
	}
	return DefaultTaxRate
}
