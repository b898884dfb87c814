package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
)

// DefaultCustomerName is the display name attributed to walk-in sales that
// are not bound to a customer record.
const DefaultCustomerName = "PERAKENDE SATIS"

// Sale is the mutable-until-finalized aggregate at the center of the POS
// engine. All monetary totals are derived; Recalculate is the only code that
// writes them.
type Sale struct {
	ID                  uuid.UUID       `json:"id"`
	BranchID            string          `json:"branch_id"`
	RegisterID          string          `json:"register_id"`
	CustomerID          *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName        string          `json:"customer_name"`
	Status              enum.SaleStatus `json:"status"`
	Lines               []SaleLine      `json:"lines"`
	SubTotal            float64         `json:"sub_total"`
	DiscountTotal       float64         `json:"discount_total"`
	ManualDiscountTotal float64         `json:"manual_discount_total"`
	TaxTotal            float64         `json:"tax_total"`
	NetTotal            float64         `json:"net_total"`
	PaidTotal           float64         `json:"paid_total"`
	DueTotal            float64         `json:"due_total"`
	ChangeTotal         float64         `json:"change_total"`
	IdempotencyKey      string          `json:"idempotency_key,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	CreatedBy           string          `json:"created_by"`
}

// SaleLine is a line item owned exclusively by its sale. Product name, sku
// and tax rate are snapshotted at add time; later product changes do not
// affect existing lines.
type SaleLine struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	SKU          string    `json:"sku"`
	Quantity     float64   `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	DiscountRate float64   `json:"discount_rate"`
	TaxRate      float64   `json:"tax_rate"`
	LineTotal    float64   `json:"line_total"`
}

// Gross returns quantity x unit price before discount.
func (l SaleLine) Gross() float64 {
	return l.Quantity * l.UnitPrice
}

// RecalcLineTotal refreshes the derived line total after a quantity, price
// or discount change.
func (l *SaleLine) RecalcLineTotal() {
	gross := l.Gross()
	l.LineTotal = gross - gross*(l.DiscountRate/100)
}

// Recalculate recomputes every derived monetary field from the lines, the
// manual discount and the paid total. It is deterministic and has no side
// effects outside the receiver.
//
// The manual discount is clamped to [0, grossNet] so the net total can never
// go negative, and at most one of DueTotal/ChangeTotal is nonzero.
func (s *Sale) Recalculate() {
	var subTotal, lineDiscountTotal, taxTotal float64
	for _, line := range s.Lines {
		gross := line.Gross()
		discount := gross * (line.DiscountRate / 100)
		subTotal += gross
		lineDiscountTotal += discount
		taxTotal += (gross - discount) * (line.TaxRate / 100)
	}

	grossNet := (subTotal - lineDiscountTotal) + taxTotal
	manualDiscount := clamp(s.ManualDiscountTotal, 0, grossNet)

	s.SubTotal = subTotal
	s.TaxTotal = taxTotal
	s.ManualDiscountTotal = manualDiscount
	s.DiscountTotal = lineDiscountTotal + manualDiscount
	s.NetTotal = max(grossNet-manualDiscount, 0)
	s.DueTotal = max(s.NetTotal-s.PaidTotal, 0)
	s.ChangeTotal = max(s.PaidTotal-s.NetTotal, 0)
}

// LineIndex returns the index of the line with the given id, or -1.
func (s *Sale) LineIndex(lineID uuid.UUID) int {
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// LineIndexByProduct returns the index of the line for the given product,
// or -1. Each product appears on at most one line; repeat adds merge.
func (s *Sale) LineIndexByProduct(productID uuid.UUID) int {
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
