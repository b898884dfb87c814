package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
)

// InstallmentPlan describes an optional deferred-payment schedule attached
// to a payment.
type InstallmentPlan struct {
	Count        int `json:"count"`
	IntervalDays int `json:"interval_days"`
}

// Payment records money collected against a sale. Payments are immutable
// once created; the only way to undo one is an explicit reversal, which
// removes the record and posts a compensating cashbook entry.
type Payment struct {
	ID              uuid.UUID          `json:"id"`
	SaleID          uuid.UUID          `json:"sale_id"`
	Method          enum.PaymentMethod `json:"method"`
	Amount          float64            `json:"amount"`
	Reference       string             `json:"reference,omitempty"`
	InstallmentPlan *InstallmentPlan   `json:"installment_plan,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	CreatedBy       string             `json:"created_by"`
}
