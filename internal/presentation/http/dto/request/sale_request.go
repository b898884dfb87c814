package request

// CreateDraftSaleRequest opens a new draft sale.
type CreateDraftSaleRequest struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
}

// AddLineRequest adds a product to a draft sale. UnitPrice and DiscountRate
// are optional overrides; quantity defaults to 1 when omitted.
type AddLineRequest struct {
	ProductID    string   `json:"product_id" binding:"required"`
	Quantity     *float64 `json:"quantity"`
	UnitPrice    *float64 `json:"unit_price"`
	DiscountRate *float64 `json:"discount_rate"`
}

// UpdateLineRequest decrements or removes a line.
type UpdateLineRequest struct {
	Mode string `json:"mode" binding:"required,oneof=DECREASE_ONE REMOVE"`
}

// SetDiscountRequest sets the sale level manual discount amount.
type SetDiscountRequest struct {
	Amount float64 `json:"amount"`
}

// FinalizeSaleRequest commits a draft sale. The idempotency key may also be
// supplied via the Idempotency-Key header.
type FinalizeSaleRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	AllowOverLimit bool   `json:"allow_over_limit"`
}

// AddPaymentRequest records a payment against a draft sale.
type AddPaymentRequest struct {
	Method          string                  `json:"method" binding:"required"`
	Amount          float64                 `json:"amount" binding:"required"`
	Reference       string                  `json:"reference"`
	InstallmentPlan *InstallmentPlanRequest `json:"installment_plan"`
}

// InstallmentPlanRequest describes deferred collection terms on a payment.
type InstallmentPlanRequest struct {
	Count        int `json:"count" binding:"required,min=1"`
	IntervalDays int `json:"interval_days" binding:"required,min=1"`
}

// ReversePaymentRequest undoes a recorded payment.
type ReversePaymentRequest struct {
	Note string `json:"note"`
}

// SyncEventsRequest selects pending events to push.
type SyncEventsRequest struct {
	EventIDs []string `json:"event_ids" binding:"required,min=1"`
}
