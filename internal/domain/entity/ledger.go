package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
)

// AccountEntry is a posting on a customer's ledger. Finalizing a credit sale
// posts a DEBIT for the due amount.
type AccountEntry struct {
	ID            uuid.UUID             `json:"id"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	Type          enum.AccountEntryType `json:"type"`
	Amount        float64               `json:"amount"`
	Note          string                `json:"note"`
	RelatedSaleID *uuid.UUID            `json:"related_sale_id,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	CreatedBy     string                `json:"created_by"`
}

// CashbookEntry is a cash in/out posting. Finalization posts INCOME for the
// collected amount and EXPENSE for change handed back; payment reversal
// posts a compensating EXPENSE.
type CashbookEntry struct {
	ID            uuid.UUID             `json:"id"`
	Type          enum.CashbookType     `json:"type"`
	Category      enum.CashbookCategory `json:"category"`
	Amount        float64               `json:"amount"`
	Note          string                `json:"note"`
	RelatedSaleID *uuid.UUID            `json:"related_sale_id,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	CreatedBy     string                `json:"created_by"`
}

// StockMovement records an inventory change. Finalization appends one OUT
// movement per sale line.
type StockMovement struct {
	ID        uuid.UUID              `json:"id"`
	ProductID uuid.UUID              `json:"product_id"`
	Type      enum.StockMovementType `json:"type"`
	Quantity  float64                `json:"quantity"`
	UnitCost  *float64               `json:"unit_cost,omitempty"`
	Note      string                 `json:"note,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	CreatedBy string                 `json:"created_by"`
}
