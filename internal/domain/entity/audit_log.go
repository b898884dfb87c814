package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
)

// Audit action names, one per mutating engine operation.
const (
	AuditSaleDraftCreate = "pos.sale.draft.create"
	AuditSaleLineAdd     = "pos.sale.line.add"
	AuditSaleLineUpdate  = "pos.sale.line.update"
	AuditSalePaymentAdd  = "pos.sale.payment.add"
	AuditSaleDiscountSet = "pos.sale.discount.set"
	AuditSaleFinalize    = "pos.sale.finalize"
	AuditSaleVoid        = "pos.sale.void"
	AuditSaleRefund      = "pos.sale.refund"
	AuditPaymentReverse  = "pos.payment.reverse"
	AuditNegativeMargin  = "pos.warning.negative_margin"
)

// AuditLog is an append-only record of a mutating action. Entries are never
// updated or deleted by the engine.
type AuditLog struct {
	ID        uuid.UUID     `json:"id"`
	Action    string        `json:"action"`
	Username  string        `json:"username"`
	Role      enum.UserRole `json:"role"`
	Meta      string        `json:"meta"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewAuditLog builds an entry for an actor and action, serializing meta to
// JSON. Marshal failures degrade to an empty blob rather than losing the
// entry.
func NewAuditLog(username string, role enum.UserRole, action string, meta any) AuditLog {
	blob, err := json.Marshal(meta)
	if err != nil {
		blob = []byte("{}")
	}
	return AuditLog{
		ID:        uuid.New(),
		Action:    action,
		Username:  username,
		Role:      role,
		Meta:      string(blob),
		CreatedAt: time.Now().UTC(),
	}
}
