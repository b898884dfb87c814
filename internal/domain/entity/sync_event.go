package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
)

// SyncEventTypeSaleFinalize is the only event type emitted today.
const SyncEventTypeSaleFinalize = "SALE_FINALIZE"

// SyncEvent represents an outbound notification of a finalized sale, e.g.
// for offline-terminal reconciliation. Exactly one PENDING event is created
// per successful finalize.
type SyncEvent struct {
	ID        uuid.UUID            `json:"id"`
	EventType string               `json:"event_type"`
	SaleID    uuid.UUID            `json:"sale_id"`
	Payload   string               `json:"payload"`
	Status    enum.SyncEventStatus `json:"status"`
	Attempts  int                  `json:"attempts"`
	Error     string               `json:"error,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}
