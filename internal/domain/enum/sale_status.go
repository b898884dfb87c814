package enum

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusDraft     SaleStatus = "DRAFT"
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusVoided    SaleStatus = "VOIDED"
	SaleStatusRefunded  SaleStatus = "REFUNDED"
)

// Valid reports whether the value is a known sale status
func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusDraft, SaleStatusCompleted, SaleStatusVoided, SaleStatusRefunded:
		return true
	}
	return false
}

// IsMutable reports whether lines, payments and discounts may still change.
// DRAFT is the only mutable state.
func (s SaleStatus) IsMutable() bool {
	return s == SaleStatusDraft
}

// CanTransitionTo reports whether the status may move to next.
// VOIDED and REFUNDED are terminal.
func (s SaleStatus) CanTransitionTo(next SaleStatus) bool {
	switch s {
	case SaleStatusDraft:
		return next == SaleStatusCompleted
	case SaleStatusCompleted:
		return next == SaleStatusVoided || next == SaleStatusRefunded
	case SaleStatusVoided, SaleStatusRefunded:
		return false
	}
	return false
}

func (s SaleStatus) String() string {
	return string(s)
}
