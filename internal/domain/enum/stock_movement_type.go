package enum

// StockMovementType represents the direction of an inventory movement
type StockMovementType string

const (
	StockMovementIn     StockMovementType = "IN"
	StockMovementOut    StockMovementType = "OUT"
	StockMovementAdjust StockMovementType = "ADJUST"
)

// Valid reports whether the value is a known movement type
func (t StockMovementType) Valid() bool {
	switch t {
	case StockMovementIn, StockMovementOut, StockMovementAdjust:
		return true
	}
	return false
}

func (t StockMovementType) String() string {
	return string(t)
}
