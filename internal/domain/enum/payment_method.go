package enum

// PaymentMethod represents how a payment was collected
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCredit   PaymentMethod = "CREDIT"
	PaymentMethodMixed    PaymentMethod = "MIXED"
)

// Valid reports whether the value is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCredit, PaymentMethodMixed:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}
