package entity

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents an account customer. Balance grows with the due
// portion of finalized credit sales; CreditLimit of zero means unlimited.
type Customer struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreditLimit float64   `json:"credit_limit"`
	Balance     float64   `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
}

// WouldExceedLimit reports whether adding amount to the balance would pass
// the credit limit. A zero limit never blocks.
func (c *Customer) WouldExceedLimit(amount float64) bool {
	return c.CreditLimit > 0 && c.Balance+amount > c.CreditLimit
}
