package enum

// AccountEntryType represents the side of a customer ledger posting
type AccountEntryType string

const (
	AccountEntryDebit  AccountEntryType = "DEBIT"
	AccountEntryCredit AccountEntryType = "CREDIT"
)

// Valid reports whether the value is a known entry type
func (t AccountEntryType) Valid() bool {
	return t == AccountEntryDebit || t == AccountEntryCredit
}

func (t AccountEntryType) String() string {
	return string(t)
}
