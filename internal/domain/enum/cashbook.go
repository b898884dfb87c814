package enum

// CashbookType represents the direction of a cashbook posting
type CashbookType string

const (
	CashbookIncome  CashbookType = "INCOME"
	CashbookExpense CashbookType = "EXPENSE"
)

// Valid reports whether the value is a known cashbook type
func (t CashbookType) Valid() bool {
	return t == CashbookIncome || t == CashbookExpense
}

func (t CashbookType) String() string {
	return string(t)
}

// CashbookCategory classifies a cashbook posting for reporting
type CashbookCategory string

const (
	CashbookCategorySale       CashbookCategory = "SALE"
	CashbookCategoryCollection CashbookCategory = "COLLECTION"
	CashbookCategoryPurchase   CashbookCategory = "PURCHASE"
	CashbookCategoryRent       CashbookCategory = "RENT"
	CashbookCategorySalary     CashbookCategory = "SALARY"
	CashbookCategoryUtility    CashbookCategory = "UTILITY"
	CashbookCategoryOther      CashbookCategory = "OTHER"
)

// Valid reports whether the value is a known cashbook category
func (c CashbookCategory) Valid() bool {
	switch c {
	case CashbookCategorySale, CashbookCategoryCollection, CashbookCategoryPurchase,
		CashbookCategoryRent, CashbookCategorySalary, CashbookCategoryUtility, CashbookCategoryOther:
		return true
	}
	return false
}

func (c CashbookCategory) String() string {
	return string(c)
}
