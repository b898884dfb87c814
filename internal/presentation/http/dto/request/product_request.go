package request

// CreateProductRequest adds a catalog item.
type CreateProductRequest struct {
	SKU        string   `json:"sku" binding:"required"`
	Barcode    string   `json:"barcode"`
	Name       string   `json:"name" binding:"required,min=2,max=255"`
	Unit       string   `json:"unit"`
	Quantity   float64  `json:"quantity"`
	MinStock   float64  `json:"min_stock"`
	SalePrice  float64  `json:"sale_price" binding:"required"`
	LastCost   float64  `json:"last_cost"`
	VATRate    *float64 `json:"vat_rate"`
	BranchID   string   `json:"branch_id"`
	CategoryID string   `json:"category_id"`
}

// CreateCustomerRequest adds an account customer.
type CreateCustomerRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	CreditLimit float64 `json:"credit_limit"`
}
