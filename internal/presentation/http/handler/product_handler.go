package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gokmen-54/nalburos-web-deploy/internal/application/service"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/request"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/response"
)

// ProductHandler handles catalog and stock HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles adding a catalog item
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CreateProductInput{
		SKU:       req.SKU,
		Barcode:   req.Barcode,
		Name:      req.Name,
		Unit:      req.Unit,
		Quantity:  req.Quantity,
		MinStock:  req.MinStock,
		SalePrice: req.SalePrice,
		LastCost:  req.LastCost,
		VATRate:   req.VATRate,
		BranchID:  req.BranchID,
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			response.BadRequest(c, "Invalid category id")
			return
		}
		input.CategoryID = &categoryID
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created", product)
}

// Catalog handles the register catalog lookup
func (h *ProductHandler) Catalog(c *gin.Context) {
	q := &service.CatalogQuery{
		BranchID: c.Query("branch_id"),
		Text:     c.Query("q"),
	}
	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid category id")
			return
		}
		q.CategoryID = &categoryID
	}

	products, err := h.productService.Catalog(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Catalog retrieved", products)
}

// Get handles retrieving a single product
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved", product)
}

// Movements handles listing a product's stock movement history
func (h *ProductHandler) Movements(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}

	movements, err := h.productService.ListMovements(c.Request.Context(), productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock movements retrieved", movements)
}
