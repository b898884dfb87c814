package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gokmen-54/nalburos-web-deploy/internal/application/service"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/request"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/response"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/pagination"
)

// SaleHandler handles sale lifecycle HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// CreateDraft handles opening a new draft sale
func (h *SaleHandler) CreateDraft(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	// The body is optional; an empty draft defaults to the walk-in customer.
	var req request.CreateDraftSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CreateDraftInput{CustomerName: req.CustomerName}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer id")
			return
		}
		input.CustomerID = &customerID
	}

	sale, err := h.saleService.CreateDraftSale(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Draft sale created", sale)
}

// GetOpenDraft returns the actor's current draft sale, if any
func (h *SaleHandler) GetOpenDraft(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sale, err := h.saleService.GetOpenDraftSale(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	if sale == nil {
		response.OK(c, "No open draft sale", nil)
		return
	}
	response.OK(c, "Draft sale retrieved", sale)
}

// Get handles retrieving a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved", sale)
}

// List handles listing sales with optional status filter
func (h *SaleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &service.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.SaleStatus(statusStr)
		if !status.Valid() {
			response.BadRequest(c, "Invalid sale status")
			return
		}
		params.Status = &status
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved", result)
}

// AddLine handles adding a product line to a draft sale
func (h *SaleHandler) AddLine(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	saleID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	var req request.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	quantity := 1.0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	sale, err := h.saleService.AddLine(c.Request.Context(), actor, &service.AddLineInput{
		SaleID:       saleID,
		ProductID:    productID,
		Quantity:     quantity,
		UnitPrice:    req.UnitPrice,
		DiscountRate: req.DiscountRate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line added", sale)
}

// UpdateLine handles decrementing or removing a sale line
func (h *SaleHandler) UpdateLine(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	saleID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}
	lineID, ok := parseIDParam(c, "lineId")
	if !ok {
		response.BadRequest(c, "Invalid line id")
		return
	}

	var req request.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.saleService.UpdateLine(c.Request.Context(), actor, &service.UpdateLineInput{
		SaleID: saleID,
		LineID: lineID,
		Mode:   service.LineUpdateMode(req.Mode),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line updated", sale)
}

// SetDiscount handles setting the sale level manual discount
func (h *SaleHandler) SetDiscount(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	saleID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	var req request.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.saleService.SetManualDiscount(c.Request.Context(), actor, saleID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied", sale)
}

// Finalize handles committing a draft sale
func (h *SaleHandler) Finalize(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	saleID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	// The body is optional; a bare finalize uses the Idempotency-Key header.
	var req request.FinalizeSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	key := req.IdempotencyKey
	if key == "" {
		key = c.GetHeader("Idempotency-Key")
	}

	// Overriding a customer's credit limit is a supervisor decision.
	if req.AllowOverLimit && actor.Role != enum.RoleOwner && actor.Role != enum.RoleManager {
		response.Forbidden(c, "Only Owner or Manager can finalize over the credit limit")
		return
	}

	result, err := h.saleService.Finalize(c.Request.Context(), actor, &service.FinalizeInput{
		SaleID:         saleID,
		IdempotencyKey: key,
		AllowOverLimit: req.AllowOverLimit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale finalized", result)
}

// Void handles voiding a completed sale
func (h *SaleHandler) Void(c *gin.Context) {
	h.transition(c, h.saleService.VoidSale, "Sale voided")
}

// Refund handles refunding a completed sale
func (h *SaleHandler) Refund(c *gin.Context) {
	h.transition(c, h.saleService.RefundSale, "Sale refunded")
}

func (h *SaleHandler) transition(c *gin.Context, fn service.SaleTransitionFunc, message string) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	saleID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	sale, err := fn(c.Request.Context(), actor, saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, sale)
}
