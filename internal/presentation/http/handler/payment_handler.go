package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/gokmen-54/nalburos-web-deploy/internal/application/service"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/request"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment ledger HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Add handles recording a payment against a draft sale
func (h *PaymentHandler) Add(c *gin.Context) {
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

	var req request.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.AddPaymentInput{
		SaleID:    saleID,
		Method:    enum.PaymentMethod(req.Method),
		Amount:    req.Amount,
		Reference: req.Reference,
	}
	if req.InstallmentPlan != nil {
		input.InstallmentPlan = &entity.InstallmentPlan{
			Count:        req.InstallmentPlan.Count,
			IntervalDays: req.InstallmentPlan.IntervalDays,
		}
	}

	sale, err := h.paymentService.AddPayment(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded", sale)
}

// List handles listing the payments of a sale
func (h *PaymentHandler) List(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved", payments)
}

// Cashbook handles listing the cash drawer ledger
func (h *PaymentHandler) Cashbook(c *gin.Context) {
	entries, err := h.paymentService.ListCashbook(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cashbook retrieved", entries)
}

// Reverse handles undoing a recorded payment
func (h *PaymentHandler) Reverse(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	paymentID, ok := parseIDParam(c, "paymentId")
	if !ok {
		response.BadRequest(c, "Invalid payment id")
		return
	}

	var req request.ReversePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.paymentService.ReversePayment(c.Request.Context(), actor, paymentID, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment reversed", result)
}
