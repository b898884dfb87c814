package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gokmen-54/nalburos-web-deploy/internal/application/service"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/request"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer account HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create handles adding an account customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Code:        req.Code,
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created", customer)
}

// List handles listing all customers
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customers retrieved", customers)
}

// Get handles retrieving a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved", customer)
}

// Entries handles listing a customer's account ledger entries
func (h *CustomerHandler) Entries(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer id")
		return
	}

	entries, err := h.customerService.ListEntries(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account entries retrieved", entries)
}
