package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// CustomerHandler handles customer endpoints.
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// ListCustomers returns the store's customers with pagination and optional
// name/email search.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	page, limit := pagination(c)
	search := c.Query("search")

	customers, total, err := h.customerService.List(c.Request.Context(), storeFromContext(c).ID, search, page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Customers retrieved successfully", gin.H{
		"customers": customers,
	}, page, limit, total)
}

// GetCustomer returns one customer.
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.Get(c.Request.Context(), storeFromContext(c).ID, c.Param("customerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Customer retrieved successfully", customer)
}
