package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrders returns the store's orders with pagination and an optional
// status filter.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit := pagination(c)
	status := models.OrderStatus(c.Query("status"))

	orders, total, err := h.orderService.List(c.Request.Context(), storeFromContext(c).ID, status, page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Orders retrieved successfully", gin.H{
		"orders": orders,
	}, page, limit, total)
}

// GetOrder returns one order with its items.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.Get(c.Request.Context(), storeFromContext(c).ID, c.Param("orderId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Order retrieved successfully", order)
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order through its lifecycle.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), storeFromContext(c).ID, c.Param("orderId"), models.OrderStatus(req.Status))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Order updated", order)
}
