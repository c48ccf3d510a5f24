package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// BillingHandler handles plan, subscription, payment config, and storefront
// checkout endpoints.
type BillingHandler struct {
	paymentService *service.PaymentService
	userService    service.UserStore
}

// NewBillingHandler constructs a BillingHandler.
func NewBillingHandler(paymentService *service.PaymentService, userService service.UserStore) *BillingHandler {
	return &BillingHandler{paymentService: paymentService, userService: userService}
}

// ListPlans returns the plan catalog.
func (h *BillingHandler) ListPlans(c *gin.Context) {
	utils.Success(c, 200, "Plans retrieved successfully", gin.H{"plans": h.paymentService.ListPlans()})
}

// Subscribe starts a subscription for the store and returns the payment
// redirect for the first charge.
func (h *BillingHandler) Subscribe(c *gin.Context) {
	var in service.SubscribeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	result, err := h.paymentService.Subscribe(c.Request.Context(), storeFromContext(c), user, &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Subscription started", result)
}

// GetSubscription returns the store's subscription.
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	sub, err := h.paymentService.GetSubscription(c.Request.Context(), storeFromContext(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Subscription retrieved successfully", sub)
}

// CancelSubscription marks the store's subscription cancelled.
func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	if err := h.paymentService.CancelSubscription(c.Request.Context(), storeFromContext(c).ID); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Subscription cancelled", nil)
}

// SavePaymentConfig encrypts and stores the store's own gateway credentials.
func (h *BillingHandler) SavePaymentConfig(c *gin.Context) {
	var in service.PaymentConfigInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	pc, err := h.paymentService.SavePaymentConfig(c.Request.Context(), storeFromContext(c).ID, &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Payment configuration saved", pc)
}

// GetPaymentConfig returns the store's payment configuration. Only the
// public key is exposed.
func (h *BillingHandler) GetPaymentConfig(c *gin.Context) {
	pc, err := h.paymentService.GetPaymentConfig(c.Request.Context(), storeFromContext(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Payment configuration retrieved successfully", pc)
}

// Checkout records a pending order and returns the gateway redirect.
func (h *BillingHandler) Checkout(c *gin.Context) {
	var in service.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	result, err := h.paymentService.Checkout(c.Request.Context(), storeFromContext(c), &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Checkout initialized", result)
}

// VerifyCheckout queries the gateway for a transaction's settled status.
func (h *BillingHandler) VerifyCheckout(c *gin.Context) {
	verification, err := h.paymentService.VerifyCheckout(c.Request.Context(), storeFromContext(c).ID, c.Param("reference"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Verification completed", gin.H{
		"success":  verification.Success,
		"amount":   verification.Amount,
		"currency": verification.Currency,
	})
}
