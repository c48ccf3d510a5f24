package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// WebhookHandler receives payment gateway event deliveries.
type WebhookHandler struct {
	paymentService *service.PaymentService
	webhookSecret  string
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(paymentService *service.PaymentService, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService, webhookSecret: webhookSecret}
}

// HandlePaystack verifies and applies a Paystack webhook delivery. The
// signature covers the raw body, so the body is read before any binding.
func (h *WebhookHandler) HandlePaystack(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Unable to read request body")
		return
	}
	signature := c.GetHeader("x-paystack-signature")

	if err := h.paymentService.HandleWebhook(c.Request.Context(), body, signature, h.webhookSecret); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Webhook processed", nil)
}
