package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// DomainHandler handles custom domain endpoints.
type DomainHandler struct {
	domainService *service.DomainService
}

// NewDomainHandler constructs a DomainHandler.
func NewDomainHandler(domainService *service.DomainService) *DomainHandler {
	return &DomainHandler{domainService: domainService}
}

// ListDomains returns the store's domains with setup instructions. The
// dashboard polls this endpoint while DNS propagates.
func (h *DomainHandler) ListDomains(c *gin.Context) {
	domains, err := h.domainService.List(c.Request.Context(), storeFromContext(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Domains retrieved successfully", gin.H{"domains": domains})
}

type registerDomainRequest struct {
	Domain string `json:"domain"`
}

// RegisterDomain registers a custom domain in pending status.
func (h *DomainHandler) RegisterDomain(c *gin.Context) {
	var req registerDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	registration, err := h.domainService.Register(c.Request.Context(), storeFromContext(c).ID, req.Domain)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Domain registered", registration)
}

// VerifyDomain checks the domain's CNAME record and updates its status.
func (h *DomainHandler) VerifyDomain(c *gin.Context) {
	domain, err := h.domainService.Verify(c.Request.Context(), storeFromContext(c).ID, c.Param("domainId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Domain verification completed", domain)
}

// DeleteDomain removes a domain registration.
func (h *DomainHandler) DeleteDomain(c *gin.Context) {
	if err := h.domainService.Delete(c.Request.Context(), storeFromContext(c).ID, c.Param("domainId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Domain deleted", nil)
}
