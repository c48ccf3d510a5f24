package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// BillboardHandler handles billboard endpoints.
type BillboardHandler struct {
	billboardService *service.BillboardService
}

// NewBillboardHandler constructs a BillboardHandler.
func NewBillboardHandler(billboardService *service.BillboardService) *BillboardHandler {
	return &BillboardHandler{billboardService: billboardService}
}

// ListBillboards returns the store's billboards.
func (h *BillboardHandler) ListBillboards(c *gin.Context) {
	billboards, err := h.billboardService.List(c.Request.Context(), storeFromContext(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Billboards retrieved successfully", gin.H{"billboards": billboards})
}

// GetBillboard returns one billboard.
func (h *BillboardHandler) GetBillboard(c *gin.Context) {
	billboard, err := h.billboardService.Get(c.Request.Context(), storeFromContext(c).ID, c.Param("billboardId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Billboard retrieved successfully", billboard)
}

// CreateBillboard persists a billboard.
func (h *BillboardHandler) CreateBillboard(c *gin.Context) {
	var in service.BillboardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	billboard, err := h.billboardService.Create(c.Request.Context(), storeFromContext(c).ID, &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Billboard created", billboard)
}

// UpdateBillboard rewrites a billboard.
func (h *BillboardHandler) UpdateBillboard(c *gin.Context) {
	var in service.BillboardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	billboard, err := h.billboardService.Update(c.Request.Context(), storeFromContext(c).ID, c.Param("billboardId"), &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Billboard updated", billboard)
}

// DeleteBillboard removes a billboard.
func (h *BillboardHandler) DeleteBillboard(c *gin.Context) {
	if err := h.billboardService.Delete(c.Request.Context(), storeFromContext(c).ID, c.Param("billboardId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Billboard deleted", nil)
}
