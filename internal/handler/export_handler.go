package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// ExportHandler streams CSV exports of catalog data.
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func setCSVHeaders(c *gin.Context, name string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, name))
}

// ExportProducts streams the store's products as CSV.
func (h *ExportHandler) ExportProducts(c *gin.Context) {
	setCSVHeaders(c, "products")
	if err := h.exportService.ExportProducts(c.Request.Context(), storeFromContext(c).ID, c.Writer); err != nil {
		utils.RespondError(c, err)
	}
}

// ExportCategories streams the store's categories as CSV.
func (h *ExportHandler) ExportCategories(c *gin.Context) {
	setCSVHeaders(c, "categories")
	if err := h.exportService.ExportCategories(c.Request.Context(), storeFromContext(c).ID, c.Writer); err != nil {
		utils.RespondError(c, err)
	}
}

// ExportBillboards streams the store's billboards as CSV.
func (h *ExportHandler) ExportBillboards(c *gin.Context) {
	setCSVHeaders(c, "billboards")
	if err := h.exportService.ExportBillboards(c.Request.Context(), storeFromContext(c).ID, c.Writer); err != nil {
		utils.RespondError(c, err)
	}
}
