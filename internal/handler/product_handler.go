package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// ProductHandler handles product endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func pagination(c *gin.Context) (int, int) {
	page := 1
	limit := 50
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit
}

// ListProducts returns the store's products with pagination.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, limit := pagination(c)
	includeArchived := c.Query("archived") == "true"

	products, total, err := h.productService.List(c.Request.Context(), storeFromContext(c).ID, includeArchived, page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, page, limit, total)
}

// GetProduct returns one product aggregate.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), storeFromContext(c).ID, c.Param("productId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", product)
}

// CreateProduct builds and persists a product aggregate.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	product, err := h.productService.Create(c.Request.Context(), storeFromContext(c), &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// UpdateProduct rewrites a product aggregate.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	product, err := h.productService.Update(c.Request.Context(), storeFromContext(c), c.Param("productId"), &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Product updated", product)
}

// DeleteProduct removes a product and its owned children.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), storeFromContext(c).ID, c.Param("productId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Product deleted", nil)
}
