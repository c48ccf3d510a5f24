package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories returns the store's categories with product counts.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context(), storeFromContext(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Categories retrieved successfully", gin.H{"categories": categories})
}

// GetCategory returns one category.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.Get(c.Request.Context(), storeFromContext(c).ID, c.Param("categoryId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Category retrieved successfully", category)
}

// CreateCategory persists a category.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), storeFromContext(c).ID, &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Category created", category)
}

// UpdateCategory rewrites a category.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	category, err := h.categoryService.Update(c.Request.Context(), storeFromContext(c).ID, c.Param("categoryId"), &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Category updated", category)
}

// DeleteCategory removes a category.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), storeFromContext(c).ID, c.Param("categoryId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Category deleted", nil)
}
