package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/repository"
	"github.com/storelane/storelane-api/internal/utils"
)

// CategoryService manages product categories. Handles follow the same
// slug-plus-suffix scheme as products, unique per store.
type CategoryService struct {
	categories *repository.CategoryRepository
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryInput carries the category payload.
type CategoryInput struct {
	Name        string  `json:"name"`
	BillboardID *string `json:"billboardId,omitempty"`
}

// Create persists a category with a generated handle.
func (s *CategoryService) Create(ctx context.Context, storeID string, in *CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrValidation)
	}
	handle, err := s.generateHandle(ctx, storeID, in.Name, "")
	if err != nil {
		return nil, err
	}
	c := &models.Category{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		Name:        in.Name,
		Handle:      handle,
		BillboardID: in.BillboardID,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update renames a category, regenerating the handle only on a name change.
func (s *CategoryService) Update(ctx context.Context, storeID, id string, in *CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrValidation)
	}
	c, err := s.categories.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if c.Name != in.Name {
		if c.Handle, err = s.generateHandle(ctx, storeID, in.Name, id); err != nil {
			return nil, err
		}
	}
	c.Name = in.Name
	c.BillboardID = in.BillboardID
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) generateHandle(ctx context.Context, storeID, name, excludeID string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		return "", fmt.Errorf("%w: name yields an empty handle", utils.ErrValidation)
	}
	candidate := base
	for suffix := 1; ; suffix++ {
		exists, err := s.categories.HandleExists(ctx, storeID, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// List returns the store's categories with product counts.
func (s *CategoryService) List(ctx context.Context, storeID string) ([]models.Category, error) {
	return s.categories.List(ctx, storeID)
}

// Get returns a category.
func (s *CategoryService) Get(ctx context.Context, storeID, id string) (*models.Category, error) {
	return s.categories.GetByID(ctx, storeID, id)
}

// Delete removes a category. Product links are dropped by cascade; products
// themselves are untouched.
func (s *CategoryService) Delete(ctx context.Context, storeID, id string) error {
	return s.categories.Delete(ctx, storeID, id)
}
