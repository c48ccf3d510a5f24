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

// BillboardService manages promotional billboards.
type BillboardService struct {
	billboards *repository.BillboardRepository
}

// NewBillboardService constructs a BillboardService.
func NewBillboardService(billboards *repository.BillboardRepository) *BillboardService {
	return &BillboardService{billboards: billboards}
}

// BillboardInput carries the billboard payload.
type BillboardInput struct {
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl"`
}

func (in *BillboardInput) validate() error {
	if strings.TrimSpace(in.Label) == "" {
		return fmt.Errorf("%w: label is required", utils.ErrValidation)
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		return fmt.Errorf("%w: image URL is required", utils.ErrValidation)
	}
	return nil
}

// Create persists a billboard.
func (s *BillboardService) Create(ctx context.Context, storeID string, in *BillboardInput) (*models.Billboard, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := &models.Billboard{
		ID:       uuid.New().String(),
		StoreID:  storeID,
		Label:    in.Label,
		ImageURL: in.ImageURL,
	}
	if err := s.billboards.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update rewrites a billboard's label and image.
func (s *BillboardService) Update(ctx context.Context, storeID, id string, in *BillboardInput) (*models.Billboard, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b, err := s.billboards.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	b.Label = in.Label
	b.ImageURL = in.ImageURL
	if err := s.billboards.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the store's billboards.
func (s *BillboardService) List(ctx context.Context, storeID string) ([]models.Billboard, error) {
	return s.billboards.List(ctx, storeID)
}

// Get returns a billboard.
func (s *BillboardService) Get(ctx context.Context, storeID, id string) (*models.Billboard, error) {
	return s.billboards.GetByID(ctx, storeID, id)
}

// Delete removes a billboard. Categories referencing it fall back to no
// billboard via the nullable foreign key.
func (s *BillboardService) Delete(ctx context.Context, storeID, id string) error {
	return s.billboards.Delete(ctx, storeID, id)
}
