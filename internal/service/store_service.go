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

// StoreService manages stores and team membership.
type StoreService struct {
	stores *repository.StoreRepository
}

// NewStoreService constructs a StoreService.
func NewStoreService(stores *repository.StoreRepository) *StoreService {
	return &StoreService{stores: stores}
}

// StoreInput carries the store creation/update payload.
type StoreInput struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func (in *StoreInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", utils.ErrValidation)
	}
	if len(in.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", utils.ErrValidation)
	}
	return nil
}

// Create creates a store owned by the user. The owner membership row is
// written in the same transaction.
func (s *StoreService) Create(ctx context.Context, ownerID string, in *StoreInput) (*models.Store, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	store := &models.Store{
		ID:       uuid.New().String(),
		Name:     in.Name,
		Currency: strings.ToUpper(in.Currency),
		OwnerID:  ownerID,
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// Get returns a store.
func (s *StoreService) Get(ctx context.Context, id string) (*models.Store, error) {
	return s.stores.GetByID(ctx, id)
}

// ListForUser returns the stores the user belongs to.
func (s *StoreService) ListForUser(ctx context.Context, userID string) ([]models.Store, error) {
	return s.stores.ListForUser(ctx, userID)
}

// Update renames a store or changes its currency.
func (s *StoreService) Update(ctx context.Context, id string, in *StoreInput) (*models.Store, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store.Name = in.Name
	store.Currency = strings.ToUpper(in.Currency)
	if err := s.stores.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// Delete removes a store and, by cascade, everything it owns. Only the owner
// may delete.
func (s *StoreService) Delete(ctx context.Context, id, callerID string) error {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if store.OwnerID != callerID {
		return utils.ErrForbidden
	}
	return s.stores.Delete(ctx, id)
}

// Member resolves the caller's membership in a store.
func (s *StoreService) Member(ctx context.Context, storeID, userID string) (*models.StoreMember, error) {
	return s.stores.GetMember(ctx, storeID, userID)
}

// ListMembers returns the store's team.
func (s *StoreService) ListMembers(ctx context.Context, storeID string) ([]models.StoreMember, error) {
	return s.stores.ListMembers(ctx, storeID)
}

// RemoveMember drops a member from the store. The owner cannot be removed.
func (s *StoreService) RemoveMember(ctx context.Context, storeID, userID string) error {
	return s.stores.RemoveMember(ctx, storeID, userID)
}
