package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

type fakeResolver struct {
	cnames map[string]string
}

func (f *fakeResolver) LookupCNAME(_ context.Context, host string) (string, error) {
	cname, ok := f.cnames[host]
	if !ok {
		return "", errors.New("no such host")
	}
	return cname, nil
}

type fakeDomainStore struct {
	domains map[string]*models.StoreDomain
}

func newFakeDomainStore() *fakeDomainStore {
	return &fakeDomainStore{domains: make(map[string]*models.StoreDomain)}
}

func (f *fakeDomainStore) List(_ context.Context, storeID string) ([]models.StoreDomain, error) {
	var out []models.StoreDomain
	for _, d := range f.domains {
		if d.StoreID == storeID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDomainStore) GetByID(_ context.Context, storeID, id string) (*models.StoreDomain, error) {
	d, ok := f.domains[id]
	if !ok || d.StoreID != storeID {
		return nil, utils.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDomainStore) Create(_ context.Context, d *models.StoreDomain) error {
	f.domains[d.ID] = d
	return nil
}

func (f *fakeDomainStore) UpdateStatus(_ context.Context, storeID, id string, status models.DomainStatus) error {
	d, ok := f.domains[id]
	if !ok || d.StoreID != storeID {
		return utils.ErrNotFound
	}
	d.Status = status
	return nil
}

func (f *fakeDomainStore) Delete(_ context.Context, storeID, id string) error {
	delete(f.domains, id)
	return nil
}

func newTestDomainService(resolver Resolver) (*DomainService, *fakeDomainStore) {
	store := newFakeDomainStore()
	svc := NewDomainService(store, resolver, "storefronts.app", zerolog.Nop())
	return svc, store
}

func TestDomainRegisterCreatesPendingWithInstructions(t *testing.T) {
	svc, store := newTestDomainService(&fakeResolver{})

	reg, err := svc.Register(context.Background(), "store-1", "  Example.COM ")
	require.NoError(t, err)

	assert.Equal(t, "example.com", reg.Domain.Domain)
	assert.Equal(t, models.DomainPending, reg.Domain.Status)
	assert.Equal(t, "www.example.com", reg.Instructions.RecordName)
	assert.Equal(t, "CNAME", reg.Instructions.RecordType)
	assert.Equal(t, "store-1.storefronts.app", reg.Instructions.Target)
	assert.Len(t, store.domains, 1)
}

func TestDomainRegisterRejectsInvalidNames(t *testing.T) {
	svc, _ := newTestDomainService(&fakeResolver{})

	for _, domain := range []string{"", "no-tld", "-leading.com", "trailing-.com", "spaces in.com", "example.c"} {
		_, err := svc.Register(context.Background(), "store-1", domain)
		assert.ErrorIs(t, err, utils.ErrInvalidDomain, "domain %q", domain)
	}
}

func TestDomainRegisterIsIdempotent(t *testing.T) {
	svc, store := newTestDomainService(&fakeResolver{})

	first, err := svc.Register(context.Background(), "store-1", "example.com")
	require.NoError(t, err)
	second, err := svc.Register(context.Background(), "store-1", "example.com")
	require.NoError(t, err)

	assert.Equal(t, first.Domain.ID, second.Domain.ID)
	assert.Len(t, store.domains, 1)
}

func TestDomainRegisterResetsFailedToPending(t *testing.T) {
	svc, store := newTestDomainService(&fakeResolver{})

	reg, err := svc.Register(context.Background(), "store-1", "example.com")
	require.NoError(t, err)
	store.domains[reg.Domain.ID].Status = models.DomainFailed

	again, err := svc.Register(context.Background(), "store-1", "example.com")
	require.NoError(t, err)
	assert.Equal(t, models.DomainPending, again.Domain.Status)
	assert.Equal(t, models.DomainPending, store.domains[reg.Domain.ID].Status)
}

func TestDomainVerifyMatchingCNAME(t *testing.T) {
	resolver := &fakeResolver{cnames: map[string]string{
		// Trailing dot as returned by DNS.
		"www.example.com": "store-1.storefronts.app.",
	}}
	svc, store := newTestDomainService(resolver)

	reg, err := svc.Register(context.Background(), "store-1", "example.com")
	require.NoError(t, err)

	verified, err := svc.Verify(context.Background(), "store-1", reg.Domain.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DomainVerified, verified.Status)
	assert.Equal(t, models.DomainVerified, store.domains[reg.Domain.ID].Status)
}

func TestDomainVerifyWrongTarget(t *testing.T) {
	resolver := &fakeResolver{cnames: map[string]string{
		"www.example.com": "other-store.storefronts.app.",
	}}
	svc, _ := newTestDomainService(resolver)

	reg, err := svc.Register(context.Background(), "store-1", "example.com")
	require.NoError(t, err)

	verified, err := svc.Verify(context.Background(), "store-1", reg.Domain.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DomainFailed, verified.Status)
}

func TestDomainVerifyLookupErrorCountsAsFailed(t *testing.T) {
	svc, _ := newTestDomainService(&fakeResolver{})

	reg, err := svc.Register(context.Background(), "store-1", "example.com")
	require.NoError(t, err)

	verified, err := svc.Verify(context.Background(), "store-1", reg.Domain.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DomainFailed, verified.Status)
}

func TestDomainVerifyUnknownDomain(t *testing.T) {
	svc, _ := newTestDomainService(&fakeResolver{})

	_, err := svc.Verify(context.Background(), "store-1", "missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
