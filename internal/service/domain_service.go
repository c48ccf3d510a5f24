package service

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

// Resolver performs the DNS lookup domain verification depends on. The
// concrete implementation is net.Resolver; tests substitute a fake.
type Resolver interface {
	LookupCNAME(ctx context.Context, host string) (string, error)
}

// DomainStore is the persistence surface for custom domains.
type DomainStore interface {
	List(ctx context.Context, storeID string) ([]models.StoreDomain, error)
	GetByID(ctx context.Context, storeID, id string) (*models.StoreDomain, error)
	Create(ctx context.Context, d *models.StoreDomain) error
	UpdateStatus(ctx context.Context, storeID, id string, status models.DomainStatus) error
	Delete(ctx context.Context, storeID, id string) error
}

// domainPattern accepts standard DNS labels with a TLD of at least two
// letters. Registrations are apex domains; verification probes the www host.
var domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// DomainService registers custom store domains and verifies their CNAME
// records against the per-store target.
type DomainService struct {
	domains     DomainStore
	resolver    Resolver
	cnameTarget string
	logger      zerolog.Logger
}

// NewDomainService constructs a DomainService. cnameTarget is the platform
// suffix domains must point to, e.g. "storefronts.app".
func NewDomainService(domains DomainStore, resolver Resolver, cnameTarget string, logger zerolog.Logger) *DomainService {
	return &DomainService{
		domains:     domains,
		resolver:    resolver,
		cnameTarget: cnameTarget,
		logger:      logger.With().Str("component", "domain_service").Logger(),
	}
}

// expectedTarget is the CNAME value a store's domains must resolve to.
func (s *DomainService) expectedTarget(storeID string) string {
	return storeID + "." + s.cnameTarget
}

// instructions builds the DNS record the store owner has to create.
func (s *DomainService) instructions(domain, storeID string) *models.CNAMEInstructions {
	return &models.CNAMEInstructions{
		RecordName: "www." + domain,
		RecordType: "CNAME",
		Target:     s.expectedTarget(storeID),
	}
}

// DomainRegistration pairs a persisted domain with its setup instructions.
type DomainRegistration struct {
	Domain       *models.StoreDomain       `json:"domain"`
	Instructions *models.CNAMEInstructions `json:"instructions"`
}

// Register validates and persists a custom domain in pending status and
// returns the CNAME record the owner must create. Re-submitting a domain the
// store already registered resets a failed record to pending instead of
// conflicting.
func (s *DomainService) Register(ctx context.Context, storeID, domain string) (*DomainRegistration, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !domainPattern.MatchString(domain) {
		return nil, fmt.Errorf("%w: %q is not a valid domain", utils.ErrInvalidDomain, domain)
	}

	existing, err := s.findByName(ctx, storeID, domain)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.DomainFailed {
			if err := s.domains.UpdateStatus(ctx, storeID, existing.ID, models.DomainPending); err != nil {
				return nil, err
			}
			existing.Status = models.DomainPending
		}
		return &DomainRegistration{Domain: existing, Instructions: s.instructions(domain, storeID)}, nil
	}

	d := &models.StoreDomain{
		ID:      uuid.New().String(),
		StoreID: storeID,
		Domain:  domain,
		Status:  models.DomainPending,
	}
	if err := s.domains.Create(ctx, d); err != nil {
		return nil, err
	}
	return &DomainRegistration{Domain: d, Instructions: s.instructions(domain, storeID)}, nil
}

func (s *DomainService) findByName(ctx context.Context, storeID, domain string) (*models.StoreDomain, error) {
	domains, err := s.domains.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	for i := range domains {
		if domains[i].Domain == domain {
			return &domains[i], nil
		}
	}
	return nil, nil
}

// List returns the store's domains with their setup instructions.
func (s *DomainService) List(ctx context.Context, storeID string) ([]DomainRegistration, error) {
	domains, err := s.domains.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]DomainRegistration, len(domains))
	for i := range domains {
		out[i] = DomainRegistration{
			Domain:       &domains[i],
			Instructions: s.instructions(domains[i].Domain, storeID),
		}
	}
	return out, nil
}

// Verify resolves the CNAME of www.<domain> and transitions the record to
// verified on an exact target match, failed otherwise. A lookup error counts
// as failed: from the owner's perspective the record is not set up yet.
func (s *DomainService) Verify(ctx context.Context, storeID, id string) (*models.StoreDomain, error) {
	d, err := s.domains.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	status := models.DomainFailed
	cname, err := s.resolver.LookupCNAME(ctx, "www."+d.Domain)
	if err != nil {
		s.logger.Info().Err(err).Str("domain", d.Domain).Msg("CNAME lookup failed")
	} else if strings.TrimSuffix(cname, ".") == s.expectedTarget(storeID) {
		status = models.DomainVerified
	}

	if err := s.domains.UpdateStatus(ctx, storeID, id, status); err != nil {
		return nil, err
	}
	d.Status = status
	return d, nil
}

// Delete removes a domain registration.
func (s *DomainService) Delete(ctx context.Context, storeID, id string) error {
	return s.domains.Delete(ctx, storeID, id)
}

// NetResolver adapts net.Resolver to the Resolver interface.
func NetResolver() Resolver {
	return net.DefaultResolver
}
