package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelbooking/service-booking/internal/domain/catalog"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
	"github.com/hotelbooking/service-booking/internal/platform/cache"
)

// CatalogRequest holds the data needed to create or update a catalog entry.
type CatalogRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// CatalogEntryDTO is the response representation of an amenity or service type.
type CatalogEntryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CatalogService manages one catalog: amenity types or service types.
type CatalogService struct {
	repo      catalog.Repository
	namespace string
	cache     cache.Cache
	logger    *zap.Logger
}

// NewCatalogService creates a CatalogService for the repository's kind.
func NewCatalogService(repo catalog.Repository, c cache.Cache, logger *zap.Logger) *CatalogService {
	ns := cache.AmenityTypes
	if repo.Kind() == catalog.KindService {
		ns = cache.ServiceTypes
	}
	return &CatalogService{
		repo:      repo,
		namespace: ns,
		cache:     c,
		logger:    logger.With(zap.String("catalog", string(repo.Kind()))),
	}
}

// List returns entries ordered by name, only active ones when activeOnly.
func (s *CatalogService) List(ctx context.Context, activeOnly bool) ([]CatalogEntryDTO, error) {
	key := "all"
	if activeOnly {
		key = "active"
	}
	return readThrough(ctx, s.cache, s.logger, s.namespace, key, func() ([]CatalogEntryDTO, error) {
		entries, err := s.repo.List(ctx, activeOnly)
		if err != nil {
			return nil, err
		}
		out := make([]CatalogEntryDTO, len(entries))
		for i, e := range entries {
			out[i] = toCatalogEntryDTO(e)
		}
		return out, nil
	})
}

// Get returns an entry by id.
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*CatalogEntryDTO, error) {
	dto, err := readThrough(ctx, s.cache, s.logger, s.namespace, id.String(), func() (CatalogEntryDTO, error) {
		e, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return CatalogEntryDTO{}, err
		}
		return toCatalogEntryDTO(e), nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Create adds an entry. Names are unique within a catalog.
func (s *CatalogService) Create(ctx context.Context, req CatalogRequest) (*CatalogEntryDTO, error) {
	e, err := catalog.NewEntry(s.repo.Kind(), req.Name, req.Description, isActive(req.IsActive))
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, e.Name(), uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}

	s.invalidate(ctx, e.ID())
	s.logger.Info("catalog entry created", zap.String("id", e.ID().String()), zap.String("name", e.Name()))

	dto := toCatalogEntryDTO(e)
	return &dto, nil
}

// Update replaces an entry's attributes.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req CatalogRequest) (*CatalogEntryDTO, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.Name), e.Name()) {
		if err := s.ensureNameFree(ctx, req.Name, id); err != nil {
			return nil, err
		}
	}
	if err := e.Update(req.Name, req.Description, isActive(req.IsActive)); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.logger.Info("catalog entry updated", zap.String("id", id.String()))

	dto := toCatalogEntryDTO(e)
	return &dto, nil
}

// Delete removes an entry. Entries still referenced are rejected by the store.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.logger.Info("catalog entry deleted", zap.String("id", id.String()))
	return nil
}

func (s *CatalogService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if existing != nil && existing.ID() != self {
		return apperror.NewConflictError(fmt.Sprintf("%s with name '%s' already exists.", s.repo.Kind().Resource(), existing.Name()))
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id uuid.UUID) {
	evict(ctx, s.cache, s.logger, s.namespace, id.String())
	evict(ctx, s.cache, s.logger, s.namespace, "all")
	evict(ctx, s.cache, s.logger, s.namespace, "active")
}

func isActive(v *bool) bool {
	return v == nil || *v
}

func toCatalogEntryDTO(e *catalog.Entry) CatalogEntryDTO {
	return CatalogEntryDTO{
		ID:          e.ID(),
		Name:        e.Name(),
		Description: e.Description(),
		IsActive:    e.Active(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	}
}
