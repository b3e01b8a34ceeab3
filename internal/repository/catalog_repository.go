package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelbooking/service-booking/internal/domain/catalog"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// CatalogModel is the GORM model shared by the amenity_types and
// service_types tables.
type CatalogModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null;size:100"`
	Description string    `gorm:"size:255"`
	IsActive    bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// GormCatalogRepository stores one catalog kind in its own table.
type GormCatalogRepository struct {
	db    *gorm.DB
	kind  catalog.Kind
	table string
}

// NewGormAmenityTypeRepository creates the repository for amenity types.
func NewGormAmenityTypeRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db, kind: catalog.KindAmenity, table: "amenity_types"}
}

// NewGormServiceTypeRepository creates the repository for service types.
func NewGormServiceTypeRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db, kind: catalog.KindService, table: "service_types"}
}

// Kind returns the catalog kind this repository stores.
func (r *GormCatalogRepository) Kind() catalog.Kind {
	return r.kind
}

func (r *GormCatalogRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

// FindByID retrieves an entry by its unique identifier.
func (r *GormCatalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Entry, error) {
	var model CatalogModel
	if err := r.scoped(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, r.kind.Resource(), id.String(), "find "+r.table+" by ID")
	}
	return r.toDomain(&model), nil
}

// FindByName retrieves an entry by case-insensitive name, or nil when none exists.
func (r *GormCatalogRepository) FindByName(ctx context.Context, name string) (*catalog.Entry, error) {
	var model CatalogModel
	err := r.scoped(ctx).Where("LOWER(name) = LOWER(?)", name).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "find "+r.table+" by name")
	}
	return r.toDomain(&model), nil
}

// List retrieves entries ordered by name.
func (r *GormCatalogRepository) List(ctx context.Context, activeOnly bool) ([]*catalog.Entry, error) {
	query := r.scoped(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var models []CatalogModel
	if err := query.Order("name ASC").Find(&models).Error; err != nil {
		return nil, translateError(err, "list "+r.table)
	}

	entries := make([]*catalog.Entry, len(models))
	for i := range models {
		entries[i] = r.toDomain(&models[i])
	}
	return entries, nil
}

// Save persists a new entry.
func (r *GormCatalogRepository) Save(ctx context.Context, e *catalog.Entry) error {
	model := toCatalogModel(e)
	return translateError(r.scoped(ctx).Create(&model).Error, "save "+r.table)
}

// Update persists changes to an existing entry.
func (r *GormCatalogRepository) Update(ctx context.Context, e *catalog.Entry) error {
	result := r.scoped(ctx).
		Where("id = ?", e.ID()).
		Updates(map[string]interface{}{
			"name":        e.Name(),
			"description": e.Description(),
			"is_active":   e.Active(),
			"updated_at":  e.UpdatedAt(),
		})
	if result.Error != nil {
		return translateError(result.Error, "update "+r.table)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError(r.kind.Resource(), e.ID().String())
	}
	return nil
}

// Delete removes an entry. Entries referenced by rooms or service requests are
// rejected by their foreign keys.
func (r *GormCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.scoped(ctx).Where("id = ?", id).Delete(&CatalogModel{})
	if result.Error != nil {
		return translateError(result.Error, "delete "+r.table)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError(r.kind.Resource(), id.String())
	}
	return nil
}

func toCatalogModel(e *catalog.Entry) CatalogModel {
	return CatalogModel{
		ID:          e.ID(),
		Name:        e.Name(),
		Description: e.Description(),
		IsActive:    e.Active(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	}
}

func (r *GormCatalogRepository) toDomain(m *CatalogModel) *catalog.Entry {
	return catalog.ReconstructEntry(m.ID, r.kind, m.Name, m.Description, m.IsActive, m.CreatedAt, m.UpdatedAt)
}
