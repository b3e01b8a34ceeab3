// Package catalog holds the amenity and service types rooms and bookings refer to.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotelbooking/service-booking/internal/platform/apperror"
)

// Kind distinguishes the two catalogs.
type Kind string

const (
	KindAmenity Kind = "amenity"
	KindService Kind = "service"
)

// Resource returns the name used in error messages.
func (k Kind) Resource() string {
	if k == KindService {
		return "Service type"
	}
	return "Amenity type"
}

const (
	maxNameLength        = 100
	maxDescriptionLength = 255
)

// Entry is a named, optionally inactive catalog item.
type Entry struct {
	id          uuid.UUID
	kind        Kind
	name        string
	description string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewEntry creates a catalog entry of kind.
func NewEntry(kind Kind, name, description string, active bool) (*Entry, error) {
	name, description, err := validate(name, description)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Entry{
		id:          uuid.New(),
		kind:        kind,
		name:        name,
		description: description,
		active:      active,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructEntry rebuilds an Entry from persistence data (no validation).
func ReconstructEntry(id uuid.UUID, kind Kind, name, description string, active bool, createdAt, updatedAt time.Time) *Entry {
	return &Entry{
		id:          id,
		kind:        kind,
		name:        name,
		description: description,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func validate(name, description string) (string, string, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return "", "", apperror.NewValidationError("Name cannot be empty")
	}
	if len(name) > maxNameLength {
		return "", "", apperror.NewValidationError("Name must not exceed 100 characters")
	}
	if len(description) > maxDescriptionLength {
		return "", "", apperror.NewValidationError("Description must not exceed 255 characters")
	}
	return name, description, nil
}

func (e *Entry) ID() uuid.UUID        { return e.id }
func (e *Entry) Kind() Kind           { return e.kind }
func (e *Entry) Name() string         { return e.name }
func (e *Entry) Description() string  { return e.description }
func (e *Entry) Active() bool         { return e.active }
func (e *Entry) CreatedAt() time.Time { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time { return e.updatedAt }

// Update replaces the entry's attributes.
func (e *Entry) Update(name, description string, active bool) error {
	name, description, err := validate(name, description)
	if err != nil {
		return err
	}
	e.name = name
	e.description = description
	e.active = active
	e.updatedAt = time.Now().UTC()
	return nil
}

// Repository persists the entries of one Kind.
type Repository interface {
	Kind() Kind
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)

	// FindByName matches case-insensitively and returns nil, nil when absent.
	FindByName(ctx context.Context, name string) (*Entry, error)

	// List returns entries ordered by name, only active ones when activeOnly.
	List(ctx context.Context, activeOnly bool) ([]*Entry, error)

	Save(ctx context.Context, entry *Entry) error
	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
