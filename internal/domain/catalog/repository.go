package catalog

import (
	"context"

	"github.com/google/uuid"
)

// PackageRepository defines persistence operations for rental packages.
type PackageRepository interface {
	// FindByID returns the package with its gear items.
	FindByID(ctx context.Context, id uuid.UUID) (*Package, error)

	// List returns all packages ordered by daily rate, without items.
	List(ctx context.Context) ([]*Package, error)

	Save(ctx context.Context, pkg *Package) error
	Update(ctx context.Context, pkg *Package) error

	// Delete removes a package. Packages referenced by bookings cannot be
	// deleted and yield a conflict error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// GearRepository defines read access to the gear catalog.
type GearRepository interface {
	// List returns all gear ordered by category, then name.
	List(ctx context.Context) ([]Gear, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Gear, error)
	Save(ctx context.Context, gear Gear) error
}
