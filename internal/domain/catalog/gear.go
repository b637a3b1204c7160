package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

// Gear is a single piece of equipment that packages are assembled from.
type Gear struct {
	id        uuid.UUID
	name      string
	category  string
	details   string
	createdAt time.Time
}

// NewGear creates a gear item.
func NewGear(name, category, details string) (Gear, error) {
	if name == "" {
		return Gear{}, domain.NewValidationError("gear name is required")
	}
	if category == "" {
		return Gear{}, domain.NewValidationError("gear category is required")
	}
	return Gear{
		id:        uuid.New(),
		name:      name,
		category:  category,
		details:   details,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructGear rebuilds a Gear from persistence.
func ReconstructGear(id uuid.UUID, name, category, details string, createdAt time.Time) Gear {
	return Gear{id: id, name: name, category: category, details: details, createdAt: createdAt}
}

// Getters.
func (g Gear) ID() uuid.UUID        { return g.id }
func (g Gear) Name() string         { return g.name }
func (g Gear) Category() string     { return g.category }
func (g Gear) Details() string      { return g.details }
func (g Gear) CreatedAt() time.Time { return g.createdAt }
