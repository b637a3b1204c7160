package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

// PackageItem is one line of gear included in a package.
type PackageItem struct {
	Gear  Gear
	Qty   int
	Notes string
}

// Package is a rentable bundle of equipment with a daily rate and a finite
// number of identical units in stock.
type Package struct {
	id          uuid.UUID
	name        string
	description string
	dailyRate   money.Money
	stock       int
	items       []PackageItem
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPackage creates a package with validated fields.
func NewPackage(name, description string, dailyRate money.Money, stock int, items []PackageItem) (*Package, error) {
	if name == "" {
		return nil, domain.NewValidationError("package name is required")
	}
	if dailyRate.IsNegative() {
		return nil, domain.NewValidationError("daily rate cannot be negative")
	}
	if stock <= 0 {
		return nil, domain.NewValidationError("stock must be positive")
	}
	for _, it := range items {
		if it.Qty <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("item quantity must be positive for gear %s", it.Gear.ID()))
		}
	}

	now := time.Now().UTC()
	return &Package{
		id:          uuid.New(),
		name:        name,
		description: description,
		dailyRate:   dailyRate,
		stock:       stock,
		items:       items,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructPackage rebuilds a Package from persistence data (no validation).
func ReconstructPackage(
	id uuid.UUID,
	name, description string,
	dailyRate money.Money,
	stock int,
	items []PackageItem,
	version int64,
	createdAt, updatedAt time.Time,
) *Package {
	return &Package{
		id:          id,
		name:        name,
		description: description,
		dailyRate:   dailyRate,
		stock:       stock,
		items:       items,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Clone returns a copy that shares no item storage with p.
func (p *Package) Clone() *Package {
	c := *p
	if p.items != nil {
		c.items = append([]PackageItem(nil), p.items...)
	}
	return &c
}

func (p *Package) ID() uuid.UUID          { return p.id }
func (p *Package) Name() string           { return p.name }
func (p *Package) Description() string    { return p.description }
func (p *Package) DailyRate() money.Money { return p.dailyRate }
func (p *Package) Stock() int             { return p.stock }
func (p *Package) Items() []PackageItem   { return p.items }
func (p *Package) Version() int64         { return p.version }
func (p *Package) CreatedAt() time.Time   { return p.createdAt }
func (p *Package) UpdatedAt() time.Time   { return p.updatedAt }

// PackageUpdate lists optional changes; nil fields are left untouched.
type PackageUpdate struct {
	Name        *string
	Description *string
	DailyRate   *money.Money
	Stock       *int
}

// Update applies a partial update and bumps the version.
func (p *Package) Update(u PackageUpdate) error {
	if u.Name != nil && *u.Name == "" {
		return domain.NewValidationError("package name cannot be empty")
	}
	if u.DailyRate != nil && u.DailyRate.IsNegative() {
		return domain.NewValidationError("daily rate cannot be negative")
	}
	if u.Stock != nil && *u.Stock <= 0 {
		return domain.NewValidationError("stock must be positive")
	}

	if u.Name != nil {
		p.name = *u.Name
	}
	if u.Description != nil {
		p.description = *u.Description
	}
	if u.DailyRate != nil {
		p.dailyRate = *u.DailyRate
	}
	if u.Stock != nil {
		p.stock = *u.Stock
	}
	p.version++
	p.updatedAt = time.Now().UTC()
	return nil
}
