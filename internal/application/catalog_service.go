package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/catalog"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

// PackageItemRequest references a gear item to include in a package.
type PackageItemRequest struct {
	GearID uuid.UUID `json:"gear_id" binding:"required"`
	Qty    int       `json:"qty" binding:"required,min=1"`
	Notes  string    `json:"notes"`
}

// CreatePackageRequest is the request DTO for creating a package.
type CreatePackageRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	DailyRate   string               `json:"daily_rate" binding:"required"`
	Stock       int                  `json:"stock" binding:"required,min=1"`
	Items       []PackageItemRequest `json:"items"`
}

// UpdatePackageRequest is the request DTO for a partial package update.
// Omitted fields are left unchanged.
type UpdatePackageRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DailyRate   *string `json:"daily_rate"`
	Stock       *int    `json:"stock"`
}

// GearDTO is the API response representation of a gear item.
type GearDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Details  string    `json:"details,omitempty"`
}

// PackageItemDTO is one gear line of a package.
type PackageItemDTO struct {
	Gear  GearDTO `json:"gear"`
	Qty   int     `json:"qty"`
	Notes string  `json:"notes,omitempty"`
}

// PackageDTO is the API response representation of a package.
type PackageDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	DailyRate   string           `json:"daily_rate"`
	Currency    string           `json:"currency"`
	Stock       int              `json:"stock"`
	Items       []PackageItemDTO `json:"items,omitempty"`
	Version     int64            `json:"version"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CatalogService implements package and gear browsing plus package
// administration.
type CatalogService struct {
	packages catalog.PackageRepository
	gear     catalog.GearRepository
	currency string
	logger   *zap.Logger
}

// NewCatalogService creates a new CatalogService. Rates given as strings
// are parsed in currency.
func NewCatalogService(
	packages catalog.PackageRepository,
	gear catalog.GearRepository,
	currency string,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{packages: packages, gear: gear, currency: currency, logger: logger}
}

// ListPackages returns every package, cheapest first.
func (s *CatalogService) ListPackages(ctx context.Context) ([]PackageDTO, error) {
	pkgs, err := s.packages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	dtos := make([]PackageDTO, len(pkgs))
	for i, p := range pkgs {
		dtos[i] = toPackageDTO(p)
	}
	return dtos, nil
}

// GetPackage returns a package with its gear contents.
func (s *CatalogService) GetPackage(ctx context.Context, id uuid.UUID) (*PackageDTO, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toPackageDTO(pkg)
	return &result, nil
}

// ListGear returns all gear ordered by category, then name.
func (s *CatalogService) ListGear(ctx context.Context) ([]GearDTO, error) {
	items, err := s.gear.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list gear: %w", err)
	}
	dtos := make([]GearDTO, len(items))
	for i, g := range items {
		dtos[i] = toGearDTO(g)
	}
	return dtos, nil
}

// CreatePackage adds a package to the catalog (admin).
func (s *CatalogService) CreatePackage(ctx context.Context, req CreatePackageRequest) (*PackageDTO, error) {
	rate, err := s.parseRate(req.DailyRate)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	pkg, err := catalog.NewPackage(req.Name, req.Description, rate, req.Stock, items)
	if err != nil {
		return nil, err
	}

	if err := s.packages.Save(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to save package: %w", err)
	}

	s.logger.Info("package created",
		zap.String("package_id", pkg.ID().String()),
		zap.String("name", pkg.Name()),
		zap.Int("stock", pkg.Stock()),
	)

	result := toPackageDTO(pkg)
	return &result, nil
}

// UpdatePackage applies a partial update (admin). Lowering stock does not
// touch existing bookings.
func (s *CatalogService) UpdatePackage(ctx context.Context, id uuid.UUID, req UpdatePackageRequest) (*PackageDTO, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := catalog.PackageUpdate{
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
	}
	if req.DailyRate != nil {
		rate, err := s.parseRate(*req.DailyRate)
		if err != nil {
			return nil, err
		}
		update.DailyRate = &rate
	}

	if err := pkg.Update(update); err != nil {
		return nil, err
	}
	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, err
	}

	s.logger.Info("package updated", zap.String("package_id", pkg.ID().String()))

	result := toPackageDTO(pkg)
	return &result, nil
}

// DeletePackage removes a package that no booking references (admin).
func (s *CatalogService) DeletePackage(ctx context.Context, id uuid.UUID) error {
	if err := s.packages.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("package deleted", zap.String("package_id", id.String()))
	return nil
}

func (s *CatalogService) parseRate(raw string) (money.Money, error) {
	rate, err := money.Parse(raw, s.currency)
	if err != nil {
		return money.Money{}, domain.NewValidationError(fmt.Sprintf("invalid daily rate: %v", err))
	}
	return rate, nil
}

func (s *CatalogService) resolveItems(ctx context.Context, reqs []PackageItemRequest) ([]catalog.PackageItem, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(reqs))
	for i, r := range reqs {
		ids[i] = r.GearID
	}
	found, err := s.gear.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load gear: %w", err)
	}
	byID := make(map[uuid.UUID]catalog.Gear, len(found))
	for _, g := range found {
		byID[g.ID()] = g
	}

	items := make([]catalog.PackageItem, len(reqs))
	for i, r := range reqs {
		g, ok := byID[r.GearID]
		if !ok {
			return nil, domain.NewNotFoundError("Gear", r.GearID.String())
		}
		items[i] = catalog.PackageItem{Gear: g, Qty: r.Qty, Notes: r.Notes}
	}
	return items, nil
}

func toGearDTO(g catalog.Gear) GearDTO {
	return GearDTO{
		ID:       g.ID(),
		Name:     g.Name(),
		Category: g.Category(),
		Details:  g.Details(),
	}
}

func toPackageDTO(p *catalog.Package) PackageDTO {
	items := make([]PackageItemDTO, len(p.Items()))
	for i, it := range p.Items() {
		items[i] = PackageItemDTO{Gear: toGearDTO(it.Gear), Qty: it.Qty, Notes: it.Notes}
	}
	return PackageDTO{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		DailyRate:   p.DailyRate().String(),
		Currency:    p.DailyRate().Currency,
		Stock:       p.Stock(),
		Items:       items,
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
