package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/catalog"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

// PackageModel is the GORM model for the packages table.
type PackageModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"type:varchar(200);not null"`
	Description    string    `gorm:"type:text"`
	DailyRateCents int64     `gorm:"not null"`
	Currency       string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Stock          int       `gorm:"not null"`
	Version        int64     `gorm:"not null;default:1"`
	CreatedAt      time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt      time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

func (PackageModel) TableName() string { return "packages" }

// PackageGearModel is the GORM model for the package_gear junction table.
type PackageGearModel struct {
	PackageID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GearID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Qty       int       `gorm:"not null"`
	Notes     string    `gorm:"type:text"`
}

func (PackageGearModel) TableName() string { return "package_gear" }

// GormPackageRepository implements catalog.PackageRepository using GORM.
type GormPackageRepository struct {
	db *gorm.DB
}

func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// FindByID loads a package together with its gear lines.
func (r *GormPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Package, error) {
	var model PackageModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Package", id.String())
		}
		return nil, storageError("find package", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPackageDomain(&model, items)
}

func (r *GormPackageRepository) List(ctx context.Context) ([]*catalog.Package, error) {
	var models []PackageModel
	if err := conn(ctx, r.db).Order("daily_rate_cents ASC, name ASC").Find(&models).Error; err != nil {
		return nil, storageError("list packages", err)
	}

	pkgs := make([]*catalog.Package, len(models))
	for i := range models {
		p, err := toPackageDomain(&models[i], nil)
		if err != nil {
			return nil, err
		}
		pkgs[i] = p
	}
	return pkgs, nil
}

// Save inserts the package and its gear lines in one transaction.
func (r *GormPackageRepository) Save(ctx context.Context, pkg *catalog.Package) error {
	model := toPackageModel(pkg)
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		for _, it := range pkg.Items() {
			line := PackageGearModel{PackageID: pkg.ID(), GearID: it.Gear.ID(), Qty: it.Qty, Notes: it.Notes}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return domain.NewConflictError("package already exists")
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return domain.NewValidationError("package references unknown gear")
		}
		return storageError("save package", err)
	}
	return nil
}

// Update writes the scalar fields with optimistic locking. Gear lines are
// not changed.
func (r *GormPackageRepository) Update(ctx context.Context, pkg *catalog.Package) error {
	model := toPackageModel(pkg)
	result := conn(ctx, r.db).
		Model(&PackageModel{}).
		Where("id = ? AND version = ?", model.ID, pkg.Version()-1).
		Updates(map[string]interface{}{
			"name":             model.Name,
			"description":      model.Description,
			"daily_rate_cents": model.DailyRateCents,
			"currency":         model.Currency,
			"stock":            model.Stock,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return storageError("update package", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("package was modified by another transaction")
	}
	return nil
}

// Delete removes a package and its gear lines unless a booking refers to it.
func (r *GormPackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var deleted int64
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&BookingModel{}).Where("package_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.NewConflictError("package has bookings and cannot be deleted")
		}
		if err := tx.Where("package_id = ?", id).Delete(&PackageGearModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&PackageModel{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		if domain.CodeOf(err) == domain.CodeConflict {
			return err
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.NewConflictError("package has bookings and cannot be deleted")
		}
		return storageError("delete package", err)
	}
	if deleted == 0 {
		return domain.NewNotFoundError("Package", id.String())
	}
	return nil
}

type packageItemRow struct {
	GearID        uuid.UUID
	Qty           int
	Notes         string
	Name          string
	Category      string
	Details       string
	GearCreatedAt time.Time
}

func (r *GormPackageRepository) loadItems(ctx context.Context, packageID uuid.UUID) ([]catalog.PackageItem, error) {
	var rows []packageItemRow
	if err := conn(ctx, r.db).
		Table("package_gear AS pg").
		Select("pg.gear_id, pg.qty, pg.notes, g.name, g.category, g.details, g.created_at AS gear_created_at").
		Joins("JOIN gear AS g ON g.id = pg.gear_id").
		Where("pg.package_id = ?", packageID).
		Order("g.category ASC, g.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, storageError("load package gear", err)
	}

	items := make([]catalog.PackageItem, len(rows))
	for i, row := range rows {
		items[i] = catalog.PackageItem{
			Gear:  catalog.ReconstructGear(row.GearID, row.Name, row.Category, row.Details, row.GearCreatedAt),
			Qty:   row.Qty,
			Notes: row.Notes,
		}
	}
	return items, nil
}

func toPackageModel(p *catalog.Package) PackageModel {
	return PackageModel{
		ID:             p.ID(),
		Name:           p.Name(),
		Description:    p.Description(),
		DailyRateCents: p.DailyRate().Amount,
		Currency:       p.DailyRate().Currency,
		Stock:          p.Stock(),
		Version:        p.Version(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}

func toPackageDomain(m *PackageModel, items []catalog.PackageItem) (*catalog.Package, error) {
	rate, err := money.New(m.DailyRateCents, m.Currency)
	if err != nil {
		return nil, err
	}
	return catalog.ReconstructPackage(
		m.ID, m.Name, m.Description,
		rate, m.Stock, items,
		m.Version, m.CreatedAt, m.UpdatedAt,
	), nil
}
