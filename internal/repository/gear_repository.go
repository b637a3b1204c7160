package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/catalog"
)

// GearModel is the GORM model for the gear table.
type GearModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Category  string    `gorm:"type:varchar(50);not null;index"`
	Details   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (GearModel) TableName() string { return "gear" }

// GormGearRepository implements catalog.GearRepository using GORM.
type GormGearRepository struct {
	db *gorm.DB
}

// NewGormGearRepository creates a new GormGearRepository.
func NewGormGearRepository(db *gorm.DB) *GormGearRepository {
	return &GormGearRepository{db: db}
}

// List returns all gear ordered by category, then name.
func (r *GormGearRepository) List(ctx context.Context) ([]catalog.Gear, error) {
	var models []GearModel
	if err := conn(ctx, r.db).Order("category ASC, name ASC").Find(&models).Error; err != nil {
		return nil, storageError("list gear", err)
	}
	return toGearDomainList(models), nil
}

// FindByIDs returns the gear rows among ids; unknown ids are skipped.
func (r *GormGearRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Gear, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []GearModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, storageError("find gear", err)
	}
	return toGearDomainList(models), nil
}

// Save persists a gear item.
func (r *GormGearRepository) Save(ctx context.Context, g catalog.Gear) error {
	model := GearModel{
		ID:        g.ID(),
		Name:      g.Name(),
		Category:  g.Category(),
		Details:   g.Details(),
		CreatedAt: g.CreatedAt(),
	}
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		return storageError("save gear", err)
	}
	return nil
}

func toGearDomainList(models []GearModel) []catalog.Gear {
	out := make([]catalog.Gear, len(models))
	for i, m := range models {
		out[i] = catalog.ReconstructGear(m.ID, m.Name, m.Category, m.Details, m.CreatedAt)
	}
	return out
}
