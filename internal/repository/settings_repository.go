package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/settings"
)

// settingsRowID is the id of the single settings row.
const settingsRowID = 1

// SettingsModel is the GORM model for the settings table.
type SettingsModel struct {
	ID                  int       `gorm:"primaryKey"`
	AddonDailyRateCents int64     `gorm:"not null"`
	Currency            string    `gorm:"type:varchar(3);not null;default:'USD'"`
	UpdatedAt           time.Time `gorm:"not null"`
}

func (SettingsModel) TableName() string { return "settings" }

// GormSettingsRepository implements settings.Repository using GORM. Every
// read goes to the database.
type GormSettingsRepository struct {
	db       *gorm.DB
	currency string
}

// NewGormSettingsRepository creates a repository whose default rate is
// expressed in currency.
func NewGormSettingsRepository(db *gorm.DB, currency string) *GormSettingsRepository {
	return &GormSettingsRepository{db: db, currency: currency}
}

// AddonDailyRate returns the stored rate or the default when the row is missing.
func (r *GormSettingsRepository) AddonDailyRate(ctx context.Context) (money.Money, error) {
	var model SettingsModel
	if err := conn(ctx, r.db).Where("id = ?", settingsRowID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return money.New(settings.DefaultAddonDailyRate, r.currency)
		}
		return money.Money{}, storageError("load settings", err)
	}
	return money.New(model.AddonDailyRateCents, model.Currency)
}

// UpdateAddonDailyRate upserts the settings row.
func (r *GormSettingsRepository) UpdateAddonDailyRate(ctx context.Context, rate money.Money) error {
	model := SettingsModel{
		ID:                  settingsRowID,
		AddonDailyRateCents: rate.Amount,
		Currency:            rate.Currency,
		UpdatedAt:           time.Now().UTC(),
	}
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"addon_daily_rate_cents", "currency", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return storageError("update settings", err)
	}
	return nil
}
