package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/SoundHire-Cloud/service-booking/internal/domain/booking"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookingNumber   string     `gorm:"uniqueIndex;not null;size:20"`
	PackageID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	CustomerName    string     `gorm:"not null;size:200"`
	CustomerPhone   string     `gorm:"size:50"`
	CustomerEmail   string     `gorm:"size:254"`
	StartDate       time.Time  `gorm:"type:date;not null"`
	EndDate         time.Time  `gorm:"type:date;not null"`
	Qty             int        `gorm:"not null"`
	IncludeAddon    bool       `gorm:"not null;default:false"`
	TotalPriceCents int64      `gorm:"not null"`
	Currency        string     `gorm:"not null;size:3;default:'USD'"`
	Status          string     `gorm:"not null;size:20;index"`
	ConfirmedAt     *time.Time `gorm:""`
	CancelledAt     *time.Time `gorm:""`
	CancelNote      string     `gorm:"size:500"`
	Version         int64      `gorm:"not null;default:1"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, storageError("find booking by ID", err)
	}
	return toDomainBooking(&model)
}

// FindOverlapping returns the pending and confirmed reservations of a
// package whose range shares a day with dr.
func (r *GormBookingRepository) FindOverlapping(ctx context.Context, packageID uuid.UUID, dr bookingDomain.DateRange) ([]bookingDomain.Reservation, error) {
	var models []BookingModel
	if err := conn(ctx, r.db).
		Select("id", "start_date", "end_date", "qty", "status").
		Where("package_id = ?", packageID).
		Where("status IN ?", []string{string(bookingDomain.StatusPending), string(bookingDomain.StatusConfirmed)}).
		Where("start_date <= ? AND end_date >= ?", dr.End, dr.Start).
		Order("start_date ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, storageError("find overlapping bookings", err)
	}

	out := make([]bookingDomain.Reservation, 0, len(models))
	for _, m := range models {
		status, err := bookingDomain.ParseBookingStatus(m.Status)
		if err != nil {
			return nil, err
		}
		rng, err := bookingDomain.NewDateRange(m.StartDate, m.EndDate)
		if err != nil {
			return nil, err
		}
		out = append(out, bookingDomain.Reservation{
			BookingID: m.ID,
			Range:     rng,
			Qty:       m.Qty,
			Status:    status,
		})
	}
	return out, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return domain.NewConflictError("booking already exists")
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return domain.NewNotFoundError("Package", bk.PackageID().String())
		}
		return storageError("save booking", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the version matches (current version - 1 since IncrementVersion was called)
	expectedVersion := bk.Version() - 1
	result := conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"confirmed_at": model.ConfirmedAt,
			"cancelled_at": model.CancelledAt,
			"cancel_note":  model.CancelNote,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return storageError("update booking", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, storageError("count bookings", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := conn(ctx, r.db).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, storageError("list bookings", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := conn(ctx, r.db).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, storageError("count by status", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	contact := bk.Contact()
	r := bk.DateRange()
	return &BookingModel{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		PackageID:       bk.PackageID(),
		CustomerName:    contact.Name,
		CustomerPhone:   contact.Phone,
		CustomerEmail:   contact.Email,
		StartDate:       r.Start,
		EndDate:         r.End,
		Qty:             bk.Qty(),
		IncludeAddon:    bk.IncludeAddon(),
		TotalPriceCents: bk.TotalPrice().Amount,
		Currency:        bk.TotalPrice().Currency,
		Status:          string(bk.Status()),
		ConfirmedAt:     bk.ConfirmedAt(),
		CancelledAt:     bk.CancelledAt(),
		CancelNote:      bk.CancelNote(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

// toDomainBooking rejects rows whose status or range violates the domain
// rules instead of passing them on.
func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	rng, err := bookingDomain.NewDateRange(m.StartDate, m.EndDate)
	if err != nil {
		return nil, err
	}

	total, err := money.New(m.TotalPriceCents, m.Currency)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		m.PackageID,
		bookingDomain.CustomerContact{Name: m.CustomerName, Phone: m.CustomerPhone, Email: m.CustomerEmail},
		rng,
		m.Qty,
		m.IncludeAddon,
		total,
		status,
		m.ConfirmedAt,
		m.CancelledAt,
		m.CancelNote,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
