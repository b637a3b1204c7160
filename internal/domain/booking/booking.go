package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	packageID     uuid.UUID
	contact       CustomerContact
	dateRange     DateRange
	qty           int
	includeAddon  bool
	totalPrice    money.Money
	status        BookingStatus

	confirmedAt *time.Time
	cancelledAt *time.Time
	cancelNote  string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "SH-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "SH-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=pending. The caller
// is expected to have checked availability and priced the booking already.
func NewBooking(
	packageID uuid.UUID,
	contact CustomerContact,
	dateRange DateRange,
	qty int,
	includeAddon bool,
	totalPrice money.Money,
) (*Booking, error) {
	if packageID == uuid.Nil {
		return nil, domain.NewValidationError("package ID is required")
	}
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	contact = contact.Normalize()
	if contact.Name == "" {
		return nil, domain.NewValidationError("customer name is required")
	}
	if totalPrice.IsNegative() {
		return nil, domain.NewValidationError("total price cannot be negative")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		bookingNumber: bookingNumber,
		packageID:     packageID,
		contact:       contact,
		dateRange:     dateRange,
		qty:           qty,
		includeAddon:  includeAddon,
		totalPrice:    totalPrice,
		status:        StatusPending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	packageID uuid.UUID,
	contact CustomerContact,
	dateRange DateRange,
	qty int,
	includeAddon bool,
	totalPrice money.Money,
	status BookingStatus,
	confirmedAt *time.Time,
	cancelledAt *time.Time,
	cancelNote string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		bookingNumber: bookingNumber,
		packageID:     packageID,
		contact:       contact,
		dateRange:     dateRange,
		qty:           qty,
		includeAddon:  includeAddon,
		totalPrice:    totalPrice,
		status:        status,
		confirmedAt:   confirmedAt,
		cancelledAt:   cancelledAt,
		cancelNote:    cancelNote,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// PackageID returns the booked package.
func (b *Booking) PackageID() uuid.UUID { return b.packageID }

// Contact returns the customer's contact details.
func (b *Booking) Contact() CustomerContact { return b.contact }

// DateRange returns the inclusive rental period.
func (b *Booking) DateRange() DateRange { return b.dateRange }

// Qty returns the number of package units reserved.
func (b *Booking) Qty() int { return b.qty }

// IncludeAddon reports whether the DJ add-on was booked.
func (b *Booking) IncludeAddon() bool { return b.includeAddon }

// TotalPrice returns the price fixed at booking time.
func (b *Booking) TotalPrice() money.Money { return b.totalPrice }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// ConfirmedAt returns the time the booking was confirmed.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// CancelledAt returns the time the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// Reservation returns the part of the booking that holds stock.
func (b *Booking) Reservation() Reservation {
	return Reservation{
		BookingID: b.id,
		Range:     b.dateRange,
		Qty:       b.qty,
		Status:    b.status,
	}
}

// --- Behavior ---

// Confirm transitions the booking from pending to confirmed.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel releases the reserved stock. Cancelling twice is an error.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelNote = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
