package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/SoundHire-Cloud/service-booking/internal/domain/booking"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/catalog"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/settings"
	"github.com/SoundHire-Cloud/service-booking/internal/events/contract"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/kafka"
)

// AvailabilityRequest asks whether qty units of a package are free for
// every day between StartDate and EndDate inclusive.
type AvailabilityRequest struct {
	PackageID uuid.UUID `json:"package_id"`
	StartDate string    `json:"start_date" binding:"required"`
	EndDate   string    `json:"end_date" binding:"required"`
	Qty       int       `json:"qty"`
}

// QuoteRequest adds the add-on choice to an availability request.
type QuoteRequest struct {
	AvailabilityRequest
	IncludeAddon bool `json:"include_addon"`
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	QuoteRequest
	Customer bookingDomain.CustomerContact `json:"customer"`
}

// AvailabilityDTO is the response representation of an availability check.
type AvailabilityDTO struct {
	PackageID   uuid.UUID `json:"package_id"`
	PackageName string    `json:"package_name"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Days        int       `json:"days"`
	Requested   int       `json:"requested"`
	Stock       int       `json:"stock"`
	Booked      int       `json:"booked"`
	Available   int       `json:"available"`
	IsAvailable bool      `json:"is_available"`
	Reason      string    `json:"reason,omitempty"`
	Message     string    `json:"message"`
}

// PriceBreakdownDTO is the response representation of a price breakdown.
// Amounts are decimal strings in Currency.
type PriceBreakdownDTO struct {
	Days         int    `json:"days"`
	Qty          int    `json:"qty"`
	DailyRate    string `json:"daily_rate"`
	BasePrice    string `json:"base_price"`
	IncludeAddon bool   `json:"include_addon"`
	AddonRate    string `json:"addon_rate"`
	AddonPrice   string `json:"addon_price"`
	Total        string `json:"total"`
	Currency     string `json:"currency"`
	Summary      string `json:"summary"`
}

// QuoteDTO carries the availability decision and, when accepted, the price.
type QuoteDTO struct {
	Availability AvailabilityDTO    `json:"availability"`
	Price        *PriceBreakdownDTO `json:"price,omitempty"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID                     `json:"id"`
	BookingNumber string                        `json:"booking_number"`
	PackageID     uuid.UUID                     `json:"package_id"`
	Customer      bookingDomain.CustomerContact `json:"customer"`
	StartDate     string                        `json:"start_date"`
	EndDate       string                        `json:"end_date"`
	Days          int                           `json:"days"`
	Qty           int                           `json:"qty"`
	IncludeAddon  bool                          `json:"include_addon"`
	TotalPrice    string                        `json:"total_price"`
	Currency      string                        `json:"currency"`
	Status        string                        `json:"status"`
	Price         *PriceBreakdownDTO            `json:"price,omitempty"`
	ConfirmedAt   *time.Time                    `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time                    `json:"cancelled_at,omitempty"`
	CancelNote    string                        `json:"cancel_note,omitempty"`
	Version       int64                         `json:"version"`
	CreatedAt     time.Time                     `json:"created_at"`
	UpdatedAt     time.Time                     `json:"updated_at"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings  bookingDomain.BookingRepository
	packages  catalog.PackageRepository
	settings  settings.Repository
	tx        Transactor
	policy    bookingDomain.AvailabilityPolicy
	pricing   bookingDomain.PricingStrategy
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService. publisher may be nil, in
// which case no events are emitted.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	packages catalog.PackageRepository,
	settingsRepo settings.Repository,
	tx Transactor,
	policy bookingDomain.AvailabilityPolicy,
	pricing bookingDomain.PricingStrategy,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		packages:  packages,
		settings:  settingsRepo,
		tx:        tx,
		policy:    policy,
		pricing:   pricing,
		publisher: publisher,
		logger:    logger,
	}
}

// EvaluateBooking checks availability, prices and persists a booking in one
// step. Rejections come back as *booking.RejectionError and nothing is
// written; the reason and available quantity are reported unchanged.
func (s *BookingService) EvaluateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	dateRange, err := parseAvailabilityRequest(req.AvailabilityRequest)
	if err != nil {
		return nil, err
	}
	contact := req.Customer.Normalize()
	if contact.Name == "" {
		return nil, domain.NewValidationError("customer name is required")
	}

	var (
		bk        *bookingDomain.Booking
		breakdown bookingDomain.PriceBreakdown
	)
	err = s.tx.WithinPackageLock(ctx, req.PackageID, func(ctx context.Context) error {
		pkg, decision, err := s.assess(ctx, req.PackageID, dateRange, req.Qty)
		if err != nil {
			return err
		}
		if !decision.Accepted {
			s.logger.Info("booking rejected",
				zap.String("package_id", req.PackageID.String()),
				zap.String("range", dateRange.String()),
				zap.Int("requested", req.Qty),
				zap.Int("available", decision.Available),
				zap.String("reason", string(decision.Reason)),
			)
			return decision.Err()
		}

		breakdown, err = s.price(ctx, pkg, dateRange, req.Qty, req.IncludeAddon)
		if err != nil {
			return err
		}

		bk, err = bookingDomain.NewBooking(pkg.ID(), contact, dateRange, req.Qty, req.IncludeAddon, breakdown.Total)
		if err != nil {
			return err
		}
		if err := s.bookings.Save(ctx, bk); err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("booking_number", bk.BookingNumber()),
		zap.String("package_id", bk.PackageID().String()),
		zap.String("total", bk.TotalPrice().String()),
	)
	s.publishBookingRequested(ctx, bk)

	result := toBookingDTO(bk)
	price := toPriceBreakdownDTO(breakdown)
	result.Price = &price
	return &result, nil
}

// CheckAvailability reports how many units are free without reserving any.
func (s *BookingService) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityDTO, error) {
	dateRange, err := parseAvailabilityRequest(req)
	if err != nil {
		return nil, err
	}

	pkg, decision, err := s.assess(ctx, req.PackageID, dateRange, req.Qty)
	if err != nil {
		return nil, err
	}

	result := toAvailabilityDTO(pkg, dateRange, decision)
	return &result, nil
}

// Quote checks availability and, if the request fits, prices it. Nothing
// is persisted.
func (s *BookingService) Quote(ctx context.Context, req QuoteRequest) (*QuoteDTO, error) {
	dateRange, err := parseAvailabilityRequest(req.AvailabilityRequest)
	if err != nil {
		return nil, err
	}

	pkg, decision, err := s.assess(ctx, req.PackageID, dateRange, req.Qty)
	if err != nil {
		return nil, err
	}

	result := &QuoteDTO{Availability: toAvailabilityDTO(pkg, dateRange, decision)}
	if !decision.Accepted {
		return result, nil
	}

	breakdown, err := s.price(ctx, pkg, dateRange, req.Qty, req.IncludeAddon)
	if err != nil {
		return nil, err
	}
	price := toPriceBreakdownDTO(breakdown)
	result.Price = &price
	return result, nil
}

// ConfirmBooking moves a pending booking to confirmed.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Confirm(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking confirmed", zap.String("booking_id", bk.ID().String()))

	evt := contract.BookingConfirmedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		PackageID:     bk.PackageID(),
		ConfirmedAt:   *bk.ConfirmedAt(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, contract.TopicBookingEvents, contract.BookingConfirmed, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking and releases its stock.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bk.ID().String()),
		zap.String("reason", reason),
	)

	evt := contract.BookingCancelledEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		PackageID:     bk.PackageID(),
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, contract.TopicBookingEvents, contract.BookingCancelled, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

// parseAvailabilityRequest validates the request before anything is read
// from storage.
func parseAvailabilityRequest(req AvailabilityRequest) (bookingDomain.DateRange, error) {
	if req.PackageID == uuid.Nil {
		return bookingDomain.DateRange{}, domain.NewValidationError("package_id is required")
	}
	dateRange, err := bookingDomain.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return bookingDomain.DateRange{}, err
	}
	if req.Qty <= 0 {
		return bookingDomain.DateRange{}, bookingDomain.ErrInvalidQuantity
	}
	return dateRange, nil
}

// assess loads the package and its overlapping reservations and runs the
// availability policy.
func (s *BookingService) assess(
	ctx context.Context,
	packageID uuid.UUID,
	dateRange bookingDomain.DateRange,
	qty int,
) (*catalog.Package, bookingDomain.Decision, error) {
	pkg, err := s.packages.FindByID(ctx, packageID)
	if err != nil {
		if domain.CodeOf(err) == domain.CodeNotFound {
			return nil, bookingDomain.Decision{}, bookingDomain.NewPackageNotFoundError(packageID.String())
		}
		return nil, bookingDomain.Decision{}, fmt.Errorf("failed to load package: %w", err)
	}

	existing, err := s.bookings.FindOverlapping(ctx, packageID, dateRange)
	if err != nil {
		return nil, bookingDomain.Decision{}, fmt.Errorf("failed to load overlapping bookings: %w", err)
	}

	return pkg, s.policy.Check(pkg.Stock(), dateRange, qty, existing), nil
}

// price fetches the add-on rate only when it is needed.
func (s *BookingService) price(
	ctx context.Context,
	pkg *catalog.Package,
	dateRange bookingDomain.DateRange,
	qty int,
	includeAddon bool,
) (bookingDomain.PriceBreakdown, error) {
	addonRate := money.Zero(pkg.DailyRate().Currency)
	if includeAddon {
		rate, err := s.settings.AddonDailyRate(ctx)
		if err != nil {
			return bookingDomain.PriceBreakdown{}, fmt.Errorf("failed to load add-on rate: %w", err)
		}
		addonRate = rate
	}

	breakdown, err := s.pricing.Calculate(bookingDomain.PricingParams{
		DailyRate:      pkg.DailyRate(),
		AddonDailyRate: addonRate,
		IncludeAddon:   includeAddon,
		Range:          dateRange,
		Qty:            qty,
	})
	if err != nil {
		if errors.Is(err, money.ErrOverflow) {
			return bookingDomain.PriceBreakdown{}, domain.NewValidationError("booking total is too large")
		}
		return bookingDomain.PriceBreakdown{}, fmt.Errorf("pricing error: %w", err)
	}
	return breakdown, nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	r := bk.DateRange()
	return BookingDTO{
		ID:            bk.ID(),
		BookingNumber: bk.BookingNumber(),
		PackageID:     bk.PackageID(),
		Customer:      bk.Contact(),
		StartDate:     r.Start.Format(bookingDomain.DateLayout),
		EndDate:       r.End.Format(bookingDomain.DateLayout),
		Days:          r.Days(),
		Qty:           bk.Qty(),
		IncludeAddon:  bk.IncludeAddon(),
		TotalPrice:    bk.TotalPrice().String(),
		Currency:      bk.TotalPrice().Currency,
		Status:        string(bk.Status()),
		ConfirmedAt:   bk.ConfirmedAt(),
		CancelledAt:   bk.CancelledAt(),
		CancelNote:    bk.CancelNote(),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toAvailabilityDTO(pkg *catalog.Package, r bookingDomain.DateRange, d bookingDomain.Decision) AvailabilityDTO {
	return AvailabilityDTO{
		PackageID:   pkg.ID(),
		PackageName: pkg.Name(),
		StartDate:   r.Start.Format(bookingDomain.DateLayout),
		EndDate:     r.End.Format(bookingDomain.DateLayout),
		Days:        r.Days(),
		Requested:   d.Requested,
		Stock:       d.Stock,
		Booked:      d.Committed,
		Available:   d.Available,
		IsAvailable: d.Accepted,
		Reason:      string(d.Reason),
		Message:     d.Message(pkg.Name()),
	}
}

func toPriceBreakdownDTO(b bookingDomain.PriceBreakdown) PriceBreakdownDTO {
	return PriceBreakdownDTO{
		Days:         b.Days,
		Qty:          b.Qty,
		DailyRate:    b.DailyRate.String(),
		BasePrice:    b.BasePrice.String(),
		IncludeAddon: b.IncludeAddon,
		AddonRate:    b.AddonRate.String(),
		AddonPrice:   b.AddonPrice.String(),
		Total:        b.Total.String(),
		Currency:     b.Total.Currency,
		Summary:      b.Format(),
	}
}

func (s *BookingService) publishBookingRequested(ctx context.Context, bk *bookingDomain.Booking) {
	r := bk.DateRange()
	evt := contract.BookingRequestedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		PackageID:     bk.PackageID(),
		StartDate:     r.Start.Format(bookingDomain.DateLayout),
		EndDate:       r.End.Format(bookingDomain.DateLayout),
		Qty:           bk.Qty(),
		IncludeAddon:  bk.IncludeAddon(),
		TotalPrice:    bk.TotalPrice().Amount,
		Currency:      bk.TotalPrice().Currency,
		CustomerName:  bk.Contact().Name,
		CustomerEmail: bk.Contact().Email,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, contract.TopicBookingEvents, contract.BookingRequested, bk.ID().String(), evt)
}

// publishEvent is best effort: the booking is already committed, so a
// broker failure is logged and not returned.
func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	if s.publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(contract.Source, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, topic, cloudEvent.WithSubject(key)); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
