// Package memory provides in-process implementations of the booking
// service's repositories. It backs STORAGE=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	bookingDomain "github.com/SoundHire-Cloud/service-booking/internal/domain/booking"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/catalog"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/settings"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

// Store holds every entity in maps guarded by one RWMutex. Entities are
// stored as copies so callers mutating an aggregate do not change stored
// state until they call Update.
type Store struct {
	mu        sync.RWMutex
	currency  string
	packages  map[uuid.UUID]*catalog.Package
	gear      map[uuid.UUID]catalog.Gear
	bookings  map[uuid.UUID]bookingDomain.Booking
	addonRate *money.Money

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

// NewStore builds an empty store whose default add-on rate is in currency.
func NewStore(currency string) *Store {
	return &Store{
		currency: currency,
		packages: make(map[uuid.UUID]*catalog.Package),
		gear:     make(map[uuid.UUID]catalog.Gear),
		bookings: make(map[uuid.UUID]bookingDomain.Booking),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Store) Bookings() *BookingRepository  { return &BookingRepository{s: s} }
func (s *Store) Packages() *PackageRepository  { return &PackageRepository{s: s} }
func (s *Store) Gear() *GearRepository         { return &GearRepository{s: s} }
func (s *Store) Settings() *SettingsRepository { return &SettingsRepository{s: s} }
func (s *Store) Transactor() *Transactor       { return &Transactor{s: s} }

// checkCtx reports a cancelled or expired context the way a database
// driver would.
func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return domain.NewUnavailableError("storage unavailable", err)
	}
	return nil
}

// --- Bookings ---

// BookingRepository implements booking.BookingRepository.
type BookingRepository struct {
	s *Store
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bk, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return &bk, nil
}

// FindOverlapping returns stock-holding reservations ordered by start date.
func (r *BookingRepository) FindOverlapping(ctx context.Context, packageID uuid.UUID, dr bookingDomain.DateRange) ([]bookingDomain.Reservation, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []bookingDomain.Reservation
	for _, bk := range r.s.bookings {
		if bk.PackageID() != packageID || !bk.Status().HoldsStock() || !bk.DateRange().Overlaps(dr) {
			continue
		}
		out = append(out, bk.Reservation())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Range.Start.Equal(out[j].Range.Start) {
			return out[i].BookingID.String() < out[j].BookingID.String()
		}
		return out[i].Range.Start.Before(out[j].Range.Start)
	})
	return out, nil
}

func (r *BookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*bookingDomain.Booking, 0, len(r.s.bookings))
	for _, bk := range r.s.bookings {
		bk := bk
		all = append(all, &bk)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt().After(all[j].CreatedAt())
	})

	total := int64(len(all))
	offset := (page - 1) * limit
	if offset >= len(all) {
		return []*bookingDomain.Booking{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *BookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, bk := range r.s.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *BookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.packages[bk.PackageID()]; !ok {
		return domain.NewNotFoundError("Package", bk.PackageID().String())
	}
	if _, exists := r.s.bookings[bk.ID()]; exists {
		return domain.NewConflictError("booking already exists")
	}
	r.s.bookings[bk.ID()] = *bk
	return nil
}

// Update stores bk if the stored version is the one it was loaded at.
func (r *BookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.bookings[bk.ID()]
	if !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	if current.Version() != bk.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.s.bookings[bk.ID()] = *bk
	return nil
}

// --- Packages ---

// PackageRepository implements catalog.PackageRepository.
type PackageRepository struct {
	s *Store
}

func (r *PackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Package, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.packages[id]
	if !ok {
		return nil, domain.NewNotFoundError("Package", id.String())
	}
	return p.Clone(), nil
}

// List returns packages by daily rate, then name.
func (r *PackageRepository) List(ctx context.Context) ([]*catalog.Package, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*catalog.Package, 0, len(r.s.packages))
	for _, p := range r.s.packages {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DailyRate().Amount == out[j].DailyRate().Amount {
			return out[i].Name() < out[j].Name()
		}
		return out[i].DailyRate().Amount < out[j].DailyRate().Amount
	})
	return out, nil
}

func (r *PackageRepository) Save(ctx context.Context, pkg *catalog.Package) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.packages[pkg.ID()]; exists {
		return domain.NewConflictError("package already exists")
	}
	for _, it := range pkg.Items() {
		if _, ok := r.s.gear[it.Gear.ID()]; !ok {
			return domain.NewNotFoundError("Gear", it.Gear.ID().String())
		}
	}
	r.s.packages[pkg.ID()] = pkg.Clone()
	return nil
}

func (r *PackageRepository) Update(ctx context.Context, pkg *catalog.Package) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.packages[pkg.ID()]
	if !ok {
		return domain.NewNotFoundError("Package", pkg.ID().String())
	}
	if current.Version() != pkg.Version()-1 {
		return domain.NewConflictError("package was modified by another transaction")
	}
	r.s.packages[pkg.ID()] = pkg.Clone()
	return nil
}

func (r *PackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.packages[id]; !ok {
		return domain.NewNotFoundError("Package", id.String())
	}
	for _, bk := range r.s.bookings {
		if bk.PackageID() == id {
			return domain.NewConflictError("package has bookings and cannot be deleted")
		}
	}
	delete(r.s.packages, id)
	return nil
}

// --- Gear ---

// GearRepository implements catalog.GearRepository.
type GearRepository struct {
	s *Store
}

func (r *GearRepository) List(ctx context.Context) ([]catalog.Gear, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]catalog.Gear, 0, len(r.s.gear))
	for _, g := range r.s.gear {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category() == out[j].Category() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].Category() < out[j].Category()
	})
	return out, nil
}

// FindByIDs returns the gear that exists among ids; unknown ids are skipped.
func (r *GearRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Gear, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]catalog.Gear, 0, len(ids))
	for _, id := range ids {
		if g, ok := r.s.gear[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *GearRepository) Save(ctx context.Context, g catalog.Gear) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.gear[g.ID()] = g
	return nil
}

// --- Settings ---

// SettingsRepository implements settings.Repository.
type SettingsRepository struct {
	s *Store
}

// AddonDailyRate returns the stored rate, or the default when none was set.
func (r *SettingsRepository) AddonDailyRate(ctx context.Context) (money.Money, error) {
	if err := checkCtx(ctx); err != nil {
		return money.Money{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.addonRate == nil {
		return money.New(settings.DefaultAddonDailyRate, r.s.currency)
	}
	return *r.s.addonRate, nil
}

func (r *SettingsRepository) UpdateAddonDailyRate(ctx context.Context, rate money.Money) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if rate.IsNegative() {
		return domain.NewValidationError("add-on rate cannot be negative")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.addonRate = &rate
	return nil
}

// --- Transactor ---

// Transactor serializes booking attempts per package with one mutex per
// package id. Writes are not rolled back; callers write last.
type Transactor struct {
	s *Store
}

func (t *Transactor) WithinPackageLock(ctx context.Context, packageID uuid.UUID, fn func(ctx context.Context) error) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	lock := t.s.packageLock(packageID)
	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

func (s *Store) packageLock(id uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}
