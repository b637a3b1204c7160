package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/SoundHire-Cloud/service-booking/internal/domain/booking"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/catalog"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

func newPackage(t *testing.T, s *Store, stock int) *catalog.Package {
	t.Helper()
	pkg, err := catalog.NewPackage("Party Pack", "", money.Must(17500, money.CurrencyUSD), stock, nil)
	require.NoError(t, err)
	require.NoError(t, s.Packages().Save(context.Background(), pkg))
	return pkg
}

func newBooking(t *testing.T, pkgID uuid.UUID, start, end string, qty int) *bookingDomain.Booking {
	t.Helper()
	r, err := bookingDomain.ParseDateRange(start, end)
	require.NoError(t, err)
	bk, err := bookingDomain.NewBooking(pkgID, bookingDomain.CustomerContact{Name: "Dana"}, r, qty, false,
		money.Must(100, money.CurrencyUSD))
	require.NoError(t, err)
	return bk
}

func TestBookingRepository_FindOverlapping(t *testing.T) {
	ctx := context.Background()
	s := NewStore(money.CurrencyUSD)
	pkg := newPackage(t, s, 5)
	other := newPackage(t, s, 5)
	repo := s.Bookings()

	inside := newBooking(t, pkg.ID(), "2025-11-11", "2025-11-11", 1)
	adjacent := newBooking(t, pkg.ID(), "2025-11-13", "2025-11-14", 1)
	cancelled := newBooking(t, pkg.ID(), "2025-11-10", "2025-11-12", 3)
	otherPkg := newBooking(t, other.ID(), "2025-11-10", "2025-11-12", 2)
	for _, bk := range []*bookingDomain.Booking{inside, adjacent, cancelled, otherPkg} {
		require.NoError(t, repo.Save(ctx, bk))
	}

	require.NoError(t, cancelled.Cancel("test"))
	cancelled.IncrementVersion()
	require.NoError(t, repo.Update(ctx, cancelled))

	r, _ := bookingDomain.ParseDateRange("2025-11-10", "2025-11-12")
	res, err := repo.FindOverlapping(ctx, pkg.ID(), r)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, inside.ID(), res[0].BookingID)
}

func TestBookingRepository_UpdateOptimisticLock(t *testing.T) {
	ctx := context.Background()
	s := NewStore(money.CurrencyUSD)
	pkg := newPackage(t, s, 5)
	repo := s.Bookings()

	bk := newBooking(t, pkg.ID(), "2025-11-10", "2025-11-10", 1)
	require.NoError(t, repo.Save(ctx, bk))

	first, err := repo.FindByID(ctx, bk.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, bk.ID())
	require.NoError(t, err)

	require.NoError(t, first.Confirm())
	first.IncrementVersion()
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.Cancel("late"))
	second.IncrementVersion()
	err = repo.Update(ctx, second)
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))

	stored, err := repo.FindByID(ctx, bk.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusConfirmed, stored.Status())
}

func TestPackageRepository_DeleteWithBookings(t *testing.T) {
	ctx := context.Background()
	s := NewStore(money.CurrencyUSD)
	pkg := newPackage(t, s, 5)
	free := newPackage(t, s, 1)

	require.NoError(t, s.Bookings().Save(ctx, newBooking(t, pkg.ID(), "2025-11-10", "2025-11-10", 1)))

	err := s.Packages().Delete(ctx, pkg.ID())
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))

	require.NoError(t, s.Packages().Delete(ctx, free.ID()))
	_, err = s.Packages().FindByID(ctx, free.ID())
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestSettingsRepository_DefaultAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewStore(money.CurrencyUSD).Settings()

	rate, err := repo.AddonDailyRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "150.00", rate.String())

	require.NoError(t, repo.UpdateAddonDailyRate(ctx, money.Must(20000, money.CurrencyUSD)))
	rate, err = repo.AddonDailyRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), rate.Amount)
}

func TestStore_CancelledContextIsUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore(money.CurrencyUSD).Packages().List(ctx)
	assert.True(t, domain.IsUnavailable(err))
}

func TestSeedDemoCatalog(t *testing.T) {
	ctx := context.Background()
	s := NewStore(money.CurrencyUSD)
	require.NoError(t, s.SeedDemoCatalog(ctx))

	pkgs, err := s.Packages().List(ctx)
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "Basic Sound", pkgs[0].Name())

	gear, err := s.Gear().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "lighting", gear[0].Category())
}

func TestPackageRepository_ItemsAreNotShared(t *testing.T) {
	ctx := context.Background()
	s := NewStore(money.CurrencyUSD)
	mic, err := catalog.NewGear("Shure SM58", "microphone", "")
	require.NoError(t, err)
	speaker, err := catalog.NewGear("QSC K12", "speaker", "")
	require.NoError(t, err)
	require.NoError(t, s.Gear().Save(ctx, mic))
	require.NoError(t, s.Gear().Save(ctx, speaker))

	items := []catalog.PackageItem{{Gear: mic, Qty: 2}}
	pkg, err := catalog.NewPackage("Karaoke", "", money.Must(9000, money.CurrencyUSD), 1, items)
	require.NoError(t, err)
	require.NoError(t, s.Packages().Save(ctx, pkg))

	// Mutating the caller's aggregate after Save must not reach the store.
	pkg.Items()[0].Qty = 99
	items[0].Notes = "changed"

	stored, err := s.Packages().FindByID(ctx, pkg.ID())
	require.NoError(t, err)
	require.Len(t, stored.Items(), 1)
	assert.Equal(t, 2, stored.Items()[0].Qty)
	assert.Empty(t, stored.Items()[0].Notes)

	// Nor may mutating a returned package.
	stored.Items()[0].Gear = speaker
	listed, err := s.Packages().List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, mic.ID(), listed[0].Items()[0].Gear.ID())

	listed[0].Items()[0].Qty = 7
	again, err := s.Packages().FindByID(ctx, pkg.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items()[0].Qty)
}
