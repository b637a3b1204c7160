package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/SoundHire-Cloud/service-booking/internal/domain/booking"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
	"github.com/SoundHire-Cloud/service-booking/internal/repository/memory"
)

func newCatalogService(t *testing.T) (*CatalogService, *memory.Store) {
	t.Helper()
	store := memory.NewStore(money.CurrencyUSD)
	require.NoError(t, store.SeedDemoCatalog(context.Background()))
	return NewCatalogService(store.Packages(), store.Gear(), money.CurrencyUSD, zap.NewNop()), store
}

func TestCatalogService_ListAndGet(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	pkgs, err := svc.ListPackages(ctx)
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "Basic Sound", pkgs[0].Name)
	assert.Equal(t, "75.00", pkgs[0].DailyRate)
	assert.Equal(t, "Party Pack", pkgs[1].Name)

	got, err := svc.GetPackage(ctx, pkgs[1].ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 5)

	gear, err := svc.ListGear(ctx)
	require.NoError(t, err)
	require.Len(t, gear, 5)
	assert.Equal(t, "lighting", gear[0].Category)

	_, err = svc.GetPackage(ctx, uuid.New())
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestCatalogService_CreatePackage(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	gear, err := svc.ListGear(ctx)
	require.NoError(t, err)

	created, err := svc.CreatePackage(ctx, CreatePackageRequest{
		Name:      "Speech Kit",
		DailyRate: "49.999",
		Stock:     4,
		Items:     []PackageItemRequest{{GearID: gear[0].ID, Qty: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "50.00", created.DailyRate)
	assert.Len(t, created.Items, 1)

	_, err = svc.CreatePackage(ctx, CreatePackageRequest{Name: "Bad", DailyRate: "ten", Stock: 1})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = svc.CreatePackage(ctx, CreatePackageRequest{
		Name:      "Ghost",
		DailyRate: "10",
		Stock:     1,
		Items:     []PackageItemRequest{{GearID: uuid.New(), Qty: 1}},
	})
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestCatalogService_UpdatePackage(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	pkgs, err := svc.ListPackages(ctx)
	require.NoError(t, err)

	rate := "80"
	stock := 7
	updated, err := svc.UpdatePackage(ctx, pkgs[0].ID, UpdatePackageRequest{DailyRate: &rate, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, "80.00", updated.DailyRate)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, pkgs[0].Version+1, updated.Version)

	zero := 0
	_, err = svc.UpdatePackage(ctx, pkgs[0].ID, UpdatePackageRequest{Stock: &zero})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestCatalogService_DeletePackage(t *testing.T) {
	svc, store := newCatalogService(t)
	ctx := context.Background()

	pkgs, err := svc.ListPackages(ctx)
	require.NoError(t, err)

	dr, err := bookingDomain.ParseDateRange("2025-12-01", "2025-12-02")
	require.NoError(t, err)
	bk, err := bookingDomain.NewBooking(pkgs[1].ID, bookingDomain.CustomerContact{Name: "Lee"}, dr, 1, false, money.Must(35000, money.CurrencyUSD))
	require.NoError(t, err)
	require.NoError(t, store.Bookings().Save(ctx, bk))

	err = svc.DeletePackage(ctx, pkgs[1].ID)
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))

	require.NoError(t, svc.DeletePackage(ctx, pkgs[0].ID))
	_, err = svc.GetPackage(ctx, pkgs[0].ID)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}
