package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
)

func TestNewPackage(t *testing.T) {
	speaker, err := NewGear("QSC K12.2", "speakers", "2000W active")
	require.NoError(t, err)

	pkg, err := NewPackage("Party Pack", "two tops", money.Must(17500, money.CurrencyUSD), 3,
		[]PackageItem{{Gear: speaker, Qty: 2, Notes: "mains"}})
	require.NoError(t, err)

	assert.Equal(t, "Party Pack", pkg.Name())
	assert.Equal(t, 3, pkg.Stock())
	assert.Equal(t, int64(1), pkg.Version())
	assert.Len(t, pkg.Items(), 1)
}

func TestNewPackage_Validation(t *testing.T) {
	rate := money.Must(100, money.CurrencyUSD)

	_, err := NewPackage("", "", rate, 1, nil)
	assert.Error(t, err)

	_, err = NewPackage("x", "", money.Must(-1, money.CurrencyUSD), 1, nil)
	assert.Error(t, err)

	_, err = NewPackage("x", "", rate, 0, nil)
	assert.Error(t, err)

	g, _ := NewGear("mic", "microphones", "")
	_, err = NewPackage("x", "", rate, 1, []PackageItem{{Gear: g, Qty: 0}})
	assert.Error(t, err)
}

func TestPackage_Update(t *testing.T) {
	pkg, err := NewPackage("Basic", "", money.Must(7500, money.CurrencyUSD), 2, nil)
	require.NoError(t, err)

	stock := 4
	rate := money.Must(8000, money.CurrencyUSD)
	require.NoError(t, pkg.Update(PackageUpdate{Stock: &stock, DailyRate: &rate}))

	assert.Equal(t, 4, pkg.Stock())
	assert.Equal(t, int64(8000), pkg.DailyRate().Amount)
	assert.Equal(t, "Basic", pkg.Name())
	assert.Equal(t, int64(2), pkg.Version())

	zero := 0
	assert.Error(t, pkg.Update(PackageUpdate{Stock: &zero}))
	assert.Equal(t, 4, pkg.Stock())
}

func TestPackage_CloneCopiesItems(t *testing.T) {
	speaker, err := NewGear("QSC K12.2", "speakers", "")
	require.NoError(t, err)
	pkg, err := NewPackage("Party Pack", "", money.Must(17500, money.CurrencyUSD), 3,
		[]PackageItem{{Gear: speaker, Qty: 2}})
	require.NoError(t, err)

	clone := pkg.Clone()
	clone.Items()[0].Qty = 5

	assert.Equal(t, 2, pkg.Items()[0].Qty)
	assert.Equal(t, pkg.ID(), clone.ID())
}
