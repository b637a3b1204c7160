package memory

import (
	"context"
	"fmt"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/catalog"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
)

// SeedDemoCatalog fills an empty store with a small catalog so a service
// running with STORAGE=memory has something to book.
func (s *Store) SeedDemoCatalog(ctx context.Context) error {
	type gearSpec struct{ name, category, details string }
	specs := []gearSpec{
		{"QSC K12.2", "speakers", "12in 2000W powered loudspeaker"},
		{"QSC KS118", "subwoofers", "18in 3600W powered subwoofer"},
		{"Shure SM58", "microphones", "dynamic vocal microphone"},
		{"Yamaha MG10XU", "mixers", "10-channel mixer with FX"},
		{"Chauvet SlimPAR Pro", "lighting", "RGBA LED wash"},
	}

	gear := make(map[string]catalog.Gear, len(specs))
	for _, sp := range specs {
		g, err := catalog.NewGear(sp.name, sp.category, sp.details)
		if err != nil {
			return err
		}
		if err := s.Gear().Save(ctx, g); err != nil {
			return err
		}
		gear[sp.name] = g
	}

	type packageSpec struct {
		name, description string
		rate              int64
		stock             int
		items             []catalog.PackageItem
	}
	packages := []packageSpec{
		{
			name: "Basic Sound", description: "Two tops and a mixer for small rooms",
			rate: 7500, stock: 5,
			items: []catalog.PackageItem{
				{Gear: gear["QSC K12.2"], Qty: 2},
				{Gear: gear["Yamaha MG10XU"], Qty: 1},
				{Gear: gear["Shure SM58"], Qty: 1},
			},
		},
		{
			name: "Party Pack", description: "Tops, sub and lights for up to 150 guests",
			rate: 17500, stock: 3,
			items: []catalog.PackageItem{
				{Gear: gear["QSC K12.2"], Qty: 2},
				{Gear: gear["QSC KS118"], Qty: 1},
				{Gear: gear["Yamaha MG10XU"], Qty: 1},
				{Gear: gear["Shure SM58"], Qty: 2},
				{Gear: gear["Chauvet SlimPAR Pro"], Qty: 4, Notes: "on two stands"},
			},
		},
	}
	for _, ps := range packages {
		rate, err := money.New(ps.rate, s.currency)
		if err != nil {
			return err
		}
		pkg, err := catalog.NewPackage(ps.name, ps.description, rate, ps.stock, ps.items)
		if err != nil {
			return fmt.Errorf("seed package %s: %w", ps.name, err)
		}
		if err := s.Packages().Save(ctx, pkg); err != nil {
			return err
		}
	}
	return nil
}
