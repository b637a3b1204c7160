// Package settings holds the single-row global configuration edited by
// admins, currently the add-on daily rate.
package settings

import (
	"context"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
)

// DefaultAddonDailyRate applies when the settings row has never been seeded.
const DefaultAddonDailyRate int64 = 15000

// Repository reads and writes the settings row. Implementations must read
// through to storage on every call; the rate is never cached in process.
type Repository interface {
	AddonDailyRate(ctx context.Context) (money.Money, error)
	UpdateAddonDailyRate(ctx context.Context, rate money.Money) error
}
