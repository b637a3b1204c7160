package booking

import (
	"fmt"
	"strings"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
)

// PricingStrategy defines the interface for calculating booking prices.
type PricingStrategy interface {
	// Calculate returns the itemized price for the given parameters.
	Calculate(params PricingParams) (PriceBreakdown, error)
}

// PricingParams holds the inputs for price calculation. AddonDailyRate is
// ignored unless IncludeAddon is set.
type PricingParams struct {
	DailyRate      money.Money
	AddonDailyRate money.Money
	IncludeAddon   bool
	Range          DateRange
	Qty            int
}

// PriceBreakdown itemizes a rental price. AddonRate and AddonPrice are zero
// when the add-on was not requested.
type PriceBreakdown struct {
	Days         int         `json:"days"`
	Qty          int         `json:"qty"`
	DailyRate    money.Money `json:"daily_rate"`
	BasePrice    money.Money `json:"base_price"`
	IncludeAddon bool        `json:"include_addon"`
	AddonRate    money.Money `json:"addon_rate"`
	AddonPrice   money.Money `json:"addon_price"`
	Total        money.Money `json:"total"`
}

// Format renders the breakdown one line per charge, ending with the total:
//
//	Equipment: $175.00/day × 3 days × 1 qty = $525.00
//	DJ Service: $150.00/day × 3 days × 1 qty = $450.00
//	Total: $975.00
func (b PriceBreakdown) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Equipment: %s/day × %d days × %d qty = %s\n",
		b.DailyRate.Format(), b.Days, b.Qty, b.BasePrice.Format())
	if b.IncludeAddon && !b.AddonPrice.IsZero() {
		fmt.Fprintf(&sb, "DJ Service: %s/day × %d days × %d qty = %s\n",
			b.AddonRate.Format(), b.Days, b.Qty, b.AddonPrice.Format())
	}
	fmt.Fprintf(&sb, "Total: %s", b.Total.Format())
	return sb.String()
}

// DailyRatePricing charges (daily rate + add-on rate) per day per unit.
// All arithmetic stays in integer minor units so no rounding is needed.
type DailyRatePricing struct{}

// NewDailyRatePricing creates a new DailyRatePricing.
func NewDailyRatePricing() *DailyRatePricing {
	return &DailyRatePricing{}
}

// Calculate computes total = (daily_rate + addon_rate) × days × qty.
func (s *DailyRatePricing) Calculate(params PricingParams) (PriceBreakdown, error) {
	if err := params.Range.Validate(); err != nil {
		return PriceBreakdown{}, err
	}
	if params.Qty <= 0 {
		return PriceBreakdown{}, ErrInvalidQuantity
	}
	if params.DailyRate.IsNegative() {
		return PriceBreakdown{}, fmt.Errorf("daily rate cannot be negative")
	}

	days := params.Range.Days()
	base, err := lineTotal(params.DailyRate, days, params.Qty)
	if err != nil {
		return PriceBreakdown{}, fmt.Errorf("failed to compute base price: %w", err)
	}

	b := PriceBreakdown{
		Days:         days,
		Qty:          params.Qty,
		DailyRate:    params.DailyRate,
		BasePrice:    base,
		IncludeAddon: params.IncludeAddon,
		AddonRate:    money.Zero(params.DailyRate.Currency),
		AddonPrice:   money.Zero(params.DailyRate.Currency),
		Total:        base,
	}
	if !params.IncludeAddon {
		return b, nil
	}

	if params.AddonDailyRate.IsNegative() {
		return PriceBreakdown{}, fmt.Errorf("add-on daily rate cannot be negative")
	}
	b.AddonRate = params.AddonDailyRate
	b.AddonPrice, err = lineTotal(params.AddonDailyRate, days, params.Qty)
	if err != nil {
		return PriceBreakdown{}, fmt.Errorf("failed to compute add-on price: %w", err)
	}
	total, err := b.BasePrice.Add(b.AddonPrice)
	if err != nil {
		return PriceBreakdown{}, fmt.Errorf("failed to add add-on price: %w", err)
	}
	b.Total = total
	return b, nil
}

// lineTotal is rate × days × qty with overflow checks on each step.
func lineTotal(rate money.Money, days, qty int) (money.Money, error) {
	perUnit, err := rate.Multiply(int64(days))
	if err != nil {
		return money.Money{}, err
	}
	return perUnit.Multiply(int64(qty))
}
