// Package money keeps monetary amounts as integer minor units (cents) so
// that prices never drift through floating point.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyUSD is the default currency for rentals.
const CurrencyUSD = "USD"

// Scale is the number of decimal places kept for every amount.
const Scale = 2

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrNegativeAmount   = errors.New("money: amount cannot be negative")
	ErrInvalidAmount    = errors.New("money: invalid amount")
	ErrOverflow         = errors.New("money: amount out of range")
)

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Money is an amount in minor units of Currency.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New validates the currency code and returns the amount.
func New(amount int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}, nil
}

// Must is New that panics; for fixtures and tests.
func Must(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero amount in currency.
func Zero(currency string) Money {
	return Money{Currency: strings.ToUpper(currency)}
}

// Parse reads a decimal string such as "175.00" or "150". Extra precision
// is rounded half-up to two places. Negative amounts are rejected.
func Parse(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	minor := d.Round(Scale).Shift(Scale)
	if !minor.IsInteger() {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !fitsMinor(minor) {
		return Money{}, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return New(minor.IntPart(), currency)
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	sum := decimal.NewFromInt(m.Amount).Add(decimal.NewFromInt(other.Amount))
	if !fitsMinor(sum) {
		return Money{}, ErrOverflow
	}
	return Money{Amount: sum.IntPart(), Currency: m.Currency}, nil
}

// Multiply scales the amount by an integer factor. It fails with
// ErrOverflow when the product does not fit in int64 minor units.
func (m Money) Multiply(times int64) (Money, error) {
	product := decimal.NewFromInt(m.Amount).Mul(decimal.NewFromInt(times))
	if !fitsMinor(product) {
		return Money{}, ErrOverflow
	}
	return Money{Amount: product.IntPart(), Currency: m.Currency}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Decimal returns the amount in major units, e.g. 97500 -> 975.00.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -Scale)
}

// String formats the amount with two decimals, e.g. "975.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(Scale)
}

// Format renders the amount for people, e.g. "$975.00" or "975.00 EUR".
func (m Money) Format() string {
	if m.Currency == CurrencyUSD {
		return "$" + m.String()
	}
	return m.String() + " " + m.Currency
}

func fitsMinor(d decimal.Decimal) bool {
	return d.Cmp(maxMinor) <= 0 && d.Cmp(minMinor) >= 0
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}
