package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"175.00", 17500},
		{"150", 15000},
		{"0", 0},
		{"12.345", 1235},
		{"12.344", 1234},
		{"0.005", 1},
		{" 99.9 ", 9990},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := Parse(tt.in, "usd")
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Amount)
			assert.Equal(t, CurrencyUSD, m.Currency)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse("-1.00", CurrencyUSD)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = Parse("abc", CurrencyUSD)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Parse("1.00", "US")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestMoney_Arithmetic(t *testing.T) {
	rate := Must(17500, CurrencyUSD)
	addon := Must(15000, CurrencyUSD)

	perDay, err := rate.Add(addon)
	require.NoError(t, err)
	assert.Equal(t, int64(32500), perDay.Amount)
	total, err := perDay.Multiply(3)
	require.NoError(t, err)
	assert.Equal(t, "975.00", total.String())

	_, err = rate.Add(Must(100, "EUR"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestParse_RejectsOverflow(t *testing.T) {
	for _, in := range []string{"100000000000000000", "92233720368547758.08", "1e30"} {
		_, err := Parse(in, CurrencyUSD)
		assert.ErrorIs(t, err, ErrOverflow, in)
	}

	m, err := Parse("92233720368547758.07", CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), m.Amount)
}

func TestMoney_ArithmeticOverflow(t *testing.T) {
	big := Must(math.MaxInt64-10, CurrencyUSD)

	_, err := big.Add(Must(11, CurrencyUSD))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Must(100000000000, CurrencyUSD).Multiply(365 * 1000000)
	assert.ErrorIs(t, err, ErrOverflow)

	m, err := big.Multiply(1)
	require.NoError(t, err)
	assert.Equal(t, big, m)
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "$975.00", Must(97500, CurrencyUSD).Format())
	assert.Equal(t, "0.05 EUR", Must(5, "EUR").Format())
	assert.Equal(t, "0.00", Zero(CurrencyUSD).String())
}
