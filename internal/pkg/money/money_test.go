package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("whole and fractional amounts", func(t *testing.T) {
		m, err := Parse("1000.01")
		require.NoError(t, err)
		assert.Equal(t, Money(100001), m)

		m, err = Parse("3000")
		require.NoError(t, err)
		assert.Equal(t, Money(300000), m)
	})

	t.Run("rejects sub-cent precision", func(t *testing.T) {
		_, err := Parse("10.005")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("rejects amounts outside the int64 cent range", func(t *testing.T) {
		for _, in := range []string{"184467440737095516.17", "92233720368547758.08", "-92233720368547758.09", "1e30"} {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalidAmount, in)
		}

		m, err := Parse("92233720368547758.07")
		require.NoError(t, err)
		assert.Equal(t, Money(9223372036854775807), m)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := Parse("ten")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestString(t *testing.T) {
	assert.Equal(t, "250.01", Money(25001).String())
	assert.Equal(t, "0.00", Money(0).String())
	assert.Equal(t, "-1.50", Money(-150).String())
}

func TestPercent(t *testing.T) {
	rate := decimal.RequireFromString("0.15")
	assert.Equal(t, MustParse("450.00"), MustParse("3000.00").Percent(rate))
	// 15% of 0.03 is 0.0045, rounds to 0.00
	assert.Equal(t, Money(0), Money(3).Percent(rate))
	// 15% of 0.10 is 0.015, rounds to 0.02
	assert.Equal(t, Money(2), Money(10).Percent(rate))
}

func TestAllocate(t *testing.T) {
	t.Run("three way split of 1000.00", func(t *testing.T) {
		shares, err := Allocate(MustParse("1000.00"), 3)
		require.NoError(t, err)
		assert.Equal(t, []Money{33334, 33333, 33333}, shares)
		assert.Equal(t, MustParse("1000.00"), Sum(shares...))
	})

	t.Run("even split", func(t *testing.T) {
		shares, err := Allocate(MustParse("900.00"), 3)
		require.NoError(t, err)
		assert.Equal(t, []Money{30000, 30000, 30000}, shares)
	})

	t.Run("conserves cents for many totals", func(t *testing.T) {
		for total := Money(1); total < 5000; total += 37 {
			for n := 1; n <= 7; n++ {
				shares, err := Allocate(total, n)
				require.NoError(t, err)
				assert.Equal(t, total, Sum(shares...))
				assert.LessOrEqual(t, int64(shares[0]-shares[n-1]), int64(1))
			}
		}
	})

	t.Run("invalid share count", func(t *testing.T) {
		_, err := Allocate(100, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}
