// Package money holds ledger amounts as integer minor units (cents).
// Decimal strings only appear at the HTTP and event boundaries.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const scale = 2

var ErrInvalidAmount = errors.New("invalid money amount")

type Money int64

func Cents(c int64) Money { return Money(c) }

func FromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(scale)) {
		return 0, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d.String(), scale)
	}
	minor := d.Shift(scale)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, d.String())
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, d.String())
	}
	return Money(minor.IntPart()), nil
}

func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// MustParse is meant for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -scale)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(scale)
}

func (m Money) IsPositive() bool { return m > 0 }

func (m Money) IsZero() bool { return m == 0 }

func (m Money) Neg() Money { return -m }

// Percent applies rate and rounds half away from zero to the nearest cent.
func (m Money) Percent(rate decimal.Decimal) Money {
	return Money(m.Decimal().Mul(rate).Round(scale).Shift(scale).IntPart())
}

// Allocate splits total into n shares that differ by at most one cent and
// sum to total exactly. Leftover cents go to the leading shares.
func Allocate(total Money, n int) ([]Money, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: cannot allocate across %d shares", ErrInvalidAmount, n)
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: cannot allocate negative total %s", ErrInvalidAmount, total)
	}
	base := int64(total) / int64(n)
	rem := int64(total) % int64(n)
	shares := make([]Money, n)
	for i := range shares {
		shares[i] = Money(base)
		if int64(i) < rem {
			shares[i]++
		}
	}
	return shares, nil
}

func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
