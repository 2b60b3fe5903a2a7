// Package schedule carves a principal into dated installments.
package schedule

import (
	"bnpl-engine/internal/pkg/apperrors"
	"bnpl-engine/internal/pkg/money"
	"fmt"
	"strings"
	"time"
)

type Cadence string

const (
	PayInFull Cadence = "pay_in_full"
	PayLater  Cadence = "pay_later"
	Biweekly4 Cadence = "biweekly_4"
	Monthly3  Cadence = "monthly_3"
	Monthly6  Cadence = "monthly_6"
	Monthly12 Cadence = "monthly_12"
	Monthly24 Cadence = "monthly_24"
)

// Plan is the shape of a cadence. Installment i (1-based) is due
// i*MonthStep months and i*DayStep days after the start date.
type Plan struct {
	Count     int
	DayStep   int
	MonthStep int
}

func Cadences() []Cadence {
	return []Cadence{PayInFull, PayLater, Biweekly4, Monthly3, Monthly6, Monthly12, Monthly24}
}

func (c Cadence) Plan() (Plan, error) {
	switch c {
	case PayInFull:
		return Plan{Count: 1, DayStep: 1}, nil
	case PayLater:
		return Plan{Count: 1, DayStep: 30}, nil
	case Biweekly4:
		return Plan{Count: 4, DayStep: 15}, nil
	case Monthly3:
		return Plan{Count: 3, MonthStep: 1}, nil
	case Monthly6:
		return Plan{Count: 6, MonthStep: 1}, nil
	case Monthly12:
		return Plan{Count: 12, MonthStep: 1}, nil
	case Monthly24:
		return Plan{Count: 24, MonthStep: 1}, nil
	}
	return Plan{}, fmt.Errorf("%w: unknown cadence %q", apperrors.ErrInvalidArgument, string(c))
}

func (c Cadence) Valid() bool {
	_, err := c.Plan()
	return err == nil
}

func ParseCadence(s string) (Cadence, error) {
	c := Cadence(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown cadence %q", apperrors.ErrInvalidArgument, s)
	}
	return c, nil
}

type Entry struct {
	Sequence int
	Amount   money.Money
	DueDate  time.Time
}

// Build truncates principal/count to the cent for every installment but the
// last, which absorbs the remainder so the amounts sum to principal exactly.
// It is deterministic for identical inputs.
func Build(principal money.Money, cadence Cadence, start time.Time) ([]Entry, error) {
	if principal <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive, got %s", apperrors.ErrInvalidArgument, principal)
	}
	plan, err := cadence.Plan()
	if err != nil {
		return nil, err
	}

	base := principal / money.Money(plan.Count)
	entries := make([]Entry, plan.Count)
	var allocated money.Money
	for i := 0; i < plan.Count; i++ {
		seq := i + 1
		amount := base
		if seq == plan.Count {
			amount = principal - allocated
		}
		allocated += amount
		entries[i] = Entry{
			Sequence: seq,
			Amount:   amount,
			DueDate:  start.AddDate(0, plan.MonthStep*seq, plan.DayStep*seq),
		}
	}
	return entries, nil
}

func Total(entries []Entry) money.Money {
	var total money.Money
	for _, e := range entries {
		total += e.Amount
	}
	return total
}
