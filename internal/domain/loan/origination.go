package loan

import (
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Terms describes one loan to open inside a caller-owned transaction.
type Terms struct {
	CustomerID int64
	MerchantID int64
	Amount     money.Money
	Plan       schedule.Cadence
	GroupID    *int64
	Start      time.Time
}

type Origination struct {
	Order        *Order
	Loan         *Loan
	Installments []Installment
}

// Originate writes an order, its loan and the loan's installments. It does
// not touch the customer's credit.
func Originate(ctx context.Context, tx pgx.Tx, repo Repository, t Terms) (*Origination, error) {
	entries, err := schedule.Build(t.Amount, t.Plan, t.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule: %w", err)
	}

	order := &Order{
		CustomerID: t.CustomerID,
		MerchantID: t.MerchantID,
		Total:      t.Amount,
		Status:     OrderPending,
		GroupID:    t.GroupID,
	}
	if err := repo.CreateOrderInTx(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	ln := &Loan{
		OrderID:          order.ID,
		CustomerID:       t.CustomerID,
		Principal:        t.Amount,
		RemainingBalance: t.Amount,
		Plan:             t.Plan,
		Status:           StatusActive,
	}
	if err := repo.CreateLoanInTx(ctx, tx, ln); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	items, err := repo.CreateInstallmentsInTx(ctx, tx, InstallmentsFromSchedule(ln.ID, entries, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to create installments: %w", err)
	}
	ln.Installments = items

	return &Origination{Order: order, Loan: ln, Installments: items}, nil
}

// Reschedule replaces the pending installments of a locked loan with a new
// schedule for balance. Paid installments are kept, so the principal becomes
// what was already paid plus the new balance.
func Reschedule(ctx context.Context, tx pgx.Tx, repo Repository, ln *Loan, balance money.Money, plan schedule.Cadence, start time.Time) ([]Installment, error) {
	entries, err := schedule.Build(balance, plan, start)
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule for loan %d: %w", ln.ID, err)
	}

	if _, err := repo.DeletePendingInstallmentsInTx(ctx, tx, ln.ID); err != nil {
		return nil, fmt.Errorf("failed to drop pending installments of loan %d: %w", ln.ID, err)
	}
	offset, err := repo.MaxInstallmentSequenceInTx(ctx, tx, ln.ID)
	if err != nil {
		return nil, err
	}

	principal := ln.Principal - ln.RemainingBalance + balance
	if err := repo.RestructureLoanInTx(ctx, tx, ln.ID, principal, balance, plan); err != nil {
		return nil, fmt.Errorf("failed to restructure loan %d: %w", ln.ID, err)
	}

	items, err := repo.CreateInstallmentsInTx(ctx, tx, InstallmentsFromSchedule(ln.ID, entries, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to create installments for loan %d: %w", ln.ID, err)
	}

	ln.Principal = principal
	ln.RemainingBalance = balance
	ln.Plan = plan
	return items, nil
}
