// Package loantest provides a testify mock of loan.Repository for tests in
// other packages.
package loantest

import (
	"bnpl-engine/internal/domain/loan"
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ loan.Repository = (*MockRepository)(nil)

func (m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockRepository) CreateOrderInTx(ctx context.Context, tx pgx.Tx, order *loan.Order) error {
	args := m.Called(ctx, tx, order)
	if rf, ok := args.Get(0).(func(context.Context, pgx.Tx, *loan.Order) error); ok {
		return rf(ctx, tx, order)
	}
	return args.Error(0)
}

func (m *MockRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, ln *loan.Loan) error {
	args := m.Called(ctx, tx, ln)
	if rf, ok := args.Get(0).(func(context.Context, pgx.Tx, *loan.Loan) error); ok {
		return rf(ctx, tx, ln)
	}
	return args.Error(0)
}

func (m *MockRepository) CreateInstallmentsInTx(ctx context.Context, tx pgx.Tx, items []loan.Installment) ([]loan.Installment, error) {
	args := m.Called(ctx, tx, items)
	if rf, ok := args.Get(0).(func(context.Context, pgx.Tx, []loan.Installment) ([]loan.Installment, error)); ok {
		return rf(ctx, tx, items)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loan.Installment), args.Error(1)
}

func (m *MockRepository) GetOrderInTx(ctx context.Context, tx pgx.Tx, orderID int64) (*loan.Order, error) {
	args := m.Called(ctx, tx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Order), args.Error(1)
}

func (m *MockRepository) GetLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*loan.Loan, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockRepository) GetInstallmentInTx(ctx context.Context, tx pgx.Tx, installmentID int64) (*loan.Installment, error) {
	args := m.Called(ctx, tx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Installment), args.Error(1)
}

func (m *MockRepository) GetInstallmentForUpdate(ctx context.Context, tx pgx.Tx, installmentID int64) (*loan.Installment, error) {
	args := m.Called(ctx, tx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Installment), args.Error(1)
}

func (m *MockRepository) GetInstallmentsInTx(ctx context.Context, tx pgx.Tx, loanID int64) ([]loan.Installment, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loan.Installment), args.Error(1)
}

func (m *MockRepository) MarkInstallmentPaidInTx(ctx context.Context, tx pgx.Tx, installmentID int64, paidAt time.Time) error {
	return m.Called(ctx, tx, installmentID, paidAt).Error(0)
}

func (m *MockRepository) DebitLoanBalanceInTx(ctx context.Context, tx pgx.Tx, loanID int64, amount money.Money) (money.Money, error) {
	args := m.Called(ctx, tx, loanID, amount)
	return args.Get(0).(money.Money), args.Error(1)
}

func (m *MockRepository) RestructureLoanInTx(ctx context.Context, tx pgx.Tx, loanID int64, principal, balance money.Money, plan schedule.Cadence) error {
	return m.Called(ctx, tx, loanID, principal, balance, plan).Error(0)
}

func (m *MockRepository) DeletePendingInstallmentsInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int64, error) {
	args := m.Called(ctx, tx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MaxInstallmentSequenceInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int, error) {
	args := m.Called(ctx, tx, loanID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) UpdateLoanStatusInTx(ctx context.Context, tx pgx.Tx, loanID int64, status loan.Status) error {
	return m.Called(ctx, tx, loanID, status).Error(0)
}

func (m *MockRepository) UpdateOrderStatusInTx(ctx context.Context, tx pgx.Tx, orderID int64, status loan.OrderStatus) error {
	return m.Called(ctx, tx, orderID, status).Error(0)
}

func (m *MockRepository) SetOrderGroupInTx(ctx context.Context, tx pgx.Tx, orderID, groupID int64) error {
	return m.Called(ctx, tx, orderID, groupID).Error(0)
}

func (m *MockRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockRepository) GetInstallmentsByLoanID(ctx context.Context, loanID int64) ([]loan.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loan.Installment), args.Error(1)
}

func (m *MockRepository) GetPendingInstallmentsByCustomer(ctx context.Context, customerID int64) ([]loan.Installment, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loan.Installment), args.Error(1)
}

func (m *MockRepository) FindOverdueCustomerIDs(ctx context.Context, cutoff time.Time) ([]int64, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockRepository) HasOverdueInstallmentsInTx(ctx context.Context, tx pgx.Tx, customerID int64, cutoff time.Time) (bool, error) {
	args := m.Called(ctx, tx, customerID, cutoff)
	return args.Bool(0), args.Error(1)
}
