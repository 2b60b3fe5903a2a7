package loan

import (
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error

	CreateOrderInTx(ctx context.Context, tx pgx.Tx, order *Order) error

	CreateLoanInTx(ctx context.Context, tx pgx.Tx, loan *Loan) error

	// CreateInstallmentsInTx fills in the generated ids.
	CreateInstallmentsInTx(ctx context.Context, tx pgx.Tx, items []Installment) ([]Installment, error)

	GetOrderInTx(ctx context.Context, tx pgx.Tx, orderID int64) (*Order, error)

	GetLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error)

	// GetInstallmentInTx reads without locking; callers lock the loan first.
	GetInstallmentInTx(ctx context.Context, tx pgx.Tx, installmentID int64) (*Installment, error)

	GetInstallmentForUpdate(ctx context.Context, tx pgx.Tx, installmentID int64) (*Installment, error)

	GetInstallmentsInTx(ctx context.Context, tx pgx.Tx, loanID int64) ([]Installment, error)

	MarkInstallmentPaidInTx(ctx context.Context, tx pgx.Tx, installmentID int64, paidAt time.Time) error

	// DebitLoanBalanceInTx subtracts amount in place and returns the new balance.
	DebitLoanBalanceInTx(ctx context.Context, tx pgx.Tx, loanID int64, amount money.Money) (money.Money, error)

	RestructureLoanInTx(ctx context.Context, tx pgx.Tx, loanID int64, principal, balance money.Money, plan schedule.Cadence) error

	DeletePendingInstallmentsInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int64, error)

	MaxInstallmentSequenceInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int, error)

	UpdateLoanStatusInTx(ctx context.Context, tx pgx.Tx, loanID int64, status Status) error

	UpdateOrderStatusInTx(ctx context.Context, tx pgx.Tx, orderID int64, status OrderStatus) error

	SetOrderGroupInTx(ctx context.Context, tx pgx.Tx, orderID, groupID int64) error

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	GetInstallmentsByLoanID(ctx context.Context, loanID int64) ([]Installment, error)

	GetPendingInstallmentsByCustomer(ctx context.Context, customerID int64) ([]Installment, error)

	FindOverdueCustomerIDs(ctx context.Context, cutoff time.Time) ([]int64, error)

	HasOverdueInstallmentsInTx(ctx context.Context, tx pgx.Tx, customerID int64, cutoff time.Time) (bool, error)
}
