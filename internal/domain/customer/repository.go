package customer

import (
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"context"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindAll(ctx context.Context, activeOnly bool) ([]*Customer, error)

	SetActiveStatus(ctx context.Context, customerID int64, isActive bool) error

	UpdatePreference(ctx context.Context, customerID int64, cadence schedule.Cadence) error

	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (*Customer, error)

	FindByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (*Customer, error)

	// AdjustCreditInTx adds delta to the available credit and returns the new
	// balance. It fails with ErrInsufficientCredit instead of going negative.
	AdjustCreditInTx(ctx context.Context, tx pgx.Tx, customerID int64, delta money.Money) (money.Money, error)

	// SuspendInTx reports false when the customer was already suspended.
	SuspendInTx(ctx context.Context, tx pgx.Tx, customerID int64) (bool, error)

	SaveInstrument(ctx context.Context, instrument *PaymentInstrument) error

	FindInstrumentInTx(ctx context.Context, tx pgx.Tx, instrumentID int64) (*PaymentInstrument, error)

	ListInstruments(ctx context.Context, customerID int64) ([]*PaymentInstrument, error)

	SetDefaultInstrument(ctx context.Context, customerID, instrumentID int64) error
}
