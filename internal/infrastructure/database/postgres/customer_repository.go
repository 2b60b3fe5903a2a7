package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bnpl-engine/internal/domain/customer"
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/apperrors"
	"bnpl-engine/internal/pkg/money"

	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, name, email, available_credit_cents, repayment_preference, active, created_at, updated_at`

type CustomerRepository struct {
	txSupport
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{txSupport{db: db, logger: logger.With("component", "CustomerRepository")}}
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.ID,
		&cust.Name,
		&cust.Email,
		(*int64)(&cust.AvailableCredit),
		(*string)(&cust.RepaymentPreference),
		&cust.Active,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	if cust.ID == 0 {
		return r.createCustomer(ctx, cust)
	}
	return r.updateCustomer(ctx, cust)
}

func (r *CustomerRepository) createCustomer(ctx context.Context, cust *customer.Customer) (err error) {
	defer func(start time.Time) { observe("CreateCustomer", start, err) }(time.Now())

	query := `
        INSERT INTO customers (name, email, available_credit_cents, repayment_preference, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		cust.Name,
		cust.Email,
		int64(cust.AvailableCredit),
		string(cust.RepaymentPreference),
		cust.Active,
	).Scan(&cust.ID, &cust.CreatedAt, &cust.UpdatedAt)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Customer email already registered", slog.String("email", cust.Email))
			return translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translated
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.ID))
	return nil
}

// updateCustomer leaves available credit alone: it only moves through
// AdjustCreditInTx.
func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) (err error) {
	defer func(start time.Time) { observe("UpdateCustomer", start, err) }(time.Now())

	query := `
        UPDATE customers
        SET name = $1,
            email = $2,
            repayment_preference = $3,
            active = $4,
            updated_at = NOW()
        WHERE id = $5`

	cmdTag, err := r.db.Exec(ctx, query, cust.Name, cust.Email, string(cust.RepaymentPreference), cust.Active, cust.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, customer likely not found", slog.Int64("customerID", cust.ID))
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (cust *customer.Customer, err error) {
	defer func(start time.Time) { observe("FindCustomerByID", start, err) }(time.Now())

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	cust, err = scanCustomer(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context, activeOnly bool) (customers []*customer.Customer, err error) {
	defer func(start time.Time) { observe("FindAllCustomers", start, err) }(time.Now())

	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	if activeOnly {
		query += " WHERE active = $1"
		args = append(args, true)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	customers = make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return customers, nil
}

func (r *CustomerRepository) SetActiveStatus(ctx context.Context, customerID int64, isActive bool) (err error) {
	defer func(start time.Time) { observe("SetCustomerActive", start, err) }(time.Now())

	query := `UPDATE customers SET active = $1, updated_at = NOW() WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, query, isActive, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute update active status", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update active status affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) UpdatePreference(ctx context.Context, customerID int64, cadence schedule.Cadence) (err error) {
	defer func(start time.Time) { observe("UpdateRepaymentPreference", start, err) }(time.Now())

	query := `UPDATE customers SET repayment_preference = $1, updated_at = NOW() WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, query, string(cadence), customerID)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (cust *customer.Customer, err error) {
	defer func(start time.Time) { observe("LockCustomer", start, err) }(time.Now())

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`
	cust, err = scanCustomer(tx.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		return nil, translateDBError(err, r.logger)
	}
	return cust, nil
}

func (r *CustomerRepository) FindByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (cust *customer.Customer, err error) {
	defer func(start time.Time) { observe("FindCustomerByEmail", start, err) }(time.Now())

	query := `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = lower($1)`
	cust, err = scanCustomer(tx.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateDBError(err, r.logger)
	}
	return cust, nil
}

// AdjustCreditInTx applies delta in place so concurrent adjustments compose
// instead of overwriting each other.
func (r *CustomerRepository) AdjustCreditInTx(ctx context.Context, tx pgx.Tx, customerID int64, delta money.Money) (available money.Money, err error) {
	defer func(start time.Time) { observe("AdjustCredit", start, err) }(time.Now())

	query := `
        UPDATE customers
        SET available_credit_cents = available_credit_cents + $1, updated_at = NOW()
        WHERE id = $2 AND available_credit_cents + $1 >= 0
        RETURNING available_credit_cents`

	err = tx.QueryRow(ctx, query, int64(delta), customerID).Scan((*int64)(&available))
	if err == nil {
		r.logger.DebugContext(ctx, "Credit adjusted", slog.Int64("customerID", customerID), slog.String("delta", delta.String()))
		return available, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, translateDBError(err, r.logger)
	}

	var current int64
	err = tx.QueryRow(ctx, `SELECT available_credit_cents FROM customers WHERE id = $1`, customerID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
	}
	if err != nil {
		return 0, translateDBError(err, r.logger)
	}
	return 0, apperrors.NewInsufficientCreditError(customerID, delta.Neg(), money.Money(current))
}

func (r *CustomerRepository) SuspendInTx(ctx context.Context, tx pgx.Tx, customerID int64) (changed bool, err error) {
	defer func(start time.Time) { observe("SuspendCustomer", start, err) }(time.Now())

	query := `UPDATE customers SET active = false, updated_at = NOW() WHERE id = $1 AND active = true`
	cmdTag, err := tx.Exec(ctx, query, customerID)
	if err != nil {
		return false, translateDBError(err, r.logger)
	}
	return cmdTag.RowsAffected() > 0, nil
}

const instrumentColumns = `id, customer_id, brand, last4, is_default, created_at`

func scanInstrument(row pgx.Row) (*customer.PaymentInstrument, error) {
	var inst customer.PaymentInstrument
	if err := row.Scan(&inst.ID, &inst.CustomerID, &inst.Brand, &inst.Last4, &inst.IsDefault, &inst.CreatedAt); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *CustomerRepository) SaveInstrument(ctx context.Context, inst *customer.PaymentInstrument) (err error) {
	defer func(start time.Time) { observe("SaveInstrument", start, err) }(time.Now())

	query := `
        INSERT INTO payment_instruments (customer_id, brand, last4, is_default, created_at)
        VALUES ($1, $2, $3, false, NOW())
        RETURNING id, created_at`

	err = r.db.QueryRow(ctx, query, inst.CustomerID, inst.Brand, inst.Last4).Scan(&inst.ID, &inst.CreatedAt)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *CustomerRepository) FindInstrumentInTx(ctx context.Context, tx pgx.Tx, instrumentID int64) (inst *customer.PaymentInstrument, err error) {
	defer func(start time.Time) { observe("FindInstrument", start, err) }(time.Now())

	query := `SELECT ` + instrumentColumns + ` FROM payment_instruments WHERE id = $1`
	inst, err = scanInstrument(tx.QueryRow(ctx, query, instrumentID))
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return inst, nil
}

func (r *CustomerRepository) ListInstruments(ctx context.Context, customerID int64) (items []*customer.PaymentInstrument, err error) {
	defer func(start time.Time) { observe("ListInstruments", start, err) }(time.Now())

	query := `SELECT ` + instrumentColumns + ` FROM payment_instruments WHERE customer_id = $1 ORDER BY is_default DESC, id ASC`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	items = make([]*customer.PaymentInstrument, 0)
	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan instrument row: %w", apperrors.ErrDatabase, err)
		}
		items = append(items, inst)
	}
	if err = rows.Err(); err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return items, nil
}

// SetDefaultInstrument clears the previous default first; the partial unique
// index on (customer_id) WHERE is_default rejects two defaults.
func (r *CustomerRepository) SetDefaultInstrument(ctx context.Context, customerID, instrumentID int64) (err error) {
	defer func(start time.Time) { observe("SetDefaultInstrument", start, err) }(time.Now())

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.RollbackTx(ctx, tx)
		}
	}()

	if _, err = tx.Exec(ctx, `UPDATE payment_instruments SET is_default = false WHERE customer_id = $1 AND is_default`, customerID); err != nil {
		return translateDBError(err, r.logger)
	}
	cmdTag, err := tx.Exec(ctx, `UPDATE payment_instruments SET is_default = true WHERE id = $1 AND customer_id = $2`, instrumentID, customerID)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		err = apperrors.ErrNotFound
		return err
	}
	return r.CommitTx(ctx, tx)
}
