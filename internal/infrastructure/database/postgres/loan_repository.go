package postgres

import (
	"bnpl-engine/internal/domain/loan"
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/apperrors"
	"bnpl-engine/internal/pkg/money"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	orderColumns       = `id, customer_id, merchant_id, total_cents, status, group_id, created_at`
	loanColumns        = `id, order_id, customer_id, principal_cents, remaining_balance_cents, plan, status, created_at, updated_at`
	installmentColumns = `id, loan_id, sequence, amount_cents, due_date, status, paid_date`
)

type LoanRepository struct {
	txSupport
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{txSupport{db: db, logger: logger.With("component", "LoanRepository")}}
}

func scanOrder(row pgx.Row) (*loan.Order, error) {
	var o loan.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.MerchantID, (*int64)(&o.Total), (*string)(&o.Status), &o.GroupID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID, &l.OrderID, &l.CustomerID,
		(*int64)(&l.Principal), (*int64)(&l.RemainingBalance),
		(*string)(&l.Plan), (*string)(&l.Status),
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanInstallment(row pgx.Row) (loan.Installment, error) {
	var it loan.Installment
	err := row.Scan(&it.ID, &it.LoanID, &it.Sequence, (*int64)(&it.Amount), &it.DueDate, (*string)(&it.Status), &it.PaidDate)
	return it, err
}

func collectInstallments(rows pgx.Rows) ([]loan.Installment, error) {
	defer rows.Close()
	items := make([]loan.Installment, 0)
	for rows.Next() {
		it, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan installment row: %w", apperrors.ErrDatabase, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *LoanRepository) CreateOrderInTx(ctx context.Context, tx pgx.Tx, order *loan.Order) (err error) {
	defer func(start time.Time) { observe("CreateOrder", start, err) }(time.Now())

	query := `
        INSERT INTO orders (customer_id, merchant_id, total_cents, status, group_id, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at`

	err = tx.QueryRow(ctx, query, order.CustomerID, order.MerchantID, int64(order.Total), string(order.Status), order.GroupID).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert order", "customer_id", order.CustomerID, "error", err)
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *LoanRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) (err error) {
	defer func(start time.Time) { observe("CreateLoan", start, err) }(time.Now())

	query := `
        INSERT INTO loans (order_id, customer_id, principal_cents, remaining_balance_cents, plan, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		l.OrderID, l.CustomerID, int64(l.Principal), int64(l.RemainingBalance), string(l.Plan), string(l.Status),
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "order_id", l.OrderID, "error", err)
		return translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", l.ID)
	return nil
}

func (r *LoanRepository) CreateInstallmentsInTx(ctx context.Context, tx pgx.Tx, items []loan.Installment) (out []loan.Installment, err error) {
	defer func(start time.Time) { observe("CreateInstallments", start, err) }(time.Now())

	if len(items) == 0 {
		return nil, nil
	}

	query := `
        INSERT INTO installments (loan_id, sequence, amount_cents, due_date, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(query, it.LoanID, it.Sequence, int64(it.Amount), it.DueDate, string(it.Status))
	}

	results := tx.SendBatch(ctx, batch)
	out = make([]loan.Installment, len(items))
	for i, it := range items {
		if err = results.QueryRow().Scan(&it.ID); err != nil {
			results.Close()
			r.logger.ErrorContext(ctx, "Failed executing installment batch insert", "error", err, "entry_index", i, "loan_id", it.LoanID)
			return nil, translateDBError(err, r.logger)
		}
		out[i] = it
	}
	if err = results.Close(); err != nil {
		r.logger.ErrorContext(ctx, "Failed closing installment batch results", "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return out, nil
}

func (r *LoanRepository) GetOrderInTx(ctx context.Context, tx pgx.Tx, orderID int64) (o *loan.Order, err error) {
	defer func(start time.Time) { observe("GetOrder", start, err) }(time.Now())

	o, err = scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return o, nil
}

func (r *LoanRepository) GetLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (l *loan.Loan, err error) {
	defer func(start time.Time) { observe("LockLoan", start, err) }(time.Now())

	l, err = scanLoan(tx.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
		}
		return nil, translateDBError(err, r.logger)
	}
	return l, nil
}

func (r *LoanRepository) GetInstallmentInTx(ctx context.Context, tx pgx.Tx, installmentID int64) (*loan.Installment, error) {
	return r.getInstallment(ctx, tx, `SELECT `+installmentColumns+` FROM installments WHERE id = $1`, installmentID)
}

func (r *LoanRepository) GetInstallmentForUpdate(ctx context.Context, tx pgx.Tx, installmentID int64) (*loan.Installment, error) {
	return r.getInstallment(ctx, tx, `SELECT `+installmentColumns+` FROM installments WHERE id = $1 FOR UPDATE`, installmentID)
}

func (r *LoanRepository) getInstallment(ctx context.Context, tx pgx.Tx, query string, installmentID int64) (_ *loan.Installment, err error) {
	defer func(start time.Time) { observe("GetInstallment", start, err) }(time.Now())

	it, err := scanInstallment(tx.QueryRow(ctx, query, installmentID))
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return &it, nil
}

func (r *LoanRepository) GetInstallmentsInTx(ctx context.Context, tx pgx.Tx, loanID int64) (items []loan.Installment, err error) {
	defer func(start time.Time) { observe("ListInstallments", start, err) }(time.Now())
	return r.listInstallments(ctx, tx, loanID)
}

func (r *LoanRepository) GetInstallmentsByLoanID(ctx context.Context, loanID int64) (items []loan.Installment, err error) {
	defer func(start time.Time) { observe("ListInstallments", start, err) }(time.Now())
	return r.listInstallments(ctx, r.db, loanID)
}

func (r *LoanRepository) listInstallments(ctx context.Context, q querier, loanID int64) ([]loan.Installment, error) {
	rows, err := q.Query(ctx, `SELECT `+installmentColumns+` FROM installments WHERE loan_id = $1 ORDER BY sequence`, loanID)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	items, err := collectInstallments(rows)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return items, nil
}

func (r *LoanRepository) MarkInstallmentPaidInTx(ctx context.Context, tx pgx.Tx, installmentID int64, paidAt time.Time) (err error) {
	defer func(start time.Time) { observe("MarkInstallmentPaid", start, err) }(time.Now())

	query := `UPDATE installments SET status = $1, paid_date = $2 WHERE id = $3 AND status <> $1`
	cmdTag, err := tx.Exec(ctx, query, string(loan.InstallmentPaid), paidAt, installmentID)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: installment %d", apperrors.ErrAlreadyPaid, installmentID)
	}
	return nil
}

func (r *LoanRepository) DebitLoanBalanceInTx(ctx context.Context, tx pgx.Tx, loanID int64, amount money.Money) (balance money.Money, err error) {
	defer func(start time.Time) { observe("DebitLoanBalance", start, err) }(time.Now())

	query := `
        UPDATE loans
        SET remaining_balance_cents = remaining_balance_cents - $1, updated_at = NOW()
        WHERE id = $2
        RETURNING remaining_balance_cents`

	if err = tx.QueryRow(ctx, query, int64(amount), loanID).Scan((*int64)(&balance)); err != nil {
		return 0, translateDBError(err, r.logger)
	}
	return balance, nil
}

func (r *LoanRepository) RestructureLoanInTx(ctx context.Context, tx pgx.Tx, loanID int64, principal, balance money.Money, plan schedule.Cadence) (err error) {
	defer func(start time.Time) { observe("RestructureLoan", start, err) }(time.Now())

	query := `
        UPDATE loans
        SET principal_cents = $1, remaining_balance_cents = $2, plan = $3, updated_at = NOW()
        WHERE id = $4`

	cmdTag, err := tx.Exec(ctx, query, int64(principal), int64(balance), string(plan), loanID)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
	}
	return nil
}

func (r *LoanRepository) DeletePendingInstallmentsInTx(ctx context.Context, tx pgx.Tx, loanID int64) (deleted int64, err error) {
	defer func(start time.Time) { observe("DeletePendingInstallments", start, err) }(time.Now())

	cmdTag, err := tx.Exec(ctx, `DELETE FROM installments WHERE loan_id = $1 AND status <> $2`, loanID, string(loan.InstallmentPaid))
	if err != nil {
		return 0, translateDBError(err, r.logger)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *LoanRepository) MaxInstallmentSequenceInTx(ctx context.Context, tx pgx.Tx, loanID int64) (seq int, err error) {
	defer func(start time.Time) { observe("MaxInstallmentSequence", start, err) }(time.Now())

	if err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(sequence), 0) FROM installments WHERE loan_id = $1`, loanID).Scan(&seq); err != nil {
		return 0, translateDBError(err, r.logger)
	}
	return seq, nil
}

func (r *LoanRepository) UpdateLoanStatusInTx(ctx context.Context, tx pgx.Tx, loanID int64, status loan.Status) (err error) {
	defer func(start time.Time) { observe("UpdateLoanStatus", start, err) }(time.Now())

	cmdTag, err := tx.Exec(ctx, `UPDATE loans SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), loanID)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
	}
	return nil
}

func (r *LoanRepository) UpdateOrderStatusInTx(ctx context.Context, tx pgx.Tx, orderID int64, status loan.OrderStatus) (err error) {
	defer func(start time.Time) { observe("UpdateOrderStatus", start, err) }(time.Now())

	cmdTag, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), orderID)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d", apperrors.ErrNotFound, orderID)
	}
	return nil
}

func (r *LoanRepository) SetOrderGroupInTx(ctx context.Context, tx pgx.Tx, orderID, groupID int64) (err error) {
	defer func(start time.Time) { observe("SetOrderGroup", start, err) }(time.Now())

	cmdTag, err := tx.Exec(ctx, `UPDATE orders SET group_id = $1 WHERE id = $2 AND group_id IS NULL`, groupID, orderID)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d is missing or already grouped", apperrors.ErrConflict, orderID)
	}
	return nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (l *loan.Loan, err error) {
	defer func(start time.Time) { observe("GetLoanByID", start, err) }(time.Now())

	l, err = scanLoan(r.db.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return l, nil
}

func (r *LoanRepository) GetPendingInstallmentsByCustomer(ctx context.Context, customerID int64) (items []loan.Installment, err error) {
	defer func(start time.Time) { observe("PendingInstallmentsByCustomer", start, err) }(time.Now())

	query := `
        SELECT i.id, i.loan_id, i.sequence, i.amount_cents, i.due_date, i.status, i.paid_date
        FROM installments i
        JOIN loans l ON l.id = i.loan_id
        WHERE l.customer_id = $1 AND l.status = $2 AND i.status <> $3
        ORDER BY i.due_date, i.id`

	rows, err := r.db.Query(ctx, query, customerID, string(loan.StatusActive), string(loan.InstallmentPaid))
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	items, err = collectInstallments(rows)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return items, nil
}

func (r *LoanRepository) FindOverdueCustomerIDs(ctx context.Context, cutoff time.Time) (ids []int64, err error) {
	logCtx := r.logger.With(slog.String("operation", "FindOverdueCustomerIDs"))
	defer func(start time.Time) { observe("FindOverdueCustomerIDs", start, err) }(time.Now())

	query := `
        SELECT DISTINCT l.customer_id
        FROM installments i
        JOIN loans l ON l.id = i.loan_id
        JOIN customers c ON c.id = l.customer_id
        WHERE i.status <> $1 AND i.due_date < $2 AND l.status <> $3 AND c.active
        ORDER BY l.customer_id`

	rows, err := r.db.Query(ctx, query, string(loan.InstallmentPaid), cutoff, string(loan.StatusCancelled))
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query overdue customers", slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	ids = make([]int64, 0)
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: failed to scan customer id: %w", apperrors.ErrDatabase, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, translateDBError(err, r.logger)
	}
	logCtx.DebugContext(ctx, "Found overdue customers", slog.Int("count", len(ids)), slog.Time("cutoff", cutoff))
	return ids, nil
}

func (r *LoanRepository) HasOverdueInstallmentsInTx(ctx context.Context, tx pgx.Tx, customerID int64, cutoff time.Time) (overdue bool, err error) {
	defer func(start time.Time) { observe("HasOverdueInstallments", start, err) }(time.Now())

	query := `
        SELECT EXISTS (
            SELECT 1
            FROM installments i
            JOIN loans l ON l.id = i.loan_id
            WHERE l.customer_id = $1 AND i.status <> $2 AND i.due_date < $3 AND l.status <> $4
        )`

	err = tx.QueryRow(ctx, query, customerID, string(loan.InstallmentPaid), cutoff, string(loan.StatusCancelled)).Scan(&overdue)
	if err != nil {
		return false, translateDBError(err, r.logger)
	}
	return overdue, nil
}
