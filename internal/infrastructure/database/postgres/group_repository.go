package postgres

import (
	"bnpl-engine/internal/domain/group"
	"bnpl-engine/internal/domain/loan"
	"bnpl-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const groupColumns = `id, original_order_id, creator_id, total_cents, paid_installments_at_split, paid_cents_at_split, created_at`

type GroupRepository struct {
	txSupport
}

var _ group.Repository = (*GroupRepository)(nil)

func NewGroupRepository(db DBPool, logger *slog.Logger) *GroupRepository {
	return &GroupRepository{txSupport{db: db, logger: logger.With("component", "GroupRepository")}}
}

func scanGroup(row pgx.Row) (*group.Group, error) {
	var g group.Group
	if err := row.Scan(&g.ID, &g.OriginalOrderID, &g.CreatorID, (*int64)(&g.Total),
		&g.PaidInstallmentsAtSplit, (*int64)(&g.PaidAmountAtSplit), &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) CreateGroupInTx(ctx context.Context, tx pgx.Tx, g *group.Group) (err error) {
	defer func(start time.Time) { observe("CreateGroup", start, err) }(time.Now())

	query := `
        INSERT INTO payment_groups (original_order_id, creator_id, total_cents, paid_installments_at_split, paid_cents_at_split, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at`

	err = tx.QueryRow(ctx, query, g.OriginalOrderID, g.CreatorID, int64(g.Total),
		g.PaidInstallmentsAtSplit, int64(g.PaidAmountAtSplit)).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert payment group", "order_id", g.OriginalOrderID, "error", err)
		return translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Payment group created in DB", "group_id", g.ID)
	return nil
}

func (r *GroupRepository) GetGroupForUpdate(ctx context.Context, tx pgx.Tx, groupID int64) (g *group.Group, err error) {
	defer func(start time.Time) { observe("LockGroup", start, err) }(time.Now())
	return r.getGroup(ctx, tx, `SELECT `+groupColumns+` FROM payment_groups WHERE id = $1 FOR UPDATE`, groupID)
}

func (r *GroupRepository) GetGroupByID(ctx context.Context, groupID int64) (g *group.Group, err error) {
	defer func(start time.Time) { observe("GetGroupByID", start, err) }(time.Now())
	return r.getGroup(ctx, r.db, `SELECT `+groupColumns+` FROM payment_groups WHERE id = $1`, groupID)
}

func (r *GroupRepository) getGroup(ctx context.Context, q querier, query string, groupID int64) (*group.Group, error) {
	g, err := scanGroup(q.QueryRow(ctx, query, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Payment group not found", "group_id", groupID)
			return nil, fmt.Errorf("%w: group %d", apperrors.ErrNotFound, groupID)
		}
		return nil, translateDBError(err, r.logger)
	}
	return g, nil
}

func (r *GroupRepository) ListMembersInTx(ctx context.Context, tx pgx.Tx, groupID int64) (members []*loan.Loan, err error) {
	defer func(start time.Time) { observe("LockGroupMembers", start, err) }(time.Now())

	query := `
        SELECT l.id, l.order_id, l.customer_id, l.principal_cents, l.remaining_balance_cents, l.plan, l.status, l.created_at, l.updated_at
        FROM loans l
        JOIN orders o ON o.id = l.order_id
        WHERE o.group_id = $1
        ORDER BY l.id ASC
        FOR UPDATE OF l`

	return r.listMembers(ctx, tx, query, groupID)
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID int64) (members []*loan.Loan, err error) {
	defer func(start time.Time) { observe("ListGroupMembers", start, err) }(time.Now())

	query := `
        SELECT l.id, l.order_id, l.customer_id, l.principal_cents, l.remaining_balance_cents, l.plan, l.status, l.created_at, l.updated_at
        FROM loans l
        JOIN orders o ON o.id = l.order_id
        WHERE o.group_id = $1
        ORDER BY l.id ASC`

	return r.listMembers(ctx, r.db, query, groupID)
}

func (r *GroupRepository) listMembers(ctx context.Context, q querier, query string, groupID int64) ([]*loan.Loan, error) {
	rows, err := q.Query(ctx, query, groupID)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	members := make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan member loan: %w", apperrors.ErrDatabase, err)
		}
		members = append(members, l)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return members, nil
}

func (r *GroupRepository) CountPaidInTx(ctx context.Context, tx pgx.Tx, groupID int64) (count int, err error) {
	defer func(start time.Time) { observe("CountGroupPayments", start, err) }(time.Now())

	query := `
        SELECT COUNT(*)
        FROM installments i
        JOIN loans l ON l.id = i.loan_id
        JOIN orders o ON o.id = l.order_id
        WHERE o.group_id = $1 AND i.status = $2`

	if err = tx.QueryRow(ctx, query, groupID, string(loan.InstallmentPaid)).Scan(&count); err != nil {
		return 0, translateDBError(err, r.logger)
	}
	return count, nil
}
