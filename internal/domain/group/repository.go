package group

import (
	"bnpl-engine/internal/domain/loan"
	"context"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	CreateGroupInTx(ctx context.Context, tx pgx.Tx, g *Group) error

	GetGroupForUpdate(ctx context.Context, tx pgx.Tx, groupID int64) (*Group, error)

	GetGroupByID(ctx context.Context, groupID int64) (*Group, error)

	// ListMembersInTx locks the member loans in ascending loan id order.
	ListMembersInTx(ctx context.Context, tx pgx.Tx, groupID int64) ([]*loan.Loan, error)

	ListMembers(ctx context.Context, groupID int64) ([]*loan.Loan, error)

	// CountPaidInTx counts paid installments across every member loan.
	CountPaidInTx(ctx context.Context, tx pgx.Tx, groupID int64) (int, error)
}
