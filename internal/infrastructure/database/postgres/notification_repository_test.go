package postgres

import (
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/pkg/apperrors"
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotificationRepo(t *testing.T) (context.Context, *NotificationRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	return context.Background(), NewNotificationRepository(mockPool, logger), mockPool
}

func TestNotificationRepository_SaveAllEmpty(t *testing.T) {
	ctx, repo, mockPool := setupNotificationRepo(t)
	defer mockPool.Close()

	assert.NoError(t, repo.SaveAll(ctx, nil))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestNotificationRepository_ListForRecipient(t *testing.T) {
	ctx, repo, mockPool := setupNotificationRepo(t)
	defer mockPool.Close()

	recipient := int64(1)
	link := "/loans/20"
	mockPool.ExpectQuery(regexp.QuoteMeta(`FROM notifications`)).
		WithArgs(string(notification.RoleCustomer), int64(1), true, 20).
		WillReturnRows(pgxmock.NewRows([]string{"id", "recipient_role", "recipient_id", "title", "message", "link", "category", "is_read", "created_at"}).
			AddRow(int64(7), string(notification.RoleCustomer), &recipient, "Loan approved", "Your loan of 3000.00 is active", &link, string(notification.CategoryLoan), false, fixedTime))

	items, err := repo.ListForRecipient(ctx, notification.RoleCustomer, 1, true, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, notification.CategoryLoan, items[0].Category)
	require.NotNil(t, items[0].Link)
	assert.Equal(t, "/loans/20", *items[0].Link)
	assert.False(t, items[0].Read)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	ctx, repo, mockPool := setupNotificationRepo(t)
	defer mockPool.Close()

	query := regexp.QuoteMeta(`UPDATE notifications SET is_read = true`)
	mockPool.ExpectExec(query).
		WithArgs(int64(7), string(notification.RoleCustomer), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec(query).
		WithArgs(int64(7), string(notification.RoleCustomer), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, repo.MarkRead(ctx, 7, notification.RoleCustomer, 1))
	assert.ErrorIs(t, repo.MarkRead(ctx, 7, notification.RoleCustomer, 2), apperrors.ErrNotFound)
}
