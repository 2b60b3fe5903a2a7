package postgres

import (
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/pkg/apperrors"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

type NotificationRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ notification.Repository = (*NotificationRepository)(nil)

func NewNotificationRepository(db DBPool, logger *slog.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, logger: logger.With("component", "NotificationRepository")}
}

func (r *NotificationRepository) SaveAll(ctx context.Context, items []notification.Notification) (err error) {
	defer func(start time.Time) { observe("SaveNotifications", start, err) }(time.Now())

	if len(items) == 0 {
		return nil
	}

	query := `
        INSERT INTO notifications (recipient_role, recipient_id, title, message, link, category, is_read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, false, NOW())`

	batch := &pgx.Batch{}
	for _, n := range items {
		batch.Queue(query, string(n.RecipientRole), n.RecipientID, n.Title, n.Message, n.Link, string(n.Category))
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if _, err = results.Exec(); err != nil {
			r.logger.ErrorContext(ctx, "Failed executing notification batch insert", "error", err, "entry_index", i)
			return translateDBError(err, r.logger)
		}
	}
	return nil
}

func (r *NotificationRepository) ListForRecipient(ctx context.Context, role notification.Role, recipientID int64, unreadOnly bool, limit int) (items []*notification.Notification, err error) {
	defer func(start time.Time) { observe("ListNotifications", start, err) }(time.Now())

	// Admin notifications are broadcasts, so the recipient id only narrows customer inboxes.
	query := `
        SELECT id, recipient_role, recipient_id, title, message, link, category, is_read, created_at
        FROM notifications
        WHERE recipient_role = $1
          AND ($1 = 'admin' OR recipient_id = $2)
          AND (NOT $3 OR NOT is_read)
        ORDER BY created_at DESC, id DESC
        LIMIT $4`

	rows, err := r.db.Query(ctx, query, string(role), recipientID, unreadOnly, limit)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	items = make([]*notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		err = rows.Scan(&n.ID, (*string)(&n.RecipientRole), &n.RecipientID, &n.Title, &n.Message, &n.Link, (*string)(&n.Category), &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan notification row: %w", apperrors.ErrDatabase, err)
		}
		items = append(items, &n)
	}
	if err = rows.Err(); err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return items, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID int64, role notification.Role, recipientID int64) (err error) {
	defer func(start time.Time) { observe("MarkNotificationRead", start, err) }(time.Now())

	query := `
        UPDATE notifications SET is_read = true
        WHERE id = $1 AND recipient_role = $2 AND ($2 = 'admin' OR recipient_id = $3)`

	cmdTag, err := r.db.Exec(ctx, query, notificationID, string(role), recipientID)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notification %d", apperrors.ErrNotFound, notificationID)
	}
	return nil
}
