package notification

import (
	"bnpl-engine/internal/infrastructure/monitoring"
	"bnpl-engine/internal/pkg/apperrors"
	"context"
	"fmt"
	"log/slog"
	"time"
)

const emitTimeout = 5 * time.Second

// Dispatcher persists an event's notifications and forwards the event to the
// broker. Failures are logged and never reach the ledger operation.
type Dispatcher struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
}

var _ Emitter = (*Dispatcher)(nil)

// NewDispatcher accepts a nil publisher when no broker is configured.
func NewDispatcher(repo Repository, publisher Publisher, logger *slog.Logger) *Dispatcher {
	if repo == nil {
		panic("notification repository cannot be nil")
	}
	return &Dispatcher{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With("component", "NotificationDispatcher"),
	}
}

func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emitTimeout)
	defer cancel()

	logCtx := d.logger.With(slog.String("event_id", event.ID), slog.String("kind", string(event.Kind)))

	if len(event.Notifications) > 0 {
		if err := d.repo.SaveAll(ctx, event.Notifications); err != nil {
			logCtx.ErrorContext(ctx, "Failed to persist notifications", slog.Int("count", len(event.Notifications)), slog.Any("error", err))
			monitoring.RecordEvent(string(event.Kind), "persist_failed")
		} else {
			logCtx.DebugContext(ctx, "Notifications persisted", slog.Int("count", len(event.Notifications)))
		}
	}

	if d.publisher == nil {
		monitoring.RecordEvent(string(event.Kind), "local")
		return
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish domain event", slog.Any("error", err))
		monitoring.RecordEvent(string(event.Kind), "publish_failed")
		return
	}
	monitoring.RecordEvent(string(event.Kind), "published")
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("component", "NotificationService")}
}

const defaultListLimit = 50

func (s *Service) List(ctx context.Context, role Role, recipientID int64, unreadOnly bool, limit int) ([]*Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}
	items, err := s.repo.ListForRecipient(ctx, role, recipientID, unreadOnly, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list notifications", slog.Int64("recipient_id", recipientID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

func (s *Service) MarkRead(ctx context.Context, notificationID int64, role Role, recipientID int64) error {
	if notificationID <= 0 {
		return fmt.Errorf("%w: notification id must be positive", apperrors.ErrInvalidArgument)
	}
	if err := s.repo.MarkRead(ctx, notificationID, role, recipientID); err != nil {
		s.logger.WarnContext(ctx, "Failed to mark notification read", slog.Int64("notification_id", notificationID), slog.Any("error", err))
		return err
	}
	return nil
}
