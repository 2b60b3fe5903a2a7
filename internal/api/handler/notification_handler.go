package handler

import (
	"bnpl-engine/internal/api/handler/dto"
	"bnpl-engine/internal/api/middleware"
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/pkg/apperrors"
	"context"
	"log/slog"
	"net/http"
	"strconv"
)

// NotificationInbox is satisfied by *notification.Service.
type NotificationInbox interface {
	List(ctx context.Context, role notification.Role, recipientID int64, unreadOnly bool, limit int) ([]*notification.Notification, error)
	MarkRead(ctx context.Context, notificationID int64, role notification.Role, recipientID int64) error
}

type NotificationHandler struct {
	inbox  NotificationInbox
	logger *slog.Logger
}

func NewNotificationHandler(inbox NotificationInbox, l *slog.Logger) *NotificationHandler {
	if inbox == nil {
		panic("notification inbox cannot be nil")
	}
	return &NotificationHandler{inbox: inbox, logger: l.With("component", "NotificationHandler")}
}

func recipient(r *http.Request) (notification.Role, int64, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return "", 0, apperrors.ErrUnauthorized
	}
	if id.IsAdmin() {
		return notification.RoleAdmin, 0, nil
	}
	return notification.RoleCustomer, id.CustomerID, nil
}

// List handles GET /me/notifications
// @Summary List notifications
// @Description Customers see their own notifications. Admins see admin broadcasts.
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param limit query int false "Maximum number of results" Maximum(200)
// @Success 200 {array} dto.NotificationResponse "Notifications, newest first"
// @Router /me/notifications [get]
// @Security BearerAuth
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	role, recipientID, err := recipient(r)
	if err != nil {
		respondError(w, err)
		return
	}

	q := r.URL.Query()
	unreadOnly, _ := strconv.ParseBool(q.Get("unread"))
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			respondError(w, apperrors.NewValidationError("limit", "must be an integer"))
			return
		}
	}

	items, err := h.inbox.List(r.Context(), role, recipientID, unreadOnly, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewNotificationListResponse(items))
}

// MarkRead handles POST /me/notifications/{notificationID}/read
// @Summary Mark a notification read
// @Tags Notifications
// @Param notificationID path int true "Notification ID" Minimum(1)
// @Success 204 "Marked read"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /me/notifications/{notificationID}/read [post]
// @Security BearerAuth
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	role, recipientID, err := recipient(r)
	if err != nil {
		respondError(w, err)
		return
	}
	notificationID, err := pathID(r, "notificationID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.inbox.MarkRead(r.Context(), notificationID, role, recipientID); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Failed to mark notification read", slog.Any("error", err))
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
