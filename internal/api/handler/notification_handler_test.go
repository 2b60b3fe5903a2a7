package handler

import (
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/pkg/apperrors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationHandler(t *testing.T) {
	t.Run("customer lists their own unread notifications", func(t *testing.T) {
		inbox := new(MockInbox)
		h := NewNotificationHandler(inbox, testLogger)
		inbox.On("List", mock.Anything, notification.RoleCustomer, int64(7), true, 10).
			Return([]*notification.Notification{{ID: 1, Title: "Loan approved", Category: notification.CategoryLoan}}, nil)

		rec := httptest.NewRecorder()
		h.List(rec, newRequest(http.MethodGet, "/me/notifications?unread=true&limit=10", "", customerIdentity(7)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Loan approved")
		inbox.AssertExpectations(t)
	})

	t.Run("admin reads the admin broadcast inbox", func(t *testing.T) {
		inbox := new(MockInbox)
		h := NewNotificationHandler(inbox, testLogger)
		inbox.On("List", mock.Anything, notification.RoleAdmin, int64(0), false, 0).Return([]*notification.Notification{}, nil)

		rec := httptest.NewRecorder()
		h.List(rec, newRequest(http.MethodGet, "/me/notifications", "", adminIdentity))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("mark read of someone else's notification is not found", func(t *testing.T) {
		inbox := new(MockInbox)
		h := NewNotificationHandler(inbox, testLogger)
		inbox.On("MarkRead", mock.Anything, int64(3), notification.RoleCustomer, int64(7)).Return(apperrors.ErrNotFound)

		rec := httptest.NewRecorder()
		h.MarkRead(rec, newRequest(http.MethodPost, "/me/notifications/3/read", "", customerIdentity(7), "notificationID", "3"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("mark read succeeds", func(t *testing.T) {
		inbox := new(MockInbox)
		h := NewNotificationHandler(inbox, testLogger)
		inbox.On("MarkRead", mock.Anything, int64(3), notification.RoleCustomer, int64(7)).Return(nil)

		rec := httptest.NewRecorder()
		h.MarkRead(rec, newRequest(http.MethodPost, "/me/notifications/3/read", "", customerIdentity(7), "notificationID", "3"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
