package handler

import (
	"bnpl-engine/internal/api/handler/dto"
	"bnpl-engine/internal/domain/group"
	"bnpl-engine/internal/pkg/apperrors"
	"bnpl-engine/internal/pkg/money"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleSplit() *group.SplitResult {
	return &group.SplitResult{
		Group: &group.Group{ID: 4, OriginalOrderID: 20, CreatorID: 7, Total: money.MustParse("90")},
		Shares: []group.Share{
			{CustomerID: 7, LoanID: 10, Amount: money.MustParse("30"), Refunded: money.MustParse("60")},
			{CustomerID: 8, LoanID: 11, Amount: money.MustParse("30")},
			{CustomerID: 9, LoanID: 12, Amount: money.MustParse("30")},
		},
	}
}

func TestGroupHandlerSplitLoan(t *testing.T) {
	t.Run("splits the loan", func(t *testing.T) {
		svc := new(MockGroupService)
		h := NewGroupHandler(svc, testLogger)
		emails := []string{"b@example.com", "c@example.com"}
		svc.On("SplitLoan", mock.Anything, int64(7), int64(10), emails).Return(sampleSplit(), nil)

		rec := httptest.NewRecorder()
		h.SplitLoan(rec, newRequest(http.MethodPost, "/loans/10/split",
			`{"participants":["b@example.com","c@example.com"]}`, customerIdentity(7), "loanID", "10"))

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.SplitResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(4), resp.Group.ID)
		assert.Len(t, resp.Shares, 3)
		assert.Equal(t, "60.00", resp.Shares[0].Refunded)
		svc.AssertExpectations(t)
	})

	t.Run("rejects an empty participant list", func(t *testing.T) {
		svc := new(MockGroupService)
		h := NewGroupHandler(svc, testLogger)

		rec := httptest.NewRecorder()
		h.SplitLoan(rec, newRequest(http.MethodPost, "/loans/10/split", `{"participants":[]}`, customerIdentity(7), "loanID", "10"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "participants", decodeError(t, rec).Field)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		h := NewGroupHandler(new(MockGroupService), testLogger)

		rec := httptest.NewRecorder()
		h.SplitLoan(rec, newRequest(http.MethodPost, "/loans/10/split", `{"participants":["nope"]}`, customerIdentity(7), "loanID", "10"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown participant", apperrors.UnknownParticipant("x@example.com"), http.StatusNotFound},
		{"duplicate participant", apperrors.DuplicateParticipant("b@example.com"), http.StatusConflict},
		{"not the owner", apperrors.ErrForbidden, http.StatusForbidden},
		{"invitee short on credit", apperrors.NewInsufficientCreditError(8, money.MustParse("30"), money.MustParse("10")), http.StatusPaymentRequired},
		{"already grouped", apperrors.ErrConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run("maps "+tc.name, func(t *testing.T) {
			svc := new(MockGroupService)
			h := NewGroupHandler(svc, testLogger)
			svc.On("SplitLoan", mock.Anything, int64(7), int64(10), mock.Anything).Return(nil, tc.err)

			rec := httptest.NewRecorder()
			h.SplitLoan(rec, newRequest(http.MethodPost, "/loans/10/split",
				`{"participants":["b@example.com"]}`, customerIdentity(7), "loanID", "10"))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestGroupHandlerAddParticipant(t *testing.T) {
	t.Run("restructures the group", func(t *testing.T) {
		svc := new(MockGroupService)
		h := NewGroupHandler(svc, testLogger)
		svc.On("AddParticipant", mock.Anything, int64(7), int64(4), "d@example.com").Return(sampleSplit(), nil)

		rec := httptest.NewRecorder()
		h.AddParticipant(rec, newRequest(http.MethodPost, "/groups/4/participants", `{"email":"d@example.com"}`, customerIdentity(7), "groupID", "4"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("maps a locked group to 409", func(t *testing.T) {
		svc := new(MockGroupService)
		h := NewGroupHandler(svc, testLogger)
		svc.On("AddParticipant", mock.Anything, int64(7), int64(4), "d@example.com").Return(nil, apperrors.ErrGroupLocked)

		rec := httptest.NewRecorder()
		h.AddParticipant(rec, newRequest(http.MethodPost, "/groups/4/participants", `{"email":"d@example.com"}`, customerIdentity(7), "groupID", "4"))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "GROUP_LOCKED", decodeError(t, rec).Code)
	})
}

func TestGroupHandlerGetGroup(t *testing.T) {
	composition := &group.Composition{
		Group:   sampleSplit().Group,
		Members: []group.Member{{CustomerID: 7, LoanID: 10}, {CustomerID: 8, LoanID: 11}},
	}

	tests := []struct {
		name   string
		caller func() *http.Request
		status int
	}{
		{"member", func() *http.Request {
			return newRequest(http.MethodGet, "/groups/4", "", customerIdentity(8), "groupID", "4")
		}, http.StatusOK},
		{"admin", func() *http.Request {
			return newRequest(http.MethodGet, "/groups/4", "", adminIdentity, "groupID", "4")
		}, http.StatusOK},
		{"outsider", func() *http.Request {
			return newRequest(http.MethodGet, "/groups/4", "", customerIdentity(99), "groupID", "4")
		}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockGroupService)
			h := NewGroupHandler(svc, testLogger)
			svc.On("GetComposition", mock.Anything, int64(4)).Return(composition, nil)

			rec := httptest.NewRecorder()
			h.GetGroup(rec, tt.caller())
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
