package handler

import (
	"bnpl-engine/internal/api/handler/dto"
	"bnpl-engine/internal/domain/loan"
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/apperrors"
	"bnpl-engine/internal/pkg/money"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleLoan(customerID int64) *loan.Loan {
	return &loan.Loan{
		ID:               10,
		OrderID:          20,
		CustomerID:       customerID,
		Principal:        money.MustParse("300.00"),
		RemainingBalance: money.MustParse("200.00"),
		Plan:             schedule.Monthly3,
		Status:           loan.StatusActive,
		Installments: []loan.Installment{
			{ID: 1, LoanID: 10, Sequence: 1, Amount: money.MustParse("100"), DueDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Status: loan.InstallmentPaid},
			{ID: 2, LoanID: 10, Sequence: 2, Amount: money.MustParse("100"), DueDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Status: loan.InstallmentPending},
		},
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorDetail {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestLoanHandlerCheckout(t *testing.T) {
	t.Run("originates a loan for the caller", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		l := sampleLoan(7)
		svc.On("Checkout", mock.Anything, int64(7), int64(3), money.MustParse("300.00")).Return(&loan.Checkout{
			Order:           &loan.Order{ID: 20, MerchantID: 3},
			Loan:            l,
			Installments:    l.Installments,
			AvailableCredit: money.MustParse("700"),
		}, nil)

		rec := httptest.NewRecorder()
		h.Checkout(rec, newRequest(http.MethodPost, "/checkout", `{"merchantId":3,"amount":"300.00"}`, customerIdentity(7)))

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.CheckoutResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(10), resp.Loan.ID)
		assert.Equal(t, "700.00", resp.AvailableCredit)
		assert.Len(t, resp.Installments, 2)
		svc.AssertExpectations(t)
	})

	t.Run("maps insufficient credit to 402", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		svc.On("Checkout", mock.Anything, int64(7), int64(3), money.MustParse("6000")).
			Return(nil, apperrors.NewInsufficientCreditError(7, money.MustParse("6000"), money.MustParse("5000")))

		rec := httptest.NewRecorder()
		h.Checkout(rec, newRequest(http.MethodPost, "/checkout", `{"merchantId":3,"amount":"6000"}`, customerIdentity(7)))

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Equal(t, "INSUFFICIENT_CREDIT", decodeError(t, rec).Code)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
	}{
		{"merchant unavailable", apperrors.ErrMerchantUnavailable, http.StatusUnprocessableEntity},
		{"suspended customer", apperrors.ErrCustomerSuspended, http.StatusForbidden},
		{"unknown merchant", fmt.Errorf("merchant 3: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"ledger down", apperrors.ErrLedgerUnavailable, http.StatusServiceUnavailable},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run("maps "+tc.name, func(t *testing.T) {
			svc := new(MockLoanService)
			h := NewLoanHandler(svc, testLogger)
			svc.On("Checkout", mock.Anything, int64(7), int64(3), mock.Anything).Return(nil, tc.err)

			rec := httptest.NewRecorder()
			h.Checkout(rec, newRequest(http.MethodPost, "/checkout", `{"merchantId":3,"amount":"10"}`, customerIdentity(7)))
			assert.Equal(t, tc.status, rec.Code)
		})
	}

	badBodies := []struct {
		name  string
		body  string
		field string
	}{
		{"sub-cent amount", `{"merchantId":3,"amount":"10.001"}`, "amount"},
		{"negative amount", `{"merchantId":3,"amount":"-5"}`, "amount"},
		{"missing merchant", `{"amount":"10"}`, "merchantId"},
	}
	for _, tc := range badBodies {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			svc := new(MockLoanService)
			h := NewLoanHandler(svc, testLogger)

			rec := httptest.NewRecorder()
			h.Checkout(rec, newRequest(http.MethodPost, "/checkout", tc.body, customerIdentity(7)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.field, decodeError(t, rec).Field)
			svc.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("rejects unknown fields", func(t *testing.T) {
		h := NewLoanHandler(new(MockLoanService), testLogger)
		rec := httptest.NewRecorder()
		h.Checkout(rec, newRequest(http.MethodPost, "/checkout", `{"merchantId":3,"amount":"1","plan":"x"}`, customerIdentity(7)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admins cannot check out", func(t *testing.T) {
		h := NewLoanHandler(new(MockLoanService), testLogger)
		rec := httptest.NewRecorder()
		h.Checkout(rec, newRequest(http.MethodPost, "/checkout", `{"merchantId":3,"amount":"1"}`, adminIdentity))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestLoanHandlerPayInstallment(t *testing.T) {
	t.Run("settles the installment", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		svc.On("PayInstallment", mock.Anything, int64(7), int64(2), int64(5)).Return(&loan.Settlement{
			Installment:      loan.Installment{ID: 2, LoanID: 10, Sequence: 2, Amount: money.MustParse("100"), Status: loan.InstallmentPaid},
			LoanID:           10,
			RemainingBalance: 0,
			LoanPaid:         true,
			Bonus:            money.MustParse("3.00"),
			AvailableCredit:  money.MustParse("1003"),
			Instrument:       "visa ****4242",
		}, nil)

		rec := httptest.NewRecorder()
		h.PayInstallment(rec, newRequest(http.MethodPost, "/installments/2/pay", `{"instrumentId":5}`, customerIdentity(7), "installmentID", "2"))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.SettlementResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.LoanPaid)
		assert.Equal(t, "0.00", resp.RemainingBalance)
		assert.Equal(t, "3.00", resp.Bonus)
	})

	statusCases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.ErrAlreadyPaid, http.StatusConflict, "ALREADY_PAID"},
		{apperrors.ErrInvalidInstrument, http.StatusForbidden, "INVALID_INSTRUMENT"},
		{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{apperrors.ErrConflict, http.StatusConflict, "CONFLICT"},
	}
	for _, tc := range statusCases {
		t.Run("maps "+tc.code, func(t *testing.T) {
			svc := new(MockLoanService)
			h := NewLoanHandler(svc, testLogger)
			svc.On("PayInstallment", mock.Anything, int64(7), int64(2), int64(5)).Return(nil, tc.err)

			rec := httptest.NewRecorder()
			h.PayInstallment(rec, newRequest(http.MethodPost, "/installments/2/pay", `{"instrumentId":5}`, customerIdentity(7), "installmentID", "2"))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decodeError(t, rec).Code)
		})
	}

	t.Run("rejects a malformed installment id", func(t *testing.T) {
		h := NewLoanHandler(new(MockLoanService), testLogger)
		rec := httptest.NewRecorder()
		h.PayInstallment(rec, newRequest(http.MethodPost, "/installments/x/pay", `{"instrumentId":5}`, customerIdentity(7), "installmentID", "x"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoanHandlerGetLoan(t *testing.T) {
	t.Run("owner sees the loan", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		svc.On("GetLoan", mock.Anything, int64(10)).Return(sampleLoan(7), nil)

		rec := httptest.NewRecorder()
		h.GetLoan(rec, newRequest(http.MethodGet, "/loans/10", "", customerIdentity(7), "loanID", "10"))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.LoanResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "200.00", resp.RemainingBalance)
		assert.Len(t, resp.Installments, 2)
		assert.Equal(t, "2025-08-01", resp.Installments[1].DueDate)
	})

	t.Run("admin sees any loan", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		svc.On("GetLoan", mock.Anything, int64(10)).Return(sampleLoan(7), nil)

		rec := httptest.NewRecorder()
		h.GetLoan(rec, newRequest(http.MethodGet, "/loans/10", "", adminIdentity, "loanID", "10"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("another customer's loan looks missing", func(t *testing.T) {
		svc := new(MockLoanService)
		h := NewLoanHandler(svc, testLogger)
		svc.On("GetLoan", mock.Anything, int64(10)).Return(sampleLoan(7), nil)

		rec := httptest.NewRecorder()
		h.GetLoan(rec, newRequest(http.MethodGet, "/loans/10", "", customerIdentity(8), "loanID", "10"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLoanHandlerPendingInstallments(t *testing.T) {
	svc := new(MockLoanService)
	h := NewLoanHandler(svc, testLogger)
	svc.On("PendingInstallments", mock.Anything, int64(7)).Return(sampleLoan(7).Installments[1:], nil)

	rec := httptest.NewRecorder()
	h.PendingInstallments(rec, newRequest(http.MethodGet, "/me/installments", "", customerIdentity(7)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.InstallmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "pending", resp[0].Status)
}
