package handler

import (
	"bnpl-engine/internal/api/handler/dto"
	"bnpl-engine/internal/domain/customer"
	"bnpl-engine/internal/domain/schedule"
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

func TestCustomerHandlerCreateCustomer(t *testing.T) {
	t.Run("creates a customer", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := NewCustomerHandler(svc, testLogger)
		svc.On("CreateCustomer", mock.Anything, "Ana", "ana@example.com", money.MustParse("5000"), schedule.Biweekly4).
			Return(&customer.Customer{ID: 1, Name: "Ana", Email: "ana@example.com", AvailableCredit: money.MustParse("5000"), RepaymentPreference: schedule.Biweekly4, Active: true}, nil)

		rec := httptest.NewRecorder()
		h.CreateCustomer(rec, newRequest(http.MethodPost, "/admin/customers",
			`{"name":"Ana","email":"ana@example.com","creditLimit":"5000","repaymentPreference":"biweekly_4"}`, adminIdentity))

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.CustomerResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "5000.00", resp.AvailableCredit)
		assert.Equal(t, "biweekly_4", resp.RepaymentPreference)
	})

	t.Run("rejects an unknown cadence", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := NewCustomerHandler(svc, testLogger)

		rec := httptest.NewRecorder()
		h.CreateCustomer(rec, newRequest(http.MethodPost, "/admin/customers",
			`{"name":"Ana","email":"ana@example.com","creditLimit":"5000","repaymentPreference":"weekly_52"}`, adminIdentity))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a bad email", func(t *testing.T) {
		h := NewCustomerHandler(new(MockCustomerService), testLogger)

		rec := httptest.NewRecorder()
		h.CreateCustomer(rec, newRequest(http.MethodPost, "/admin/customers",
			`{"name":"Ana","email":"ana","creditLimit":"5000","repaymentPreference":"monthly_3"}`, adminIdentity))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "email", decodeError(t, rec).Field)
	})

	t.Run("maps a taken email to 409", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := NewCustomerHandler(svc, testLogger)
		svc.On("CreateCustomer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrAlreadyExists)

		rec := httptest.NewRecorder()
		h.CreateCustomer(rec, newRequest(http.MethodPost, "/admin/customers",
			`{"name":"Ana","email":"ana@example.com","creditLimit":"5000","repaymentPreference":"monthly_3"}`, adminIdentity))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCustomerHandlerReads(t *testing.T) {
	t.Run("me returns the caller", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := NewCustomerHandler(svc, testLogger)
		svc.On("GetCustomer", mock.Anything, int64(7)).Return(&customer.Customer{ID: 7, AvailableCredit: money.MustParse("12.5")}, nil)

		rec := httptest.NewRecorder()
		h.Me(rec, newRequest(http.MethodGet, "/me", "", customerIdentity(7)))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.CustomerResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "12.50", resp.AvailableCredit)
	})

	t.Run("get maps not found", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := NewCustomerHandler(svc, testLogger)
		svc.On("GetCustomer", mock.Anything, int64(3)).Return(nil, apperrors.ErrNotFound)

		rec := httptest.NewRecorder()
		h.GetCustomer(rec, newRequest(http.MethodGet, "/admin/customers/3", "", adminIdentity, "customerID", "3"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list honours the active filter", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := NewCustomerHandler(svc, testLogger)
		svc.On("ListCustomers", mock.Anything, true).Return([]*customer.Customer{{ID: 1}, {ID: 2}}, nil)

		rec := httptest.NewRecorder()
		h.ListCustomers(rec, newRequest(http.MethodGet, "/admin/customers?active=true", "", adminIdentity))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []dto.CustomerResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Len(t, resp, 2)
	})

	t.Run("list rejects a non-boolean filter", func(t *testing.T) {
		h := NewCustomerHandler(new(MockCustomerService), testLogger)
		rec := httptest.NewRecorder()
		h.ListCustomers(rec, newRequest(http.MethodGet, "/admin/customers?active=maybe", "", adminIdentity))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCustomerHandlerStatusChanges(t *testing.T) {
	svc := new(MockCustomerService)
	h := NewCustomerHandler(svc, testLogger)
	svc.On("DeactivateCustomer", mock.Anything, int64(3)).Return(nil)
	svc.On("ReactivateCustomer", mock.Anything, int64(4)).Return(apperrors.ErrNotFound)

	rec := httptest.NewRecorder()
	h.DeactivateCustomer(rec, newRequest(http.MethodPost, "/admin/customers/3/deactivate", "", adminIdentity, "customerID", "3"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ReactivateCustomer(rec, newRequest(http.MethodPost, "/admin/customers/4/reactivate", "", adminIdentity, "customerID", "4"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.AssertExpectations(t)
}

func TestCustomerHandlerPreference(t *testing.T) {
	svc := new(MockCustomerService)
	h := NewCustomerHandler(svc, testLogger)
	svc.On("UpdateRepaymentPreference", mock.Anything, int64(7), schedule.Monthly12).Return(nil)

	rec := httptest.NewRecorder()
	h.UpdatePreference(rec, newRequest(http.MethodPut, "/me/preference", `{"repaymentPreference":"Monthly_12"}`, customerIdentity(7)))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestCustomerHandlerInstruments(t *testing.T) {
	t.Run("adds an instrument", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := NewCustomerHandler(svc, testLogger)
		svc.On("AddInstrument", mock.Anything, int64(7), "visa", "4242", true).
			Return(&customer.PaymentInstrument{ID: 5, CustomerID: 7, Brand: "visa", Last4: "4242", IsDefault: true}, nil)

		rec := httptest.NewRecorder()
		h.AddInstrument(rec, newRequest(http.MethodPost, "/me/instruments", `{"brand":"visa","last4":"4242","makeDefault":true}`, customerIdentity(7)))

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.InstrumentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.IsDefault)
	})

	t.Run("rejects a short last4", func(t *testing.T) {
		h := NewCustomerHandler(new(MockCustomerService), testLogger)
		rec := httptest.NewRecorder()
		h.AddInstrument(rec, newRequest(http.MethodPost, "/me/instruments", `{"brand":"visa","last4":"42"}`, customerIdentity(7)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "last4", decodeError(t, rec).Field)
	})

	t.Run("lists instruments", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := NewCustomerHandler(svc, testLogger)
		svc.On("ListInstruments", mock.Anything, int64(7)).Return([]*customer.PaymentInstrument{{ID: 5}, {ID: 6}}, nil)

		rec := httptest.NewRecorder()
		h.ListInstruments(rec, newRequest(http.MethodGet, "/me/instruments", "", customerIdentity(7)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("set default on a foreign instrument is not found", func(t *testing.T) {
		svc := new(MockCustomerService)
		h := NewCustomerHandler(svc, testLogger)
		svc.On("SetDefaultInstrument", mock.Anything, int64(7), int64(9)).Return(apperrors.ErrNotFound)

		rec := httptest.NewRecorder()
		h.SetDefaultInstrument(rec, newRequest(http.MethodPut, "/me/instruments/9/default", "", customerIdentity(7), "instrumentID", "9"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
