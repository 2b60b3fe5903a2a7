package handler

import (
	"bnpl-engine/internal/api/middleware"
	"bnpl-engine/internal/domain/customer"
	"bnpl-engine/internal/domain/group"
	"bnpl-engine/internal/domain/loan"
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Checkout(ctx context.Context, customerID, merchantID int64, amount money.Money) (*loan.Checkout, error) {
	args := m.Called(ctx, customerID, merchantID, amount)
	if c, ok := args.Get(0).(*loan.Checkout); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) PayInstallment(ctx context.Context, customerID, installmentID, instrumentID int64) (*loan.Settlement, error) {
	args := m.Called(ctx, customerID, installmentID, instrumentID)
	if s, ok := args.Get(0).(*loan.Settlement); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) PendingInstallments(ctx context.Context, customerID int64) ([]loan.Installment, error) {
	args := m.Called(ctx, customerID)
	if items, ok := args.Get(0).([]loan.Installment); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) SplitLoan(ctx context.Context, customerID, loanID int64, emails []string) (*group.SplitResult, error) {
	args := m.Called(ctx, customerID, loanID, emails)
	if r, ok := args.Get(0).(*group.SplitResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupService) AddParticipant(ctx context.Context, customerID, groupID int64, email string) (*group.SplitResult, error) {
	args := m.Called(ctx, customerID, groupID, email)
	if r, ok := args.Get(0).(*group.SplitResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupService) GetComposition(ctx context.Context, groupID int64) (*group.Composition, error) {
	args := m.Called(ctx, groupID)
	if c, ok := args.Get(0).(*group.Composition); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, name, email string, creditLimit money.Money, preference schedule.Cadence) (*customer.Customer, error) {
	args := m.Called(ctx, name, email, creditLimit, preference)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, activeOnly bool) ([]*customer.Customer, error) {
	args := m.Called(ctx, activeOnly)
	if c, ok := args.Get(0).([]*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) UpdateRepaymentPreference(ctx context.Context, customerID int64, preference schedule.Cadence) error {
	return m.Called(ctx, customerID, preference).Error(0)
}

func (m *MockCustomerService) DeactivateCustomer(ctx context.Context, customerID int64) error {
	return m.Called(ctx, customerID).Error(0)
}

func (m *MockCustomerService) ReactivateCustomer(ctx context.Context, customerID int64) error {
	return m.Called(ctx, customerID).Error(0)
}

func (m *MockCustomerService) AddInstrument(ctx context.Context, customerID int64, brand, last4 string, makeDefault bool) (*customer.PaymentInstrument, error) {
	args := m.Called(ctx, customerID, brand, last4, makeDefault)
	if p, ok := args.Get(0).(*customer.PaymentInstrument); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) ListInstruments(ctx context.Context, customerID int64) ([]*customer.PaymentInstrument, error) {
	args := m.Called(ctx, customerID)
	if p, ok := args.Get(0).([]*customer.PaymentInstrument); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) SetDefaultInstrument(ctx context.Context, customerID, instrumentID int64) error {
	return m.Called(ctx, customerID, instrumentID).Error(0)
}

type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) List(ctx context.Context, role notification.Role, recipientID int64, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	args := m.Called(ctx, role, recipientID, unreadOnly, limit)
	if n, ok := args.Get(0).([]*notification.Notification); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInbox) MarkRead(ctx context.Context, notificationID int64, role notification.Role, recipientID int64) error {
	return m.Called(ctx, notificationID, role, recipientID).Error(0)
}

// newRequest builds a request carrying the given identity and chi URL params
// given as key/value pairs.
func newRequest(method, target, body string, id *middleware.Identity, params ...string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := req.Context()
	if id != nil {
		ctx = middleware.WithIdentity(ctx, *id)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func customerIdentity(id int64) *middleware.Identity {
	return &middleware.Identity{CustomerID: id, Role: middleware.RoleCustomer}
}

var adminIdentity = &middleware.Identity{Role: middleware.RoleAdmin}
