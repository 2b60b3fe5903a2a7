package customer

import (
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

var _ Repository = (*MockCustomerRepository)(nil)

func (_m *MockCustomerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(pgx.Tx), ret.Error(1)
}

func (_m *MockCustomerRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return _m.Called(ctx, tx).Error(0)
}

func (_m *MockCustomerRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return _m.Called(ctx, tx).Error(0)
}

func (_m *MockCustomerRepository) Save(ctx context.Context, customer *Customer) error {
	ret := _m.Called(ctx, customer)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) error); ok {
		r0 = rf(ctx, customer)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindAll(ctx context.Context, activeOnly bool) ([]*Customer, error) {
	ret := _m.Called(ctx, activeOnly)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) SetActiveStatus(ctx context.Context, customerID int64, isActive bool) error {
	return _m.Called(ctx, customerID, isActive).Error(0)
}

func (_m *MockCustomerRepository) UpdatePreference(ctx context.Context, customerID int64, cadence schedule.Cadence) error {
	return _m.Called(ctx, customerID, cadence).Error(0)
}

func (_m *MockCustomerRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (*Customer, error) {
	ret := _m.Called(ctx, tx, customerID)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (*Customer, error) {
	ret := _m.Called(ctx, tx, email)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) AdjustCreditInTx(ctx context.Context, tx pgx.Tx, customerID int64, delta money.Money) (money.Money, error) {
	ret := _m.Called(ctx, tx, customerID, delta)
	return ret.Get(0).(money.Money), ret.Error(1)
}

func (_m *MockCustomerRepository) SuspendInTx(ctx context.Context, tx pgx.Tx, customerID int64) (bool, error) {
	ret := _m.Called(ctx, tx, customerID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockCustomerRepository) SaveInstrument(ctx context.Context, instrument *PaymentInstrument) error {
	ret := _m.Called(ctx, instrument)

	if rf, ok := ret.Get(0).(func(context.Context, *PaymentInstrument) error); ok {
		return rf(ctx, instrument)
	}
	return ret.Error(0)
}

func (_m *MockCustomerRepository) FindInstrumentInTx(ctx context.Context, tx pgx.Tx, instrumentID int64) (*PaymentInstrument, error) {
	ret := _m.Called(ctx, tx, instrumentID)

	var r0 *PaymentInstrument
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*PaymentInstrument)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) ListInstruments(ctx context.Context, customerID int64) ([]*PaymentInstrument, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*PaymentInstrument
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*PaymentInstrument)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) SetDefaultInstrument(ctx context.Context, customerID, instrumentID int64) error {
	return _m.Called(ctx, customerID, instrumentID).Error(0)
}
