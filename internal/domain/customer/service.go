package customer

import (
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/apperrors"
	"bnpl-engine/internal/pkg/money"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
)

const customerNotFound = "Customer not found by repository"

type CustomerService interface {
	CreateCustomer(ctx context.Context, name, email string, creditLimit money.Money, preference schedule.Cadence) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context, activeOnly bool) ([]*Customer, error)
	UpdateRepaymentPreference(ctx context.Context, customerID int64, preference schedule.Cadence) error
	DeactivateCustomer(ctx context.Context, customerID int64) error
	ReactivateCustomer(ctx context.Context, customerID int64) error
	AddInstrument(ctx context.Context, customerID int64, brand, last4 string, makeDefault bool) (*PaymentInstrument, error)
	ListInstruments(ctx context.Context, customerID int64) ([]*PaymentInstrument, error)
	SetDefaultInstrument(ctx context.Context, customerID, instrumentID int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo    Repository
	emitter notification.Emitter
	logger  *slog.Logger
}

func NewCustomerService(repo Repository, emitter notification.Emitter, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if emitter == nil {
		emitter = notification.NopEmitter{}
	}
	return &customerService{
		repo:    repo,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, name, email string, creditLimit money.Money, preference schedule.Cadence) (*Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("email", "must be a valid address")
	}
	if creditLimit < 0 {
		return nil, apperrors.NewValidationError("creditLimit", "cannot be negative")
	}
	if !preference.Valid() {
		return nil, apperrors.NewValidationError("repaymentPreference", fmt.Sprintf("unknown cadence %q", preference))
	}

	cust := NewCustomer(name, email, creditLimit, preference)
	if err := s.repo.Save(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	logCtx := s.logger.With(slog.Int64("customerID", cust.ID))
	logCtx.InfoContext(ctx, "Customer created", slog.String("credit_limit", cust.AvailableCredit.String()))
	s.emitter.Emit(ctx, notification.NewEvent(notification.KindCustomerCreated, cust,
		notification.ToCustomer(cust.ID, notification.CategoryAccount, "Welcome",
			fmt.Sprintf("Your account is open with %s of available credit.", cust.AvailableCredit)),
	))
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context, activeOnly bool) ([]*Customer, error) {
	customers, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	s.logger.DebugContext(ctx, "Listed customers", slog.Int("count", len(customers)), slog.Bool("activeOnly", activeOnly))
	return customers, nil
}

// UpdateRepaymentPreference only affects loans opened or restructured later.
func (s *customerService) UpdateRepaymentPreference(ctx context.Context, customerID int64, preference schedule.Cadence) error {
	if !preference.Valid() {
		return apperrors.NewValidationError("repaymentPreference", fmt.Sprintf("unknown cadence %q", preference))
	}
	if err := s.repo.UpdatePreference(ctx, customerID, preference); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return err
		}
		return fmt.Errorf("failed to update repayment preference for customer %d: %w", customerID, err)
	}
	s.logger.InfoContext(ctx, "Repayment preference updated", slog.Int64("customerID", customerID), slog.String("cadence", string(preference)))
	return nil
}

func (s *customerService) DeactivateCustomer(ctx context.Context, customerID int64) error {
	if err := s.repo.SetActiveStatus(ctx, customerID, false); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return err
		}
		return fmt.Errorf("failed to deactivate customer %d: %w", customerID, err)
	}
	s.logger.InfoContext(ctx, "Customer deactivated", slog.Int64("customerID", customerID))
	return nil
}

func (s *customerService) ReactivateCustomer(ctx context.Context, customerID int64) error {
	if err := s.repo.SetActiveStatus(ctx, customerID, true); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return err
		}
		return fmt.Errorf("failed to reactivate customer %d: %w", customerID, err)
	}
	s.logger.InfoContext(ctx, "Customer reactivated", slog.Int64("customerID", customerID))
	s.emitter.Emit(ctx, notification.NewEvent(notification.KindCustomerReactivated,
		map[string]int64{"customerId": customerID},
		notification.ToCustomer(customerID, notification.CategoryAccount, "Account reactivated",
			"Your account has been reactivated and you can shop again."),
	))
	return nil
}

func (s *customerService) AddInstrument(ctx context.Context, customerID int64, brand, last4 string, makeDefault bool) (*PaymentInstrument, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, apperrors.NewValidationError("brand", "cannot be empty")
	}
	if len(last4) != 4 || strings.Trim(last4, "0123456789") != "" {
		return nil, apperrors.NewValidationError("last4", "must be exactly four digits")
	}

	inst := &PaymentInstrument{CustomerID: customerID, Brand: brand, Last4: last4}
	if err := s.repo.SaveInstrument(ctx, inst); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save instrument", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to save payment instrument: %w", err)
	}
	if makeDefault {
		if err := s.repo.SetDefaultInstrument(ctx, customerID, inst.ID); err != nil {
			return nil, fmt.Errorf("instrument %d saved but could not be made default: %w", inst.ID, err)
		}
		inst.IsDefault = true
	}
	return inst, nil
}

func (s *customerService) ListInstruments(ctx context.Context, customerID int64) ([]*PaymentInstrument, error) {
	items, err := s.repo.ListInstruments(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment instruments: %w", err)
	}
	return items, nil
}

func (s *customerService) SetDefaultInstrument(ctx context.Context, customerID, instrumentID int64) error {
	if err := s.repo.SetDefaultInstrument(ctx, customerID, instrumentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Instrument not owned by customer", slog.Int64("customerID", customerID), slog.Int64("instrumentID", instrumentID))
			return fmt.Errorf("%w: instrument %d", apperrors.ErrInvalidInstrument, instrumentID)
		}
		return fmt.Errorf("failed to set default instrument: %w", err)
	}
	return nil
}
