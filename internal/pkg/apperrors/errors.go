package apperrors

import (
	"bnpl-engine/internal/pkg/money"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")

	ErrUnauthorized = errors.New("unauthorized")

	ErrForbidden = errors.New("forbidden")

	ErrConflict = errors.New("resource conflict")

	ErrInsufficientCredit = errors.New("insufficient credit")

	ErrMerchantUnavailable = errors.New("merchant unavailable")

	ErrInvalidInstrument = errors.New("invalid payment instrument")

	ErrAlreadyPaid = errors.New("already paid")

	ErrUnknownParticipant = errors.New("unknown participant")

	ErrDuplicateParticipant = errors.New("duplicate participant")

	ErrGroupLocked = errors.New("payment group is locked")

	ErrCustomerSuspended = errors.New("customer is suspended")

	// ErrTransient marks storage failures that may succeed if the whole
	// transaction is replayed.
	ErrTransient = errors.New("transient storage failure")

	ErrLedgerUnavailable = errors.New("ledger unavailable")

	ErrLedgerInvariant = errors.New("ledger invariant violated")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

// InsufficientCreditError carries the limit that was in force when the
// request was rejected.
type InsufficientCreditError struct {
	CustomerID int64
	Requested  money.Money
	Available  money.Money
}

func (e *InsufficientCreditError) Error() string {
	return fmt.Sprintf("customer %d requested %s but only %s is available", e.CustomerID, e.Requested, e.Available)
}

func (e *InsufficientCreditError) Unwrap() error {
	return ErrInsufficientCredit
}

func NewInsufficientCreditError(customerID int64, requested, available money.Money) error {
	return &InsufficientCreditError{CustomerID: customerID, Requested: requested, Available: available}
}

type ParticipantError struct {
	Identifier string
	Kind       error
}

func (e *ParticipantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Identifier)
}

func (e *ParticipantError) Unwrap() error {
	return e.Kind
}

func UnknownParticipant(identifier string) error {
	return &ParticipantError{Identifier: identifier, Kind: ErrUnknownParticipant}
}

func DuplicateParticipant(identifier string) error {
	return &ParticipantError{Identifier: identifier, Kind: ErrDuplicateParticipant}
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}
