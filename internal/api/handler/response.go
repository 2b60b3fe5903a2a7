package handler

import (
	"bnpl-engine/internal/api/handler/dto"
	"bnpl-engine/internal/api/middleware"
	"bnpl-engine/internal/pkg/apperrors"
	"bnpl-engine/internal/pkg/money"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports failing fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON decodes a strict JSON body and runs its validate tags.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: no request body", apperrors.ErrInvalidArgument)
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperrors.NewValidationError(fe.Field(), fmt.Sprintf("failed '%s' check", fe.Tag()))
		}
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings is checked in order. Empty messages echo the error text.
var errorMappings = []errorMapping{
	{apperrors.ErrInsufficientCredit, http.StatusPaymentRequired, "INSUFFICIENT_CREDIT", ""},
	{apperrors.ErrMerchantUnavailable, http.StatusUnprocessableEntity, "MERCHANT_UNAVAILABLE", "Merchant is not accepting orders."},
	{apperrors.ErrCustomerSuspended, http.StatusForbidden, "CUSTOMER_SUSPENDED", "Customer account is suspended."},
	{apperrors.ErrInvalidInstrument, http.StatusForbidden, "INVALID_INSTRUMENT", "Payment instrument does not belong to the customer."},
	{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "You are not allowed to act on this resource."},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized."},
	{apperrors.ErrAlreadyPaid, http.StatusConflict, "ALREADY_PAID", "Installment is already paid."},
	{apperrors.ErrDuplicateParticipant, http.StatusConflict, "DUPLICATE_PARTICIPANT", ""},
	{apperrors.ErrGroupLocked, http.StatusConflict, "GROUP_LOCKED", "Payment group can no longer be restructured."},
	{apperrors.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS", ""},
	{apperrors.ErrConflict, http.StatusConflict, "CONFLICT", ""},
	{apperrors.ErrUnknownParticipant, http.StatusNotFound, "UNKNOWN_PARTICIPANT", ""},
	{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Resource not found."},
	{apperrors.ErrLedgerUnavailable, http.StatusServiceUnavailable, "LEDGER_UNAVAILABLE", "Ledger is temporarily unavailable, retry later."},
	{apperrors.ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT", ""},
	{money.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT", ""},
	{apperrors.ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED", ""},
}

func lookupError(err error) (errorMapping, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m, true
		}
	}
	return errorMapping{}, false
}

func respondError(w http.ResponseWriter, err error) {
	status, code, message, field := http.StatusInternalServerError, "INTERNAL", "An unexpected error occurred.", ""

	var validationError *apperrors.ValidationError
	if errors.As(err, &validationError) {
		status, code, message, field = http.StatusBadRequest, "VALIDATION_FAILED", validationError.Message, validationError.Field
	} else if m, ok := lookupError(err); ok {
		status, code, message = m.status, m.code, m.message
		if message == "" {
			message = err.Error()
		}
	} else {
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	respondJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	})
}

func pathID(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return 0, fmt.Errorf("%w: %s not found in URL path", apperrors.ErrInvalidArgument, param)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s format in URL path: %s", apperrors.ErrInvalidArgument, param, idStr)
	}
	return id, nil
}

// callerCustomer returns the authenticated customer id, rejecting admins on
// routes that act on the caller's own ledger.
func callerCustomer(r *http.Request) (int64, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	if id.CustomerID <= 0 {
		return 0, fmt.Errorf("%w: route requires a customer identity", apperrors.ErrForbidden)
	}
	return id.CustomerID, nil
}

func parseAmount(field, raw string) (money.Money, error) {
	amount, err := money.Parse(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(field, "must be a decimal amount with at most two fractional digits")
	}
	if !amount.IsPositive() {
		return 0, apperrors.NewValidationError(field, "must be positive")
	}
	return amount, nil
}

func logLevelFor(err error) slog.Level {
	var validationError *apperrors.ValidationError
	if errors.As(err, &validationError) {
		return slog.LevelWarn
	}
	if m, ok := lookupError(err); ok && m.status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}
