package apperrors

import (
	"bnpl-engine/internal/pkg/money"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "DB_ERROR",
				Message: "could not lock loan row",
			},
			expected: "[DB_ERROR] could not lock loan row",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "could not lock loan row",
			},
			expected: "could not lock loan row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("conn reset")
	err := WrapDatabaseError(cause, "insert failed")

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)
}

func TestInsufficientCreditError(t *testing.T) {
	err := fmt.Errorf("checkout rejected: %w", NewInsufficientCreditError(7, money.MustParse("3000.00"), money.MustParse("2000.00")))

	assert.ErrorIs(t, err, ErrInsufficientCredit)

	var credit *InsufficientCreditError
	if assert.ErrorAs(t, err, &credit) {
		assert.Equal(t, money.MustParse("2000.00"), credit.Available)
	}
	assert.Contains(t, err.Error(), "only 2000.00 is available")
}

func TestParticipantError(t *testing.T) {
	unknown := UnknownParticipant("ghost@example.com")
	assert.ErrorIs(t, unknown, ErrUnknownParticipant)
	assert.NotErrorIs(t, unknown, ErrDuplicateParticipant)
	assert.Equal(t, "unknown participant: ghost@example.com", unknown.Error())

	var pe *ParticipantError
	if assert.ErrorAs(t, DuplicateParticipant("bob@example.com"), &pe) {
		assert.Equal(t, "bob@example.com", pe.Identifier)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("amount", "must be positive")

	assert.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "amount", ve.Field)
	}
}
