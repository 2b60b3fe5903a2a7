package postgres

import (
	"bnpl-engine/internal/pkg/apperrors"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, apperrors.ErrTransient},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, apperrors.ErrTransient},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, apperrors.ErrTransient},
		{"connection exception", &pgconn.PgError{Code: "08006"}, apperrors.ErrTransient},
		{"unique violation", &pgconn.PgError{Code: "23505"}, apperrors.ErrAlreadyExists},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, apperrors.ErrNotFound},
		{"check violation", &pgconn.PgError{Code: "23514"}, apperrors.ErrLedgerInvariant},
		{"syntax error", &pgconn.PgError{Code: "42601"}, apperrors.ErrDatabase},
		{"wrapped serialization failure", fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), apperrors.ErrTransient},
		{"generic", errors.New("boom"), apperrors.ErrDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateDBError(tt.err, logger), tt.want)
		})
	}

	assert.NoError(t, translateDBError(nil, logger))
}
