package postgres

import (
	"bnpl-engine/internal/domain/merchant"
	"bnpl-engine/internal/pkg/apperrors"
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerchantRepository_FindByID(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	ctx := context.Background()
	repo := NewMerchantRepository(mockPool, logger)
	query := regexp.QuoteMeta(`SELECT id, name, status, created_at FROM merchants WHERE id = $1`)

	mockPool.ExpectQuery(query).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "status", "created_at"}).
			AddRow(int64(2), "Tokopedia", string(merchant.StatusActive), fixedTime))
	mockPool.ExpectQuery(query).
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	m, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.True(t, m.CanOriginate())

	_, err = repo.FindByID(ctx, 9)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
