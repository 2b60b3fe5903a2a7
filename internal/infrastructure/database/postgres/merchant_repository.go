package postgres

import (
	"bnpl-engine/internal/domain/merchant"
	"bnpl-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

type MerchantRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ merchant.Directory = (*MerchantRepository)(nil)

func NewMerchantRepository(db DBPool, logger *slog.Logger) *MerchantRepository {
	return &MerchantRepository{db: db, logger: logger.With("component", "MerchantRepository")}
}

func (r *MerchantRepository) FindByID(ctx context.Context, merchantID int64) (m *merchant.Merchant, err error) {
	defer func(start time.Time) { observe("FindMerchantByID", start, err) }(time.Now())

	var found merchant.Merchant
	err = r.db.QueryRow(ctx, `SELECT id, name, status, created_at FROM merchants WHERE id = $1`, merchantID).
		Scan(&found.ID, &found.Name, (*string)(&found.Status), &found.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Merchant not found", "merchant_id", merchantID)
			return nil, fmt.Errorf("%w: merchant %d", apperrors.ErrNotFound, merchantID)
		}
		return nil, translateDBError(err, r.logger)
	}
	return &found, nil
}
