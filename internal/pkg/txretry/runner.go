// Package txretry runs a unit of work inside one database transaction and
// replays the whole transaction when storage reports a transient failure.
package txretry

import (
	"bnpl-engine/internal/infrastructure/monitoring"
	"bnpl-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

type Transactor interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error
}

type Runner struct {
	db          Transactor
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger
}

func NewRunner(db Transactor, maxAttempts int, backoff time.Duration, logger *slog.Logger) *Runner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Runner{
		db:          db,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		logger:      logger.With("component", "TxRunner"),
	}
}

// Run calls fn inside a transaction. fn must be safe to call again from
// scratch: nothing it computed on a failed attempt survives the rollback.
func (r *Runner) Run(ctx context.Context, operation string, fn func(ctx context.Context, tx pgx.Tx) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.once(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrTransient) {
			return err
		}

		r.logger.WarnContext(ctx, "Transient storage failure, replaying transaction",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.maxAttempts),
			slog.Any("error", err),
		)
		if attempt == r.maxAttempts {
			break
		}
		monitoring.RecordTxRetry(operation)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s interrupted: %w", apperrors.ErrLedgerUnavailable, operation, ctx.Err())
		case <-time.After(r.backoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("%w: %s failed after %d attempts: %v", apperrors.ErrLedgerUnavailable, operation, r.maxAttempts, err)
}

func (r *Runner) once(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.ErrorContext(ctx, "Panic inside transaction, rolling back", "panic", p)
			_ = r.db.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = r.db.RollbackTx(ctx, tx)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	return r.db.CommitTx(ctx, tx)
}
