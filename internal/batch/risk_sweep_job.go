package batch

import (
	"bnpl-engine/internal/config"
	"bnpl-engine/internal/domain/customer"
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/infrastructure/monitoring"
	"bnpl-engine/internal/pkg/apperrors"
	"bnpl-engine/internal/pkg/txretry"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

const (
	sweepLockKey     = "bnpl:lock:risk-sweep"
	defaultLockTTL   = 2 * time.Hour
	defaultWorkers   = 4
	sweepTxOperation = "RiskSweep"
)

var ErrSweepInProgress = errors.New("risk sweep already running elsewhere")

type OverdueFinder interface {
	FindOverdueCustomerIDs(ctx context.Context, cutoff time.Time) ([]int64, error)
	HasOverdueInstallmentsInTx(ctx context.Context, tx pgx.Tx, customerID int64, cutoff time.Time) (bool, error)
}

type Suspender interface {
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (*customer.Customer, error)
	SuspendInTx(ctx context.Context, tx pgx.Tx, customerID int64) (bool, error)
}

type SweepResult struct {
	Cutoff     time.Time     `json:"cutoff"`
	Candidates int           `json:"candidates"`
	Suspended  int           `json:"suspended"`
	Unchanged  int           `json:"unchanged"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

type SuspensionPayload struct {
	CustomerID     int64     `json:"customerId"`
	Cutoff         time.Time `json:"cutoff"`
	MaxDaysOverdue int       `json:"maxDaysOverdue"`
}

// RiskSweepJob suspends customers holding installments overdue past the
// configured threshold.
type RiskSweepJob struct {
	loans     OverdueFinder
	customers Suspender
	runner    *txretry.Runner
	emitter   notification.Emitter
	locker    Locker
	lockTTL   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*RiskSweepJob)

func WithClock(now func() time.Time) Option {
	return func(j *RiskSweepJob) { j.now = now }
}

// WithLocker makes the sweep single-flight across replicas.
func WithLocker(locker Locker, ttl time.Duration) Option {
	return func(j *RiskSweepJob) {
		j.locker = locker
		if ttl > 0 {
			j.lockTTL = ttl
		}
	}
}

func NewRiskSweepJob(
	loans OverdueFinder,
	customers Suspender,
	runner *txretry.Runner,
	emitter notification.Emitter,
	logger *slog.Logger,
	opts ...Option,
) *RiskSweepJob {
	if loans == nil || customers == nil || runner == nil || logger == nil {
		panic("RiskSweepJob dependencies cannot be nil")
	}
	if emitter == nil {
		emitter = notification.NopEmitter{}
	}
	j := &RiskSweepJob{
		loans:     loans,
		customers: customers,
		runner:    runner,
		emitter:   emitter,
		lockTTL:   defaultLockTTL,
		logger:    logger.With("job", "RiskSweep"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *RiskSweepJob) Run(ctx context.Context, cfg config.RiskConfig) (*SweepResult, error) {
	if cfg.MaxDaysOverdue <= 0 {
		return nil, apperrors.NewValidationError("maxDaysOverdue", "must be positive")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	if j.locker != nil {
		lock, err := j.locker.TryLock(ctx, sweepLockKey, j.lockTTL)
		if err != nil {
			if errors.Is(err, ErrLockHeld) {
				j.logger.InfoContext(ctx, "Risk sweep skipped, another replica holds the lock.")
				return nil, ErrSweepInProgress
			}
			return nil, err
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				j.logger.WarnContext(ctx, "Failed to release risk sweep lock", slog.Any("error", err))
			}
		}()
	}

	startTime := time.Now()
	cutoff := cfg.Cutoff(j.now())
	logCtx := j.logger.With(slog.Time("cutoff", cutoff), slog.Int("max_days_overdue", cfg.MaxDaysOverdue))
	logCtx.InfoContext(ctx, "Starting risk sweep.")

	candidates, err := j.loans.FindOverdueCustomerIDs(ctx, cutoff)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to find overdue customers, aborting sweep.", slog.Any("error", err))
		return nil, fmt.Errorf("cannot run risk sweep, failed to find overdue customers: %w", err)
	}
	logCtx.InfoContext(ctx, "Fetched overdue customers.", slog.Int("count", len(candidates)))

	var suspended, unchanged, failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, customerID := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			changed, err := j.sweepCustomer(gctx, customerID, cutoff)
			switch {
			case err != nil:
				logCtx.ErrorContext(gctx, "Failed to suspend customer", slog.Int64("customerID", customerID), slog.Any("error", err))
				failed.Add(1)
			case changed:
				suspended.Add(1)
				j.emitSuspension(gctx, customerID, cutoff, cfg.MaxDaysOverdue)
			default:
				unchanged.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &SweepResult{
		Cutoff:     cutoff,
		Candidates: len(candidates),
		Suspended:  int(suspended.Load()),
		Unchanged:  int(unchanged.Load()),
		Failed:     int(failed.Load()),
		Duration:   time.Since(startTime),
	}
	monitoring.RecordSweep(result.Duration)

	summaryLog := logCtx.With(
		slog.Duration("duration", result.Duration),
		slog.Int("candidates", result.Candidates),
		slog.Int("suspended", result.Suspended),
		slog.Int("unchanged", result.Unchanged),
		slog.Int("errors_encountered", result.Failed),
	)
	if ctx.Err() != nil {
		summaryLog.WarnContext(ctx, "Risk sweep interrupted.", slog.Any("error", ctx.Err()))
		return result, fmt.Errorf("risk sweep interrupted: %w", ctx.Err())
	}
	if result.Failed > 0 {
		summaryLog.WarnContext(ctx, "Risk sweep finished with errors.")
		return result, fmt.Errorf("risk sweep completed with %d errors", result.Failed)
	}
	summaryLog.InfoContext(ctx, "Risk sweep finished successfully.")
	return result, nil
}

// sweepCustomer re-checks the candidate under its row lock, so a customer who
// paid or was suspended since the scan is left untouched.
func (j *RiskSweepJob) sweepCustomer(ctx context.Context, customerID int64, cutoff time.Time) (bool, error) {
	var changed bool
	err := j.runner.Run(ctx, sweepTxOperation, func(ctx context.Context, tx pgx.Tx) error {
		changed = false

		cust, err := j.customers.FindByIDForUpdate(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if !cust.Active {
			return nil
		}

		overdue, err := j.loans.HasOverdueInstallmentsInTx(ctx, tx, customerID, cutoff)
		if err != nil {
			return err
		}
		if !overdue {
			return nil
		}

		changed, err = j.customers.SuspendInTx(ctx, tx, customerID)
		return err
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		j.logger.WarnContext(ctx, "Overdue customer vanished before suspension", slog.Int64("customerID", customerID))
		return false, nil
	}
	return changed, err
}

func (j *RiskSweepJob) emitSuspension(ctx context.Context, customerID int64, cutoff time.Time, maxDays int) {
	monitoring.RecordSuspension()
	j.logger.InfoContext(ctx, "Customer suspended for overdue installments.", slog.Int64("customerID", customerID))

	j.emitter.Emit(ctx, notification.NewEvent(
		notification.KindCustomerSuspended,
		SuspensionPayload{CustomerID: customerID, Cutoff: cutoff, MaxDaysOverdue: maxDays},
		notification.ToCustomer(customerID, notification.CategoryRisk,
			"Account suspended",
			fmt.Sprintf("Your account is suspended because an installment is more than %d days overdue. Pay it to restore access.", maxDays)),
		notification.ToAdmins(notification.CategoryRisk,
			"Customer suspended",
			fmt.Sprintf("Customer %d was suspended by the risk sweep.", customerID)),
	))
}
