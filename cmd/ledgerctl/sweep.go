package main

import (
	"bnpl-engine/internal/batch"
	"bnpl-engine/internal/config"
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/infrastructure/database/postgres"
	"bnpl-engine/internal/infrastructure/logging"
	"bnpl-engine/internal/pkg/txretry"
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the overdue risk sweep once",
		Long: `Suspends every active customer holding an unpaid installment that is
more than --max-days-overdue days past due, then prints the sweep summary.
The sweep takes the same Redis lock as the scheduled job.`,
		RunE: runSweep,
	}
	cmd.Flags().Int("max-days-overdue", 0, "Override risk.maxDaysOverdue for this run")
	cmd.Flags().Int("workers", 0, "Override risk.workers for this run")
	cmd.Flags().Bool("no-lock", false, "Skip the cluster-wide lock")
	return cmd
}

func runSweep(cmd *cobra.Command, _ []string) error {
	configDir, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	riskCfg := cfg.Risk
	if v, _ := cmd.Flags().GetInt("max-days-overdue"); v != 0 {
		riskCfg.MaxDaysOverdue = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v != 0 {
		riskCfg.Workers = v
	}

	logger := logging.NewLogger(cfg.Logger)
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Batch.RiskSweepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Batch.RiskSweepTimeout)
		defer cancel()
	}

	pool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	loanRepo := postgres.NewLoanRepository(pool, logger)
	customerRepo := postgres.NewCustomerRepository(pool, logger)
	emitter := notification.NewDispatcher(postgres.NewNotificationRepository(pool, logger), nil, logger)
	runner := txretry.NewRunner(customerRepo, cfg.Ledger.MaxAttempts, cfg.Ledger.RetryBackoff, logger)

	var opts []batch.Option
	if noLock, _ := cmd.Flags().GetBool("no-lock"); !noLock {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer client.Close()
		opts = append(opts, batch.WithLocker(batch.NewRedisLocker(client), cfg.Batch.RiskSweepLockTTL))
	}

	job := batch.NewRiskSweepJob(loanRepo, customerRepo, runner, emitter, logger, opts...)
	result, runErr := job.Run(ctx, riskCfg)
	if result != nil {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	}
	return runErr
}
