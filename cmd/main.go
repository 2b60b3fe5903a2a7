package main

import (
	_ "bnpl-engine/docs"
	"bnpl-engine/internal/api"
	"bnpl-engine/internal/api/handler"
	"bnpl-engine/internal/batch"
	"bnpl-engine/internal/config"
	"bnpl-engine/internal/domain/customer"
	"bnpl-engine/internal/domain/group"
	"bnpl-engine/internal/domain/loan"
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/event"
	"bnpl-engine/internal/infrastructure/database/postgres"
	"bnpl-engine/internal/infrastructure/logging"
	"bnpl-engine/internal/pkg/txretry"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// @title BNPL Engine API
// @version 1.0
// @description Buy now, pay later credit ledger: checkout, installment settlement, group splits and risk suspension.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	redisClient := initializeRedis(cfg, logger)
	defer redisClient.Close()

	amqpConn, publisher := initializeEvents(cfg, logger)
	if amqpConn != nil {
		defer amqpConn.Close()
	}

	app := initializeServices(dbPool, publisher, cfg, logger)
	sweepJob := batch.NewRiskSweepJob(app.loanRepo, app.customerRepo, app.sweepRunner, app.emitter, logger,
		batch.WithLocker(batch.NewRedisLocker(redisClient), cfg.Batch.RiskSweepLockTTL))

	cronScheduler := startBatchJobs(cfg, logger, sweepJob)
	router := api.SetupRouter(rootCtx, api.Services{
		Loans:         app.loans,
		Customers:     app.customers,
		Groups:        app.groups,
		Notifications: app.inbox,
		HealthChecks: map[string]handler.Check{
			"postgres": dbPool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	}, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

func initializeRedis(cfg *config.Config, logger *slog.Logger) *redis.Client {
	logger.Info("Initializing Redis client...", "addr", cfg.Redis.Addr)
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// initializeEvents returns a nil publisher when RabbitMQ is disabled or
// unreachable; notifications are still persisted locally.
func initializeEvents(cfg *config.Config, logger *slog.Logger) (*amqp.Connection, notification.Publisher) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled, domain events stay local.")
		return nil, nil
	}
	conn, err := event.Dial(cfg.RabbitMQ)
	if err != nil {
		logger.Warn("RabbitMQ unreachable, domain events stay local", "error", err)
		return nil, nil
	}
	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Warn("Failed to set up RabbitMQ publisher, domain events stay local", "error", err)
		_ = conn.Close()
		return nil, nil
	}
	return conn, publisher
}

type application struct {
	loans        loan.LoanService
	customers    customer.CustomerService
	groups       group.GroupService
	inbox        *notification.Service
	emitter      notification.Emitter
	loanRepo     *postgres.LoanRepository
	customerRepo *postgres.CustomerRepository
	sweepRunner  *txretry.Runner
}

func initializeServices(dbPool *pgxpool.Pool, publisher notification.Publisher, cfg *config.Config, logger *slog.Logger) *application {
	logger.Info("Initializing application components...")
	loanRepo := postgres.NewLoanRepository(dbPool, logger)
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	groupRepo := postgres.NewGroupRepository(dbPool, logger)
	merchantRepo := postgres.NewMerchantRepository(dbPool, logger)
	notificationRepo := postgres.NewNotificationRepository(dbPool, logger)

	emitter := notification.NewDispatcher(notificationRepo, publisher, logger)
	runner := txretry.NewRunner(loanRepo, cfg.Ledger.MaxAttempts, cfg.Ledger.RetryBackoff, logger)

	return &application{
		loans:        loan.NewLoanService(loanRepo, customerRepo, merchantRepo, runner, emitter, cfg.Ledger.BonusRate(), logger),
		customers:    customer.NewCustomerService(customerRepo, emitter, logger),
		groups:       group.NewGroupService(groupRepo, loanRepo, customerRepo, runner, emitter, logger),
		inbox:        notification.NewService(notificationRepo, logger),
		emitter:      emitter,
		loanRepo:     loanRepo,
		customerRepo: customerRepo,
		sweepRunner:  runner,
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Application shutdown process complete.")
}

type riskSweeper interface {
	Run(ctx context.Context, cfg config.RiskConfig) (*batch.SweepResult, error)
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, sweepJob riskSweeper) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.RiskSweepSchedule
	if scheduleSpec == "" {
		scheduleSpec = "0 2 * * *"
		logger.Warn("Risk sweep schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.RiskSweepTimeout
	if jobTimeout <= 0 {
		jobTimeout = time.Hour
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		runRiskSweep(sweepJob, cfg.Risk, jobTimeout, logger)
	}))
	if err != nil {
		logger.Error("Failed to schedule risk sweep job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled risk sweep job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func runRiskSweep(sweepJob riskSweeper, riskCfg config.RiskConfig, timeout time.Duration, logger *slog.Logger) {
	jobLogger := logger.With("job_name", "RiskSweep")
	jobLogger.Info("Cron triggered: Running risk sweep job.")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := sweepJob.Run(ctx, riskCfg)
	switch {
	case errors.Is(err, batch.ErrSweepInProgress):
		jobLogger.Info("Risk sweep already running on another replica, skipping.")
	case err != nil:
		jobLogger.Error("Risk sweep job finished with error", slog.Any("error", err))
	default:
		jobLogger.Info("Risk sweep job finished successfully.", "suspended", result.Suspended)
	}
}

func setupLogger(cfg config.LoggerConfig) *slog.Logger {
	return logging.NewLogger(cfg)
}
