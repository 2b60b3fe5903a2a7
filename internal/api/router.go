package api

import (
	"bnpl-engine/internal/api/handler"
	mw "bnpl-engine/internal/api/middleware"
	"bnpl-engine/internal/config"
	"bnpl-engine/internal/domain/customer"
	"bnpl-engine/internal/domain/group"
	"bnpl-engine/internal/domain/loan"
	"context"
	"log/slog"
	"net/http"
	"time"

	_ "bnpl-engine/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const limiterCleanupInterval = 5 * time.Minute

type Services struct {
	Loans         loan.LoanService
	Customers     customer.CustomerService
	Groups        group.GroupService
	Notifications handler.NotificationInbox
	HealthChecks  map[string]handler.Check
}

// SetupRouter wires every route. ctx bounds background work owned by the
// router, such as rate limiter eviction.
func SetupRouter(ctx context.Context, svc Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()
	limiter := mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger)
	limiter.StartCleanup(ctx, limiterCleanupInterval)

	setupMiddleware(router, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupHealthRoutes(router, svc.HealthChecks, logger)
	setupSwaggerEndpoint(router, logger)

	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.With(limiter.Middleware).Post("/auth/token", authHandler.GenerateBearerToken)

	router.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Use(limiter.Middleware)

		setupLoanRoutes(r, svc.Loans, logger)
		setupGroupRoutes(r, svc.Groups, logger)
		setupSelfServiceRoutes(r, svc, logger)
		setupAdminRoutes(r, svc.Customers, logger)
	})

	return router
}

func setupMiddleware(router *chi.Mux, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupHealthRoutes(router *chi.Mux, checks map[string]handler.Check, logger *slog.Logger) {
	h := handler.NewHealthHandler(checks, logger)
	router.Get("/health", h.Live)
	router.Get("/ready", h.Ready)
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupLoanRoutes(r chi.Router, svc loan.LoanService, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, logger)
	r.Post("/checkout", h.Checkout)
	r.Get("/loans/{loanID}", h.GetLoan)
	r.Post("/installments/{installmentID}/pay", h.PayInstallment)
}

func setupGroupRoutes(r chi.Router, svc group.GroupService, logger *slog.Logger) {
	h := handler.NewGroupHandler(svc, logger)
	r.Post("/loans/{loanID}/split", h.SplitLoan)
	r.Route("/groups/{groupID}", func(r chi.Router) {
		r.Get("/", h.GetGroup)
		r.Post("/participants", h.AddParticipant)
	})
}

func setupSelfServiceRoutes(r chi.Router, svc Services, logger *slog.Logger) {
	ch := handler.NewCustomerHandler(svc.Customers, logger)
	nh := handler.NewNotificationHandler(svc.Notifications, logger)
	lh := handler.NewLoanHandler(svc.Loans, logger)

	r.Route("/me", func(r chi.Router) {
		r.Get("/", ch.Me)
		r.Put("/preference", ch.UpdatePreference)
		r.Get("/installments", lh.PendingInstallments)
		r.Get("/instruments", ch.ListInstruments)
		r.Post("/instruments", ch.AddInstrument)
		r.Put("/instruments/{instrumentID}/default", ch.SetDefaultInstrument)
		r.Get("/notifications", nh.List)
		r.Post("/notifications/{notificationID}/read", nh.MarkRead)
	})
}

func setupAdminRoutes(r chi.Router, svc customer.CustomerService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	r.Route("/admin/customers", func(r chi.Router) {
		r.Use(mw.RequireAdmin(logger))
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Post("/deactivate", h.DeactivateCustomer)
			r.Post("/reactivate", h.ReactivateCustomer)
		})
	})
}
