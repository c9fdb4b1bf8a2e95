package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/finboard/internal/transport/httpapi/handler"
	"github.com/kislikjeka/finboard/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/finboard/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	TrustProxy         bool
	Sessions           middleware.SessionResolver
	RateLimiter        *middleware.RateLimiter
	AuthHandler        *handler.AuthHandler
	ScreenHandler      *handler.ScreenHandler
	TransactionHandler *handler.TransactionHandler
	LoanHandler        *handler.LoanHandler
	PendingHandler     *handler.PendingHandler
	DebtHandler        *handler.DebtHandler
	HealthHandler      *handler.HealthHandler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware)
	}

	// Health check endpoints (no authentication required)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.GetHealth)
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, middleware.DashboardPath, http.StatusSeeOther)
	})

	// Public auth routes
	if cfg.AuthHandler != nil {
		r.With(middleware.RedirectAuthenticated(cfg.Sessions, middleware.DashboardPath)).
			Get(middleware.LoginPath, cfg.AuthHandler.LoginPage)
		r.Post(middleware.LoginPath, cfg.AuthHandler.Login)
	}

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(cfg.Sessions, cfg.Logger))

		if cfg.AuthHandler != nil {
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/me", cfg.AuthHandler.Me)
		}

		if cfg.ScreenHandler != nil {
			r.Get(middleware.DashboardPath, cfg.ScreenHandler.GetDashboard)
			r.Get("/accounts", cfg.ScreenHandler.GetAccounts)
			r.Get("/accounts/{id}", cfg.ScreenHandler.GetAccount)
			r.Get("/categories", cfg.ScreenHandler.GetCategories)
		}

		if cfg.TransactionHandler != nil {
			r.Post("/transactions", cfg.TransactionHandler.CreateTransaction)
		}

		if cfg.LoanHandler != nil {
			r.Route("/loans", func(r chi.Router) {
				r.Get("/", cfg.LoanHandler.GetLoans)
				r.Post("/", cfg.LoanHandler.CreateLoan)
				r.Get("/{id}", cfg.LoanHandler.GetLoan)
				r.Delete("/{id}", cfg.LoanHandler.DeleteLoan)
				r.Post("/{id}/payments", cfg.LoanHandler.RegisterPayment)
			})
		}

		if cfg.PendingHandler != nil {
			r.Route("/pending-payments", func(r chi.Router) {
				r.Get("/", cfg.PendingHandler.GetPendingPayments)
				r.Post("/", cfg.PendingHandler.CreatePendingPayment)
				r.Get("/{id}", cfg.PendingHandler.GetPendingPayment)
				r.Delete("/{id}", cfg.PendingHandler.DeletePendingPayment)
				r.Post("/{id}/mark-paid", cfg.PendingHandler.MarkPaid)
			})
		}

		if cfg.DebtHandler != nil {
			r.Get("/debts", cfg.DebtHandler.GetDebts)
			r.Post("/debts", cfg.DebtHandler.CreateDebt)
		}
	})

	return r
}
