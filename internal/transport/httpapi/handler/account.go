package handler

import (
	"context"
	"net/http"

	"github.com/kislikjeka/finboard/internal/platform/account"
	"github.com/kislikjeka/finboard/internal/platform/category"
	"github.com/kislikjeka/finboard/internal/platform/dashboard"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/pkg/logger"
	"github.com/kislikjeka/finboard/pkg/money"
)

// AccountServiceInterface defines the account reads needed by ScreenHandler
type AccountServiceInterface interface {
	List(ctx context.Context, qc *query.Client) ([]account.Account, error)
	Get(ctx context.Context, qc *query.Client, id int64, page account.Page) (*account.Detail, error)
}

// CategoryServiceInterface defines the category reads needed by ScreenHandler
type CategoryServiceInterface interface {
	List(ctx context.Context, qc *query.Client, typ string) ([]category.Category, error)
}

// DashboardServiceInterface builds the landing screen
type DashboardServiceInterface interface {
	Build(ctx context.Context, qc *query.Client) (*dashboard.Dashboard, error)
}

// ScreenHandler serves the read-only screens
type ScreenHandler struct {
	accounts   AccountServiceInterface
	categories CategoryServiceInterface
	dashboard  DashboardServiceInterface
	logger     *logger.Logger
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(accounts AccountServiceInterface, categories CategoryServiceInterface, dashboard DashboardServiceInterface, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		accounts:   accounts,
		categories: categories,
		dashboard:  dashboard,
		logger:     log,
	}
}

// AccountsResponse is the accounts screen
type AccountsResponse struct {
	Accounts     []account.Account `json:"accounts"`
	TotalBalance money.Number      `json:"total_balance"`
}

// AccountResponse is the account detail screen
type AccountResponse struct {
	*account.Detail
	HasMore bool `json:"has_more"`
}

// CategoriesResponse is the category picker data
type CategoriesResponse struct {
	Categories []category.Category `json:"categories"`
}

// GetDashboard handles GET /dashboard
func (h *ScreenHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}

	d, err := h.dashboard.Build(ctx, cur.Query)
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}
	respondJSON(w, d, http.StatusOK)
}

// GetAccounts handles GET /accounts
func (h *ScreenHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}

	accounts, err := h.accounts.List(ctx, cur.Query)
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}
	respondJSON(w, AccountsResponse{
		Accounts:     accounts,
		TotalBalance: money.Number{Decimal: account.TotalBalance(accounts)},
	}, http.StatusOK)
}

// GetAccount handles GET /accounts/{id}?offset&limit
func (h *ScreenHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}

	page := account.ParsePage(r.URL.Query().Get("offset"), r.URL.Query().Get("limit"))
	detail, err := h.accounts.Get(ctx, cur.Query, id, page)
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}
	respondJSON(w, AccountResponse{Detail: detail, HasMore: detail.HasMore()}, http.StatusOK)
}

// GetCategories handles GET /categories?type=expense|income
func (h *ScreenHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}

	categories, err := h.categories.List(ctx, cur.Query, r.URL.Query().Get("type"))
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}
	respondJSON(w, CategoriesResponse{Categories: categories}, http.StatusOK)
}
