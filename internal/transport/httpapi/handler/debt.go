package handler

import (
	"context"
	"net/http"

	"github.com/kislikjeka/finboard/internal/platform/debt"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/pkg/logger"
)

// DebtServiceInterface defines the debt operations needed by DebtHandler
type DebtServiceInterface interface {
	List(ctx context.Context, qc *query.Client) ([]debt.View, error)
	Create(ctx context.Context, qc *query.Client, form debt.Form) (*debt.Debt, error)
}

// DebtHandler handles money owed
type DebtHandler struct {
	debts  DebtServiceInterface
	logger *logger.Logger
}

// NewDebtHandler creates a new debt handler
func NewDebtHandler(debts DebtServiceInterface, log *logger.Logger) *DebtHandler {
	return &DebtHandler{debts: debts, logger: log}
}

// DebtsResponse is the debts screen
type DebtsResponse struct {
	Debts []debt.View `json:"debts"`
}

// GetDebts handles GET /debts
func (h *DebtHandler) GetDebts(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}

	debts, err := h.debts.List(ctx, cur.Query)
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}
	respondJSON(w, DebtsResponse{Debts: debts}, http.StatusOK)
}

// CreateDebt handles POST /debts
func (h *DebtHandler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}

	raw, err := readForm(w, r)
	if err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}
	var form debt.Form
	if err := raw.decode(&form); err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}

	created, err := h.debts.Create(ctx, cur.Query, form)
	if err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}
	respondMutation(w, created, "Debt created", http.StatusCreated)
}
