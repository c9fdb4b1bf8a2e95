package handler

import (
	"context"
	"net/http"

	"github.com/kislikjeka/finboard/internal/platform/loan"
	"github.com/kislikjeka/finboard/internal/platform/transaction"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/pkg/logger"
)

// LoanServiceInterface defines the loan operations needed by LoanHandler
type LoanServiceInterface interface {
	List(ctx context.Context, qc *query.Client) ([]loan.View, error)
	Get(ctx context.Context, qc *query.Client, id int64) (*loan.View, error)
	Create(ctx context.Context, qc *query.Client, form loan.Form) (*loan.Loan, error)
	Delete(ctx context.Context, qc *query.Client, id int64) error
	RegisterPayment(ctx context.Context, qc *query.Client, id int64, form loan.PaymentForm) (*transaction.Transaction, error)
}

// LoanHandler handles money lent out
type LoanHandler struct {
	loans  LoanServiceInterface
	logger *logger.Logger
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loans LoanServiceInterface, log *logger.Logger) *LoanHandler {
	return &LoanHandler{loans: loans, logger: log}
}

// LoansResponse is the loans screen
type LoansResponse struct {
	Loans []loan.View `json:"loans"`
}

// GetLoans handles GET /loans
func (h *LoanHandler) GetLoans(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}

	loans, err := h.loans.List(ctx, cur.Query)
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}
	respondJSON(w, LoansResponse{Loans: loans}, http.StatusOK)
}

// GetLoan handles GET /loans/{id}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}

	view, err := h.loans.Get(ctx, cur.Query, id)
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}
	respondJSON(w, view, http.StatusOK)
}

// CreateLoan handles POST /loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}

	raw, err := readForm(w, r)
	if err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}
	var form loan.Form
	if err := raw.decode(&form); err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}

	created, err := h.loans.Create(ctx, cur.Query, form)
	if err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}
	respondMutation(w, created, "Loan created", http.StatusCreated)
}

// DeleteLoan handles DELETE /loans/{id}
func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}

	if err := h.loans.Delete(ctx, cur.Query, id); err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}
	respondMutation(w, map[string]int64{"id": id}, "Loan deleted", http.StatusOK)
}

// RegisterPayment handles POST /loans/{id}/payments (multipart, optional voucher)
func (h *LoanHandler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}

	raw, err := readForm(w, r)
	if err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}
	var form loan.PaymentForm
	if err := raw.decode(&form); err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}
	if form.File, err = readAttachment(r); err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}

	tx, err := h.loans.RegisterPayment(ctx, cur.Query, id, form)
	if err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}
	respondMutation(w, tx, "Payment registered", http.StatusCreated)
}
