package handler

import (
	"context"
	"net/http"

	"github.com/kislikjeka/finboard/internal/platform/pending"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/pkg/logger"
)

// PendingServiceInterface defines the pending payment operations needed by PendingHandler
type PendingServiceInterface interface {
	List(ctx context.Context, qc *query.Client, filter pending.Filter) ([]pending.View, error)
	Get(ctx context.Context, qc *query.Client, id int64) (*pending.View, error)
	Create(ctx context.Context, qc *query.Client, form pending.Form) (*pending.PendingPayment, error)
	MarkPaid(ctx context.Context, qc *query.Client, id int64, form pending.PayForm) (*pending.PendingPayment, error)
	Delete(ctx context.Context, qc *query.Client, id int64) error
}

// PendingHandler handles bills waiting to be paid
type PendingHandler struct {
	pending PendingServiceInterface
	logger  *logger.Logger
}

// NewPendingHandler creates a new pending payment handler
func NewPendingHandler(svc PendingServiceInterface, log *logger.Logger) *PendingHandler {
	return &PendingHandler{pending: svc, logger: log}
}

// PendingPaymentsResponse is the pending payments screen
type PendingPaymentsResponse struct {
	PendingPayments []pending.View  `json:"pending_payments"`
	Summary         pending.Summary `json:"summary"`
	Filter          pending.Filter  `json:"filter"`
}

// GetPendingPayments handles GET /pending-payments?status&priority
func (h *PendingHandler) GetPendingPayments(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}

	filter := pending.ParseFilter(r.URL.Query())
	views, err := h.pending.List(ctx, cur.Query, filter)
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}
	respondJSON(w, PendingPaymentsResponse{
		PendingPayments: views,
		Summary:         pending.Summarize(views),
		Filter:          filter,
	}, http.StatusOK)
}

// GetPendingPayment handles GET /pending-payments/{id}
func (h *PendingHandler) GetPendingPayment(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}

	view, err := h.pending.Get(ctx, cur.Query, id)
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}
	respondJSON(w, view, http.StatusOK)
}

// CreatePendingPayment handles POST /pending-payments
func (h *PendingHandler) CreatePendingPayment(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}

	raw, err := readForm(w, r)
	if err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}
	var form pending.Form
	if err := raw.decode(&form); err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}

	created, err := h.pending.Create(ctx, cur.Query, form)
	if err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}
	respondMutation(w, created, "Pending payment created", http.StatusCreated)
}

// MarkPaid handles POST /pending-payments/{id}/mark-paid
func (h *PendingHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
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
	var form pending.PayForm
	if err := raw.decode(&form); err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}

	paid, err := h.pending.MarkPaid(ctx, cur.Query, id, form)
	if err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}
	respondMutation(w, paid, "Payment marked as paid", http.StatusOK)
}

// DeletePendingPayment handles DELETE /pending-payments/{id}
func (h *PendingHandler) DeletePendingPayment(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}

	if err := h.pending.Delete(ctx, cur.Query, id); err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}
	respondMutation(w, map[string]int64{"id": id}, "Pending payment deleted", http.StatusOK)
}
