package handler

import (
	"context"
	"net/http"

	"github.com/kislikjeka/finboard/internal/platform/transaction"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/pkg/logger"
)

// TransactionServiceInterface defines the transaction operations needed by TransactionHandler
type TransactionServiceInterface interface {
	Create(ctx context.Context, qc *query.Client, form transaction.Form) (*transaction.Transaction, error)
}

// TransactionHandler handles transaction submissions
type TransactionHandler struct {
	transactions TransactionServiceInterface
	logger       *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactions TransactionServiceInterface, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, logger: log}
}

// CreateTransaction handles POST /transactions (multipart, optional voucher in "file")
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	cur, ctx, ok := currentSession(w, r)
	if !ok {
		return
	}

	raw, err := readForm(w, r)
	if err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}

	var form transaction.Form
	if err := raw.decode(&form); err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}
	if form.File, err = readAttachment(r); err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}

	tx, err := h.transactions.Create(ctx, cur.Query, form)
	if err != nil {
		respondMutationError(w, r, h.logger, err, raw)
		return
	}
	respondMutation(w, tx, "Transaction created", http.StatusCreated)
}
