package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kislikjeka/finboard/internal/platform/transaction"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/pkg/logger"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Create(ctx context.Context, qc *query.Client, form transaction.Form) (*transaction.Transaction, error) {
	args := m.Called(ctx, qc, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func transactionFields() map[string]string {
	return map[string]string{
		"type":       "expense",
		"amount":     "42.10",
		"date":       "2024-05-01",
		"accountId":  "1",
		"categoryId": "2",
	}
}

func TestCreateTransaction_MultipartWithFile(t *testing.T) {
	svc := &MockTransactionService{}
	h := NewTransactionHandler(svc, logger.Discard())
	cur := testCurrent()

	svc.On("Create", mock.Anything, cur.Query, mock.MatchedBy(func(f transaction.Form) bool {
		return f.Type == "expense" &&
			f.Amount == "42.10" &&
			f.File != nil &&
			f.File.Filename == "receipt.png" &&
			f.File.ContentType == "image/png" &&
			bytes.Equal(f.File.Content, pngHeader)
	})).Return(&transaction.Transaction{ID: 5}, nil)

	req := multipartRequest(t, "/transactions", transactionFields(), &filePart{name: "receipt.png", contentType: "image/png", content: pngHeader})
	rec := httptest.NewRecorder()
	h.CreateTransaction(rec, withSession(req, cur))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Transaction created", decodeMutation(t, rec).Notification.Message)
	svc.AssertExpectations(t)
}

func TestCreateTransaction_WithoutFile(t *testing.T) {
	svc := &MockTransactionService{}
	h := NewTransactionHandler(svc, logger.Discard())
	cur := testCurrent()

	svc.On("Create", mock.Anything, cur.Query, mock.MatchedBy(func(f transaction.Form) bool {
		return f.File == nil && f.CategoryID == "2"
	})).Return(&transaction.Transaction{ID: 6}, nil)

	req := multipartRequest(t, "/transactions", transactionFields(), nil)
	rec := httptest.NewRecorder()
	h.CreateTransaction(rec, withSession(req, cur))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateTransaction_OversizedUpload(t *testing.T) {
	svc := &MockTransactionService{}
	h := NewTransactionHandler(svc, logger.Discard())

	big := make([]byte, maxUploadBody+1)
	req := multipartRequest(t, "/transactions", transactionFields(), &filePart{name: "scan.pdf", contentType: "application/pdf", content: big})
	rec := httptest.NewRecorder()
	h.CreateTransaction(rec, withSession(req, testCurrent()))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeMutation(t, rec)
	assert.Equal(t, "file must be 5 MB or smaller", resp.Fields["file"])
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}
