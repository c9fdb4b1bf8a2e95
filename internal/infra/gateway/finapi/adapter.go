package finapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kislikjeka/finboard/internal/platform/account"
	"github.com/kislikjeka/finboard/internal/platform/category"
	"github.com/kislikjeka/finboard/internal/platform/debt"
	"github.com/kislikjeka/finboard/internal/platform/loan"
	"github.com/kislikjeka/finboard/internal/platform/pending"
	"github.com/kislikjeka/finboard/internal/platform/session"
	"github.com/kislikjeka/finboard/internal/platform/transaction"
)

// Compile-time checks that Client serves every domain port
var (
	_ session.Gateway     = (*Client)(nil)
	_ account.Gateway     = (*Client)(nil)
	_ category.Gateway    = (*Client)(nil)
	_ transaction.Gateway = (*Client)(nil)
	_ loan.Gateway        = (*Client)(nil)
	_ pending.Gateway     = (*Client)(nil)
	_ debt.Gateway        = (*Client)(nil)
)

// identityData accepts both {"user": {...}} and a bare user object
type identityData struct {
	User *session.Identity `json:"user"`
	session.Identity
}

func (d *identityData) identity() *session.Identity {
	if d.User != nil {
		return d.User
	}
	return &d.Identity
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

// =============================================================================
// Auth
// =============================================================================

// Login signs in and returns the cookies the API set
func (c *Client) Login(ctx context.Context, username, password string) (*session.Identity, []*http.Cookie, error) {
	r, err := jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, nil, err
	}

	var data identityData
	resp, err := c.doResponse(ctx, r, &data)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Unauthorized() || apiErr.StatusCode == http.StatusBadRequest) {
			return nil, nil, fmt.Errorf("%w: %s", session.ErrInvalidCredentials, apiErr.Message)
		}
		return nil, nil, err
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: "sign-in response carried no session cookie"}
	}
	identity := data.identity()
	if identity.Username == "" {
		identity.Username = username
	}
	return identity, cookies, nil
}

// Me is the session probe. A 2xx answer that does not name a user counts as unauthenticated.
func (c *Client) Me(ctx context.Context) (*session.Identity, error) {
	var data identityData
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me"}, &data); err != nil {
		return nil, err
	}
	identity := data.identity()
	if identity.ID == 0 && identity.Username == "" {
		return nil, &APIError{StatusCode: http.StatusUnauthorized, Message: "session probe returned no user"}
	}
	return identity, nil
}

// Logout ends the upstream session
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/api/auth/logout"}, nil)
}

// =============================================================================
// Accounts and categories
// =============================================================================

// ListAccounts returns every account
func (c *Client) ListAccounts(ctx context.Context) ([]account.Account, error) {
	var out []account.Account
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/accounts"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccount returns one account with a page of its transactions
func (c *Client) GetAccount(ctx context.Context, id int64, page account.Page) (*account.Detail, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(page.Offset))
	q.Set("limit", strconv.Itoa(page.Limit))

	var out account.Detail
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/api/accounts", id), query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCategories returns every category with its subcategories
func (c *Client) ListCategories(ctx context.Context) ([]category.Category, error) {
	var out []category.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// Transactions
// =============================================================================

// CreateTransaction submits a transaction as multipart/form-data
func (c *Client) CreateTransaction(ctx context.Context, in transaction.Input) (*transaction.Transaction, error) {
	body, contentType, err := transactionBody(in)
	if err != nil {
		return nil, err
	}

	var out transaction.Transaction
	r := request{method: http.MethodPost, path: "/api/transactions", body: body, contentType: contentType}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func transactionBody(in transaction.Input) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"amount", in.Amount.StringFixed(2)},
		{"type", in.Type},
		{"description", in.Description},
		{"date", in.Date.UTC().Format(time.RFC3339)},
		{"accountId", strconv.FormatInt(in.AccountID, 10)},
		{"categoryId", strconv.FormatInt(in.CategoryID, 10)},
	}
	if in.SubcategoryID != nil {
		fields = append(fields, [2]string{"subcategoryId", strconv.FormatInt(*in.SubcategoryID, 10)})
	}
	if in.LoanID != nil {
		fields = append(fields, [2]string{"loanId", strconv.FormatInt(*in.LoanID, 10)})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}

	if in.File != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(in.File.Filename)))
		h.Set("Content-Type", in.File.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(in.File.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// =============================================================================
// Loans
// =============================================================================

// ListLoans returns every loan
func (c *Client) ListLoans(ctx context.Context) ([]loan.Loan, error) {
	var out []loan.Loan
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/loans"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetLoan returns one loan with its payments
func (c *Client) GetLoan(ctx context.Context, id int64) (*loan.Loan, error) {
	var out loan.Loan
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/api/loans", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLoan creates a loan
func (c *Client) CreateLoan(ctx context.Context, in loan.Input) (*loan.Loan, error) {
	r, err := jsonRequest(http.MethodPost, "/api/loans", in)
	if err != nil {
		return nil, err
	}
	var out loan.Loan
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLoan deletes a loan
func (c *Client) DeleteLoan(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/api/loans", id)}, nil)
}

// =============================================================================
// Pending payments
// =============================================================================

// ListPendingPayments returns pending payments, filtered by the API
func (c *Client) ListPendingPayments(ctx context.Context, filter pending.Filter) ([]pending.PendingPayment, error) {
	var out []pending.PendingPayment
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/pending-payments", query: filter.Query()}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPendingPayment returns one pending payment
func (c *Client) GetPendingPayment(ctx context.Context, id int64) (*pending.PendingPayment, error) {
	var out pending.PendingPayment
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/api/pending-payments", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePendingPayment creates a pending payment
func (c *Client) CreatePendingPayment(ctx context.Context, in pending.Input) (*pending.PendingPayment, error) {
	r, err := jsonRequest(http.MethodPost, "/api/pending-payments", in)
	if err != nil {
		return nil, err
	}
	var out pending.PendingPayment
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkPendingPaymentPaid settles a pending payment with a single PATCH
func (c *Client) MarkPendingPaymentPaid(ctx context.Context, id int64, in pending.PayInput) (*pending.PendingPayment, error) {
	r, err := jsonRequest(http.MethodPatch, idPath("/api/pending-payments", id)+"/mark-paid", in)
	if err != nil {
		return nil, err
	}
	var out pending.PendingPayment
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePendingPayment deletes a pending payment
func (c *Client) DeletePendingPayment(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/api/pending-payments", id)}, nil)
}

// =============================================================================
// Debts
// =============================================================================

// ListDebts returns every debt
func (c *Client) ListDebts(ctx context.Context) ([]debt.Debt, error) {
	var out []debt.Debt
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/debts"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDebt creates a debt
func (c *Client) CreateDebt(ctx context.Context, in debt.Input) (*debt.Debt, error) {
	r, err := jsonRequest(http.MethodPost, "/api/debts", in)
	if err != nil {
		return nil, err
	}
	var out debt.Debt
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
