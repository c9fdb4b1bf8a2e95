// Package cli implements finctl, a terminal client for the finance API built on the
// same domain services as the web backend.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kislikjeka/finboard/internal/infra/gateway/finapi"
	"github.com/kislikjeka/finboard/internal/platform/account"
	"github.com/kislikjeka/finboard/internal/platform/category"
	"github.com/kislikjeka/finboard/internal/platform/debt"
	"github.com/kislikjeka/finboard/internal/platform/loan"
	"github.com/kislikjeka/finboard/internal/platform/pending"
	"github.com/kislikjeka/finboard/internal/platform/session"
	"github.com/kislikjeka/finboard/internal/platform/transaction"
	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/pkg/logger"
)

// options are the persistent flags shared by every command
type options struct {
	apiURL      string
	timeout     time.Duration
	sessionFile string
	json        bool
	verbose     bool
}

// app wires the domain services for one invocation. The query cache lives only as
// long as the process, so every command starts from fresh upstream data.
type app struct {
	opts  *options
	out   io.Writer
	log   *logger.Logger
	now   func() time.Time
	api   *finapi.Client
	qc    *query.Client
	loans *loan.Service
	pend  *pending.Service
}

func newApp(opts *options, out, errOut io.Writer) *app {
	log := logger.Discard()
	if opts.verbose {
		log = logger.NewWithOptions(logger.Options{Env: "development", Level: "debug"}, errOut)
	}

	api := finapi.NewClient(opts.apiURL, opts.timeout, log)
	accounts := account.NewService(api)
	categories := category.NewService(api)
	transactions := transaction.NewService(api, categories)
	loans := loan.NewService(api, accounts, transactions)

	return &app{
		opts:  opts,
		out:   out,
		log:   log,
		now:   time.Now,
		api:   api,
		qc:    query.NewClient(query.NewMemoryStore(), "finctl", time.Minute, log),
		loans: loans,
		pend:  pending.NewService(api, accounts, loans, debt.NewService(api)),
	}
}

// authed returns ctx carrying the saved upstream cookies
func (a *app) authed(ctx context.Context) (context.Context, error) {
	_, cookies, err := loadSession(a.opts.sessionFile, a.now())
	if err != nil {
		return nil, err
	}
	return session.WithCookies(ctx, cookies), nil
}

// explain turns domain errors into messages fit for a terminal
func explain(err error) error {
	if err == nil {
		return nil
	}
	if fields, ok := validation.AsErrors(err); ok {
		msg := "invalid input:"
		for _, fe := range fields {
			msg += fmt.Sprintf("\n  --%s %s", flagName(fe.Field), fe.Message)
		}
		return errors.New(msg)
	}
	var netErr *finapi.NetworkError
	if errors.As(err, &netErr) {
		return errors.New(finapi.NetworkErrorMessage)
	}
	var apiErr *finapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Unauthorized() {
			return fmt.Errorf("%s (session expired? run `finctl login`)", apiErr.Message)
		}
		return errors.New(apiErr.Message)
	}
	return err
}

// flagName maps a form field to the flag that sets it
func flagName(field string) string {
	if name, ok := fieldFlags[field]; ok {
		return name
	}
	return field
}

var fieldFlags = map[string]string{
	"due_date":         "due",
	"category_id":      "category",
	"subcategory_id":   "subcategory",
	"account_id":       "account",
	"accountId":        "account",
	"categoryId":       "category",
	"subcategoryId":    "subcategory",
	"transaction_date": "date",
	"file":             "file",
}

func readAttachment(path string) (*validation.File, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	return &validation.File{
		Filename:    filepath.Base(path),
		ContentType: mimetype.Detect(content).String(),
		Size:        int64(len(content)),
		Content:     content,
	}, nil
}
