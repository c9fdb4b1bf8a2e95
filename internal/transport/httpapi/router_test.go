package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kislikjeka/finboard/internal/platform/session"
	"github.com/kislikjeka/finboard/internal/transport/httpapi/handler"
	"github.com/kislikjeka/finboard/pkg/logger"
)

type anonymous struct{}

func (anonymous) Resolve(context.Context, string) (*session.Current, error) {
	return nil, session.ErrInvalidToken
}

func (anonymous) IsAuthenticated(context.Context, *session.Current) bool { return false }

func newTestRouter() http.Handler {
	log := logger.Discard()
	return NewRouter(Config{
		Logger:        log,
		Sessions:      anonymous{},
		AuthHandler:   handler.NewAuthHandler(nil, false, log),
		ScreenHandler: handler.NewScreenHandler(nil, nil, nil, log),
		LoanHandler:   handler.NewLoanHandler(nil, log),
		HealthHandler: handler.NewHealthHandler(),
	})
}

func TestRouter_AnonymousScreensRedirect(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/", "/dashboard", "/loans", "/loans/3", "/accounts"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
		})
	}
}

func TestRouter_AnonymousMutationIsUnauthorized(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodDelete, "/loans/3", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/login", "/health/live", "/health/ready"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
