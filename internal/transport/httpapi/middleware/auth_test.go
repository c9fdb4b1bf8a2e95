package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finboard/internal/platform/session"
	"github.com/kislikjeka/finboard/pkg/logger"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, token string) (*session.Current, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Current), args.Error(1)
}

func (m *MockResolver) IsAuthenticated(ctx context.Context, cur *session.Current) bool {
	return m.Called(ctx, cur).Bool(0)
}

func newCurrent() *session.Current {
	return &session.Current{Session: &session.Session{ID: uuid.New(), Username: "alice"}}
}

func protected(resolver SessionResolver) (http.Handler, *bool) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		cur, ok := CurrentFromContext(r.Context())
		if ok {
			w.Header().Set("X-Session", cur.Session.ID.String())
		}
		w.WriteHeader(http.StatusOK)
	})
	return RequireSession(resolver, logger.Discard())(next), &called
}

func TestRequireSession_NoCookie_RedirectsScreens(t *testing.T) {
	h, called := protected(&MockResolver{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
	assert.False(t, *called)
}

func TestRequireSession_NoCookie_RejectsMutations(t *testing.T) {
	h, called := protected(&MockResolver{})

	req := httptest.NewRequest(http.MethodPost, "/pending-payments", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required","code":"UNAUTHORIZED"}`, rec.Body.String())
	assert.False(t, *called)
}

func TestRequireSession_ProbeFails_ClearsCookie(t *testing.T) {
	resolver := &MockResolver{}
	cur := newCurrent()
	resolver.On("Resolve", mock.Anything, "tok").Return(cur, nil)
	resolver.On("IsAuthenticated", mock.Anything, cur).Return(false)
	h, called := protected(resolver)

	req := httptest.NewRequest(http.MethodGet, "/loans", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, *called)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestRequireSession_InvalidToken(t *testing.T) {
	resolver := &MockResolver{}
	resolver.On("Resolve", mock.Anything, "bad").Return(nil, session.ErrInvalidToken)
	h, called := protected(resolver)

	req := httptest.NewRequest(http.MethodDelete, "/loans/1", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bad"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
	resolver.AssertNotCalled(t, "IsAuthenticated", mock.Anything, mock.Anything)
}

func TestRequireSession_Authenticated(t *testing.T) {
	resolver := &MockResolver{}
	cur := newCurrent()
	resolver.On("Resolve", mock.Anything, "tok").Return(cur, nil)
	resolver.On("IsAuthenticated", mock.Anything, cur).Return(true)
	h, called := protected(resolver)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
	assert.Equal(t, cur.Session.ID.String(), rec.Header().Get("X-Session"))
}

func TestRedirectAuthenticated(t *testing.T) {
	resolver := &MockResolver{}
	cur := newCurrent()
	resolver.On("Resolve", mock.Anything, "tok").Return(cur, nil)
	resolver.On("IsAuthenticated", mock.Anything, cur).Return(true)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RedirectAuthenticated(resolver, DashboardPath)(next)

	t.Run("signed in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, LoginPath, nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, DashboardPath, rec.Header().Get("Location"))
	})

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, LoginPath, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("post passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, LoginPath, nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
