package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kislikjeka/finboard/internal/platform/session"
	apperrors "github.com/kislikjeka/finboard/internal/shared/errors"
	"github.com/kislikjeka/finboard/pkg/logger"
)

const (
	// SessionCookieName carries the signed session token
	SessionCookieName = "finboard_session"

	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// SessionResolver turns a browser token into an authenticated session
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Current, error)
	IsAuthenticated(ctx context.Context, cur *session.Current) bool
}

type currentKey struct{}

// WithCurrent stores the resolved session in ctx
func WithCurrent(ctx context.Context, cur *session.Current) context.Context {
	return context.WithValue(ctx, currentKey{}, cur)
}

// CurrentFromContext extracts the resolved session from the request context
func CurrentFromContext(ctx context.Context) (*session.Current, bool) {
	cur, ok := ctx.Value(currentKey{}).(*session.Current)
	return cur, ok && cur != nil
}

// authenticate resolves the session cookie and probes the finance API.
// Any failure along the way means the request is anonymous.
func authenticate(r *http.Request, resolver SessionResolver) (*session.Current, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	cur, err := resolver.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return nil, false
	}
	if !resolver.IsAuthenticated(r.Context(), cur) {
		return nil, false
	}
	return cur, true
}

// RequireSession gates protected routes. Anonymous screen requests are redirected
// to the login page; anonymous mutations get a 401 JSON body.
func RequireSession(resolver SessionResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cur, ok := authenticate(r, resolver)
			if !ok {
				if _, err := r.Cookie(SessionCookieName); err == nil {
					ClearSessionCookie(w, r.TLS != nil)
				}
				log.WithContext(r.Context()).Debug("unauthenticated request", "method", r.Method, "path", r.URL.Path)

				if r.Method == http.MethodGet || r.Method == http.MethodHead {
					http.Redirect(w, r, LoginPath, http.StatusSeeOther)
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "authentication required", apperrors.ErrCodeUnauthorized)
				return
			}

			sessionID := cur.Session.ID.String()
			annotateSession(r.Context(), sessionID)
			ctx := WithCurrent(r.Context(), cur)
			ctx = context.WithValue(ctx, logger.SessionIDKey, sessionID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectAuthenticated sends signed-in users away from public pages such as the
// login screen.
func RedirectAuthenticated(resolver SessionResolver, target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				if _, ok := authenticate(r, resolver); ok {
					http.Redirect(w, r, target, http.StatusSeeOther)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetSessionCookie hands the session token to the browser
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session token from the browser
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSONError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
