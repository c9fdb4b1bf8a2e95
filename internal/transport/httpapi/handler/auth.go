package handler

import (
	"context"
	"net/http"

	"github.com/kislikjeka/finboard/internal/platform/session"
	"github.com/kislikjeka/finboard/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/finboard/pkg/logger"
)

// SessionServiceInterface defines the session operations needed by AuthHandler
type SessionServiceInterface interface {
	Login(ctx context.Context, form session.LoginForm) (*session.Session, string, error)
	Identity(ctx context.Context, cur *session.Current) (*session.Identity, error)
	Logout(ctx context.Context, cur *session.Current) error
}

// AuthHandler handles sign-in and sign-out
type AuthHandler struct {
	sessions     SessionServiceInterface
	secureCookie bool
	logger       *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions SessionServiceInterface, secureCookie bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		secureCookie: secureCookie,
		logger:       log,
	}
}

// LoginScreen is the view model of the sign-in page
type LoginScreen struct {
	Screen string   `json:"screen"`
	Fields []string `json:"fields"`
}

// AuthResponse is returned after signing in or out
type AuthResponse struct {
	Username string `json:"username,omitempty"`
	Redirect string `json:"redirect"`
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, LoginScreen{Screen: "login", Fields: []string{"username", "password"}}, http.StatusOK)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	raw, err := readForm(w, r)
	if err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}
	echo := raw.without("password")

	var form session.LoginForm
	if err := raw.decode(&form); err != nil {
		respondMutationError(w, r, h.logger, err, echo)
		return
	}

	sess, token, err := h.sessions.Login(r.Context(), form)
	if err != nil {
		respondMutationError(w, r, h.logger, err, echo)
		return
	}

	middleware.SetSessionCookie(w, token, sess.ExpiresAt, h.secureCookie)
	respondMutation(w, AuthResponse{Username: sess.Username, Redirect: middleware.DashboardPath}, "Signed in", http.StatusOK)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cur, _, ok := currentSession(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Logout(r.Context(), cur); err != nil {
		respondMutationError(w, r, h.logger, err, nil)
		return
	}

	middleware.ClearSessionCookie(w, h.secureCookie)
	respondMutation(w, AuthResponse{Redirect: middleware.LoginPath}, "Signed out", http.StatusOK)
}

// Me handles GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cur, _, ok := currentSession(w, r)
	if !ok {
		return
	}

	identity, err := h.sessions.Identity(r.Context(), cur)
	if err != nil {
		respondQueryError(w, r, h.logger, err)
		return
	}
	respondJSON(w, identity, http.StatusOK)
}
