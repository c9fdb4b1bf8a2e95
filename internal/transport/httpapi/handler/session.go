package handler

import (
	"context"
	"net/http"

	"github.com/kislikjeka/finboard/internal/platform/session"
	apperrors "github.com/kislikjeka/finboard/internal/shared/errors"
	"github.com/kislikjeka/finboard/internal/transport/httpapi/middleware"
)

// currentSession returns the session resolved by the auth middleware and a context
// carrying its upstream cookies.
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Current, context.Context, bool) {
	cur, ok := middleware.CurrentFromContext(r.Context())
	if !ok {
		respondJSON(w, ErrorResponse{Error: "authentication required", Code: apperrors.ErrCodeUnauthorized}, http.StatusUnauthorized)
		return nil, nil, false
	}
	return cur, cur.Context(r.Context()), true
}
