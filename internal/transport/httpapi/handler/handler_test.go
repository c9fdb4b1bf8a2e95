package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finboard/internal/platform/session"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/finboard/pkg/logger"
)

func testCurrent() *session.Current {
	id := uuid.New()
	return &session.Current{
		Session: &session.Session{ID: id, Username: "alice"},
		Cookies: []*http.Cookie{{Name: "connect.sid", Value: "upstream"}},
		Query:   query.NewClient(query.NewMemoryStore(), id.String(), time.Minute, logger.Discard()),
	}
}

// withSession attaches cur the way RequireSession does
func withSession(req *http.Request, cur *session.Current) *http.Request {
	return req.WithContext(middleware.WithCurrent(req.Context(), cur))
}

// withRouteParam makes chi.URLParam work without a router
func withRouteParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type filePart struct {
	name        string
	contentType string
	content     []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, file *filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeMutation(t *testing.T, rec *httptest.ResponseRecorder) MutationResponse {
	t.Helper()
	var resp MutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
