package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/finboard/pkg/logger"
)

// maxCapturedBody bounds how much of an error response is kept for the log line
const maxCapturedBody = 4 << 10

// errCapture wraps chi's WrapResponseWriter to capture response body for error status codes.
type errCapture struct {
	chimiddleware.WrapResponseWriter
	buf        bytes.Buffer
	statusCode int
}

func (e *errCapture) WriteHeader(code int) {
	e.statusCode = code
	e.WrapResponseWriter.WriteHeader(code)
}

func (e *errCapture) Write(b []byte) (int, error) {
	if e.statusCode >= 400 && e.buf.Len() < maxCapturedBody {
		e.buf.Write(b)
	}
	return e.WrapResponseWriter.Write(b)
}

// requestInfo is filled in by later middleware so the access log can carry it
type requestInfo struct {
	sessionID string
}

type requestInfoKey struct{}

// annotateSession records the resolved session on the access log entry
func annotateSession(ctx context.Context, sessionID string) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.sessionID = sessionID
	}
}

// extractError pulls the "error" and "code" fields from a JSON response body.
func extractError(body []byte) (msg, code string) {
	var obj struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(body, &obj) == nil {
		return obj.Error, obj.Code
	}
	return "", ""
}

// Logger returns a request logging middleware
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ec := &errCapture{WrapResponseWriter: ww}
			start := time.Now()

			info := &requestInfo{}
			ctx := context.WithValue(r.Context(), requestInfoKey{}, info)

			// Propagate chi's request ID into our typed context key
			reqID := chimiddleware.GetReqID(ctx)
			if reqID != "" {
				ctx = context.WithValue(ctx, logger.RequestIDKey, reqID)
			}
			r = r.WithContext(ctx)

			defer func() {
				status := ww.Status()
				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				}
				if reqID != "" {
					attrs = append(attrs, "request_id", reqID)
				}
				if info.sessionID != "" {
					attrs = append(attrs, "session_id", info.sessionID)
				}
				if status >= 400 {
					if msg, code := extractError(ec.buf.Bytes()); msg != "" {
						attrs = append(attrs, "error", msg)
						if code != "" {
							attrs = append(attrs, "code", code)
						}
					}
				}

				switch {
				case status >= 500:
					log.Error("HTTP request", attrs...)
				case status >= 400:
					log.Warn("HTTP request", attrs...)
				default:
					log.Info("HTTP request", attrs...)
				}
			}()

			next.ServeHTTP(ec, r)
		}
		return http.HandlerFunc(fn)
	}
}
