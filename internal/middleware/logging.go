package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

const requestIDContextKey contextKey = "request_id"

// Logging tags each request with an id (taken from X-Request-ID when the caller
// sent one) and writes one access line when the handler returns.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDContextKey, id)))

		attrs := append([]slog.Attr{
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Int64("duration_ms", time.Since(started).Milliseconds()),
			slog.String("client_ip", ClientIP(r)),
		}, errorAttrs(rec.errBody.Bytes())...)

		slog.LogAttrs(r.Context(), accessLevel(rec.status), "request", attrs...)
	})
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// errorAttrs lifts code and message out of a `{"code","message"}` error body.
func errorAttrs(body []byte) []slog.Attr {
	if len(body) == 0 {
		return nil
	}

	var parsed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Code == "" {
		return nil
	}

	attrs := []slog.Attr{slog.String("error_code", parsed.Code), slog.String("error_message", parsed.Message)}
	if parsed.Details != "" {
		attrs = append(attrs, slog.String("error_details", parsed.Details))
	}
	return attrs
}

// statusRecorder keeps the status code and, for error responses only, a copy of the body.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	errBody bytes.Buffer
	written bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.written {
		return
	}
	s.status, s.written = code, true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.WriteHeader(http.StatusOK)
	if s.status >= 400 {
		s.errBody.Write(b)
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
