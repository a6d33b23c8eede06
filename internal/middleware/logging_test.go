package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newDebugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingMiddleware(t *testing.T) {
	t.Run("正常系: 認証後のユーザーIDとルートパターンが完了ログに載る", func(t *testing.T) {
		var buf bytes.Buffer
		userID := uuid.New()

		r := chi.NewRouter()
		r.Use(LoggingMiddleware(newDebugLogger(&buf)))
		r.Use(DevUserContextMiddleware)
		r.Get("/story-trails/{trail_id}", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":"TRAIL_NOT_FOUND"}}`))
		})

		req := httptest.NewRequest(http.MethodGet, "/story-trails/"+uuid.NewString(), nil)
		req.Header.Set("X-User-ID", userID.String())
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		out := buf.String()
		assert.Contains(t, out, "Request completed")
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "route=/story-trails/{trail_id}")
		assert.Contains(t, out, "user_id="+userID.String())
		assert.Contains(t, out, "TRAIL_NOT_FOUND")
	})

	t.Run("正常系: 認証系のボディと Authorization は出さない", func(t *testing.T) {
		var buf bytes.Buffer
		handler := LoggingMiddleware(newDebugLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"issued-token"}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", strings.NewReader(`{"email":"a@example.com","password":"hunter22"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer secret-token")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		assert.Contains(t, out, "[SENSITIVE]")
		assert.NotContains(t, out, "secret-token")
		assert.NotContains(t, out, "hunter22")
		assert.NotContains(t, out, "issued-token")
		assert.NotContains(t, out, "user_id=")
	})

	t.Run("正常系: multipart のボディは読まずに次へ渡す", func(t *testing.T) {
		var buf bytes.Buffer
		var received string
		handler := LoggingMiddleware(newDebugLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := new(bytes.Buffer)
			b.ReadFrom(r.Body)
			received = b.String()
		}))

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/profile/me", strings.NewReader("PNGDATA"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "PNGDATA", received)
		assert.NotContains(t, buf.String(), "PNGDATA")
	})
}

func TestTruncate(t *testing.T) {
	long := bytes.Repeat([]byte("a"), maxLoggedBody+10)
	assert.True(t, strings.HasSuffix(truncate(long), "...(truncated)"))
	assert.Equal(t, "short", truncate([]byte("short")))
}

func TestGetLogger_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Same(t, slog.Default(), GetLogger(req.Context()))
}
