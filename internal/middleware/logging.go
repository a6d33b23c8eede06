package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// logCtxKey はコンテキストにロガーを格納するためのキーです。
type logCtxKey struct{}

// accessCtxKey は認証後に判明したユーザーIDをアクセスログへ戻すためのキー
type accessCtxKey struct{}

// accessInfo は内側のミドルウェアが書き込み、完了ログで読む
type accessInfo struct {
	userID uuid.UUID
}

// maxLoggedBody を超えるボディはデバッグログでも切り詰める
const maxLoggedBody = 4 << 10

// sensitiveHeaders はログ出力時に値をマスキングするヘッダー名 (小文字)
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
}

// sensitiveBodyPaths はボディを一切ログに出さないパス (パスワード・OTP・IDトークンを含む)
var sensitiveBodyPaths = []string{"/auth/"}

// LoggingMiddleware はリクエストごとのロガーを用意し、開始・完了をログに出します。
// 完了ログにはルートパターンと、認証済みならユーザーIDが付きます。
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			debug := logger.Enabled(r.Context(), slog.LevelDebug)

			requestLogger := logger.With("req_id", chimiddleware.GetReqID(r.Context()))
			info := &accessInfo{}
			ctx := context.WithValue(r.Context(), logCtxKey{}, requestLogger)
			ctx = context.WithValue(ctx, accessCtxKey{}, info)
			r = r.WithContext(ctx)

			requestLogger.Info("Request started", "method", r.Method, "path", r.URL.Path)

			var reqBody []byte
			if debug && bodyLoggable(r.URL.Path, r.Header.Get("Content-Type")) && r.Body != nil {
				reqBody, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(reqBody))
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			var respBody *bytes.Buffer
			if debug {
				respBody = new(bytes.Buffer)
				ww.Tee(respBody)
			}

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			attrs := []any{
				"status", status,
				"route", routePattern(r),
				"latency_ms", float64(time.Since(start).Microseconds()) / 1000,
				"bytes_out", ww.BytesWritten(),
			}
			if info.userID != uuid.Nil {
				attrs = append(attrs, "user_id", info.userID.String())
			}
			requestLogger.Log(r.Context(), level, "Request completed", attrs...)

			if debug {
				requestLogger.Debug("Request detail",
					"headers", formatHeaders(r.Header),
					"body", truncate(reqBody),
				)
				respAttrs := []any{"headers", formatHeaders(ww.Header())}
				if bodyLoggable(r.URL.Path, ww.Header().Get("Content-Type")) {
					respAttrs = append(respAttrs, "body", truncate(respBody.Bytes()))
				}
				requestLogger.Debug("Response detail", respAttrs...)
			}
		})
	}
}

// recordUser は認証ミドルウェアが解決したユーザーIDをアクセスログ用に記録します
func recordUser(ctx context.Context, userID uuid.UUID) {
	if info, ok := ctx.Value(accessCtxKey{}).(*accessInfo); ok {
		info.userID = userID
	}
}

// GetLogger はコンテキストから slog.Logger を取得します。
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(logCtxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// bodyLoggable は JSON ボディかつ秘匿パスでない場合だけ true (アバター画像などは出さない)
func bodyLoggable(path, contentType string) bool {
	for _, p := range sensitiveBodyPaths {
		if strings.Contains(path, p) {
			return false
		}
	}
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}

func formatHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			result[key] = "[SENSITIVE]"
			continue
		}
		result[key] = strings.Join(values, ", ")
	}
	return result
}
