package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vrksatech/market/internal/session"
)

const loggerContextKey contextKey = "logger"

// WithRequestLogger injects a request-scoped logger into the context.
// The logger carries method, path, request id, and the authenticated
// user when one is present. Place after RequestID and WithSession.
func WithRequestLogger(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestLogger := baseLogger.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			if requestID := GetRequestID(r.Context()); requestID != "" {
				requestLogger = requestLogger.With(slog.String("request_id", requestID))
			}

			if sess := session.FromContext(r.Context()); sess.Authenticated() {
				requestLogger = requestLogger.With(
					slog.String("user_id", strconv.FormatInt(sess.User.ID, 10)),
					slog.String("role", string(sess.User.Role)),
				)
			}

			ctx := context.WithValue(r.Context(), loggerContextKey, requestLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger retrieves the request-scoped logger from the context,
// falling back to slog.Default when the chain did not run.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
