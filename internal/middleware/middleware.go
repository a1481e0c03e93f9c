// Package middleware holds the HTTP middleware chain: request ids,
// request-scoped logging, prometheus instrumentation, and session/role
// enforcement.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/vrksatech/market/internal/domain"
)

type contextKey string

// respondWithError writes the standard JSON error envelope. Middleware
// cannot import the handler package (handlers import middleware for
// GetLogger), so the envelope is duplicated here.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := domain.ErrorStatus(err)

	logger := GetLogger(r.Context())
	if status >= 500 {
		logger.Error("request failed", "error", err, "code", code, "status", status)
	} else {
		logger.Warn("request rejected", "code", code, "status", status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
