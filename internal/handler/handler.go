// Package handler holds the JSON plumbing shared by all route handlers:
// response envelopes, request decoding with validation, and error
// rendering tied to the domain error taxonomy.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/middleware"
)

const maxBodyBytes = 1 << 20 // 1 MB

var validate = validator.New(validator.WithRequiredStructEnabled())

// RespondJSON writes v as the response body with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error renders err with the standard envelope:
//
//	{"error": {"code": "...", "message": "..."}}
//
// Internal details never reach the client; domain.ErrorMessage already
// collapses unclassified errors to a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := domain.ErrorStatus(err)

	logger := middleware.GetLogger(r.Context())
	if status >= 500 {
		logger.Error("request failed", "error", err, "code", code)
	} else {
		logger.Warn("request rejected", "code", code, "status", status)
	}

	RespondJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": domain.ErrorMessage(err),
		},
	})
}

// Decode reads the JSON request body into v and validates it. Returns a
// domain EINVALID error suitable for Error on any failure.
func Decode(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("handler.Decode", "Request body is required")
		}
		return domain.Invalid("handler.Decode", "Invalid request body")
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.Invalid("handler.Decode", "Invalid field: "+verrs[0].Field())
		}
		return domain.Invalid("handler.Decode", "Validation failed")
	}
	return nil
}

// IDParam parses a numeric chi URL parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("handler.IDParam", "Invalid "+name)
	}
	return id, nil
}
