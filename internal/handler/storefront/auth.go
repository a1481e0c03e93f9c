// Package storefront holds the customer-facing route handlers: catalog
// browsing, the session cart, checkout, and account auth.
package storefront

import (
	"net/http"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/handler"
	"github.com/vrksatech/market/internal/service"
	"github.com/vrksatech/market/internal/session"
)

type AuthHandler struct {
	accounts service.AccountService
}

func NewAuthHandler(accounts service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	user, err := h.accounts.Login(r.Context(), sess, req.Email, req.Password)
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Phone    string `json:"phone" validate:"omitempty,min=7"`
		Password string `json:"password" validate:"required,min=8"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	user, err := h.accounts.Register(r.Context(), sess, backend.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Logout handles POST /auth/logout. The cookie is expired alongside the
// stored session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if err := h.accounts.Logout(r.Context(), sess); err != nil {
		handler.Error(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if !sess.Authenticated() {
		handler.RespondJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"user": sess.User})
}
