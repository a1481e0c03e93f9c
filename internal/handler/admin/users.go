package admin

import (
	"context"
	"net/http"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/handler"
)

// AccountAdmin is the user-administration slice of the storefront API.
type AccountAdmin interface {
	ListUsers(ctx context.Context) ([]backend.Account, error)
	GetUser(ctx context.Context, id int64) (*backend.Account, error)
	CreateUser(ctx context.Context, input backend.AccountInput) (*backend.Account, error)
	UpdateUser(ctx context.Context, id int64, input backend.AccountInput) (*backend.Account, error)
	UpdateUserPassword(ctx context.Context, id int64, password string) error
	SetUserActive(ctx context.Context, id int64, active bool) error
	DeleteUser(ctx context.Context, id int64) error
}

type UserHandler struct {
	accounts AccountAdmin
}

func NewUserHandler(accounts AccountAdmin) *UserHandler {
	return &UserHandler{accounts: accounts}
}

type userRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=7"`
	Role     string `json:"role" validate:"required,oneof=admin delivery customer"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

func (req userRequest) input() backend.AccountInput {
	return backend.AccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Password: req.Password,
	}
}

// List handles GET /admin/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Get handles GET /admin/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	user, err := h.accounts.GetUser(r.Context(), id)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Create handles POST /admin/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	user, err := h.accounts.CreateUser(r.Context(), req.input())
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Update handles PUT /admin/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	var req userRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	user, err := h.accounts.UpdateUser(r.Context(), id, req.input())
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"user": user})
}

// UpdatePassword handles PATCH /admin/users/{id}/password.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	var req struct {
		Password string `json:"password" validate:"required,min=8"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := h.accounts.UpdateUserPassword(r.Context(), id, req.Password); err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetActive handles PATCH /admin/users/{id}/active.
func (h *UserHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := h.accounts.SetUserActive(r.Context(), id, *req.IsActive); err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /admin/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := h.accounts.DeleteUser(r.Context(), id); err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
