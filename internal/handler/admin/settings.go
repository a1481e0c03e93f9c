package admin

import (
	"context"
	"net/http"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/handler"
)

// SettingsManager is the settings slice of the storefront API.
type SettingsManager interface {
	GetSettings(ctx context.Context) (*backend.Settings, error)
	UpdateTenantSettings(ctx context.Context, profile backend.TenantProfile) error
	BulkUpdateSettings(ctx context.Context, values map[string]string) error
}

type SettingsHandler struct {
	settings SettingsManager
}

func NewSettingsHandler(settings SettingsManager) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /admin/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetSettings(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, settings)
}

// UpdateTenant handles PUT /admin/settings/tenant.
func (h *SettingsHandler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name" validate:"required"`
		Email   string `json:"email" validate:"required,email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	err := h.settings.UpdateTenantSettings(r.Context(), backend.TenantProfile{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkUpdate handles PUT /admin/settings.
func (h *SettingsHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Settings map[string]string `json:"settings" validate:"required"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := h.settings.BulkUpdateSettings(r.Context(), req.Settings); err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
