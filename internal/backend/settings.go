package backend

import (
	"context"
	"net/http"
)

// TenantProfile is the storefront's own profile (name, contact, branding).
type TenantProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Settings bundles the tenant profile with free-form key/value settings.
type Settings struct {
	Tenant TenantProfile     `json:"tenant"`
	Values map[string]string `json:"settings"`
}

// GetSettings fetches the storefront settings (admin only).
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	var resp Settings
	if err := c.request(ctx, http.MethodGet, "/settings", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTenantSettings replaces the tenant profile (admin only).
func (c *Client) UpdateTenantSettings(ctx context.Context, profile TenantProfile) error {
	return c.request(ctx, http.MethodPut, "/settings/tenant", profile, nil)
}

// BulkUpdateSettings upserts key/value settings (admin only).
func (c *Client) BulkUpdateSettings(ctx context.Context, values map[string]string) error {
	body := struct {
		Settings map[string]string `json:"settings"`
	}{values}
	return c.request(ctx, http.MethodPost, "/settings/bulk", body, nil)
}
