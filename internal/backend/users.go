package backend

import (
	"context"
	"fmt"
	"net/http"
)

// Account is a user record as managed from the admin screens. Distinct
// from domain.User: it carries admin-only fields and an unvalidated role
// string, because admin tooling must be able to display whatever the
// backend holds.
type Account struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// AccountInput is the writable subset of a user record.
type AccountInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// UserStats is the admin user summary.
type UserStats struct {
	TotalUsers  int            `json:"total_users"`
	ActiveUsers int            `json:"active_users"`
	ByRole      map[string]int `json:"by_role"`
}

// ListUsers fetches all user records (admin only).
func (c *Client) ListUsers(ctx context.Context) ([]Account, error) {
	var resp struct {
		Users []Account `json:"users"`
	}
	if err := c.request(ctx, http.MethodGet, "/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// GetUser fetches one user record (admin only).
func (c *Client) GetUser(ctx context.Context, id int64) (*Account, error) {
	var resp struct {
		User Account `json:"user"`
	}
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// CreateUser adds a user record (admin only).
func (c *Client) CreateUser(ctx context.Context, input AccountInput) (*Account, error) {
	var resp struct {
		User Account `json:"user"`
	}
	if err := c.request(ctx, http.MethodPost, "/users", input, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateUser replaces a user record (admin only).
func (c *Client) UpdateUser(ctx context.Context, id int64, input AccountInput) (*Account, error) {
	var resp struct {
		User Account `json:"user"`
	}
	if err := c.request(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), input, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateUserPassword resets a user's password (admin only).
func (c *Client) UpdateUserPassword(ctx context.Context, id int64, password string) error {
	body := struct {
		Password string `json:"password"`
	}{password}
	return c.request(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/password", id), body, nil)
}

// SetUserActive toggles a user's active flag (admin only).
func (c *Client) SetUserActive(ctx context.Context, id int64, active bool) error {
	body := struct {
		IsActive bool `json:"is_active"`
	}{active}
	return c.request(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/status", id), body, nil)
}

// DeleteUser removes a user record (admin only).
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// GetUserStats fetches the admin user summary.
func (c *Client) GetUserStats(ctx context.Context) (*UserStats, error) {
	var resp struct {
		Stats UserStats `json:"stats"`
	}
	if err := c.request(ctx, http.MethodGet, "/users/stats/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}
