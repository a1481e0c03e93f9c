package backend

import (
	"context"
	"net/http"

	"github.com/vrksatech/market/internal/domain"
)

// AuthResult is the backend's response to a successful login or
// registration: an opaque bearer credential and the user profile.
type AuthResult struct {
	Token string
	User  domain.User
}

// RegisterParams are the fields of a new customer registration.
type RegisterParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type wireUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
}

func (r authResponse) toResult() (*AuthResult, error) {
	role, err := domain.ParseRole(r.User.Role)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "backend.auth", "backend returned unknown role")
	}

	return &AuthResult{
		Token: r.Token,
		User: domain.User{
			ID:    r.User.ID,
			Name:  r.User.Name,
			Email: r.User.Email,
			Phone: r.User.Phone,
			Role:  role,
		},
	}, nil
}

// Login exchanges credentials for a bearer token and profile.
// The tenant id travels with auth calls only.
func (c *Client) Login(ctx context.Context, email, password string, tenantID int) (*AuthResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		TenantID int    `json:"tenantId"`
	}{email, password, tenantID}

	var resp authResponse
	if err := c.request(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return resp.toResult()
}

// Register creates a customer account and logs it in.
func (c *Client) Register(ctx context.Context, params RegisterParams, tenantID int) (*AuthResult, error) {
	body := struct {
		RegisterParams
		TenantID int `json:"tenantId"`
	}{params, tenantID}

	var resp authResponse
	if err := c.request(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return resp.toResult()
}
