package domain

import "fmt"

// Role is a closed set of account roles. Role-based dispatch happens once,
// when routes are wired; handlers never compare raw strings.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDelivery Role = "delivery"
	RoleCustomer Role = "customer"
)

// ParseRole converts the backend's role string into a Role, rejecting
// anything outside the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDelivery, RoleCustomer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is the authenticated profile returned by the backend on login and
// kept in the gateway session.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role"`
}
