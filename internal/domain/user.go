package domain

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleCompany  UserRole = "company"
)

func (r UserRole) Valid() bool {
	return r == RoleCustomer || r == RoleCompany
}

type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          UserRole  `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Identity is the acting user as supplied by the identity provider.
type Identity struct {
	UserID string
	Role   UserRole
}

func (i Identity) IsCompany() bool {
	return i.Role == RoleCompany
}
