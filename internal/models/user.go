package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Role names recognised by the admin endpoints.
const (
	RoleAdmin  = "ADMIN"
	RoleSeller = "SELLER"
	RoleBuyer  = "BUYER"
)

// User is the account returned by the auth endpoints.
type User struct {
	ID      ID              `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Roles   []string        `json:"roles,omitempty"`
	Balance decimal.Decimal `json:"balance"`
	Active  *bool           `json:"active,omitempty"`
}

// HasRole reports whether the user carries the named role.
func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// Session binds a chat to a signed-in account.
type Session struct {
	ChatID int64
	Token  string
	User   User
}

// RewardResult is what the reward endpoint reports after a claim.
type RewardResult struct {
	Message string          `json:"message,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
}
