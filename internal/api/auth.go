package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Houeta/pulsemarket/internal/models"
)

// Credentials sign an existing account in.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration creates a new account.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResult is the token and account returned by login and register.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
	Error string      `json:"error"`
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	return c.authenticate(ctx, "api.Login", "/api/auth/login", creds)
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResult, error) {
	return c.authenticate(ctx, "api.Register", "/api/auth/register", reg)
}

func (c *Client) authenticate(ctx context.Context, opn, path string, body any) (*AuthResult, error) {
	var resp AuthResult
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%s: %w", opn, &StatusError{StatusCode: http.StatusOK, Message: resp.Error})
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%s: %w: no token in response", opn, ErrMalformedResponse)
	}

	return &resp, nil
}
