package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// RoleUpdate replaces the roles of a user.
type RoleUpdate struct {
	UserID string   `json:"-" validate:"required"`
	Roles  []string `json:"roles" validate:"required,min=1,dive,required"`
}

// SetRoles replaces the roles of a user. Admin only.
func (c *Client) SetRoles(ctx context.Context, token string, update RoleUpdate) error {
	const opn = "api.SetRoles"

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/admin/users/roles/" + url.PathEscape(update.UserID),
		body:   update,
		auth:   true,
		token:  token,
	}, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// ToggleUser flips a user between active and disabled. Admin only.
func (c *Client) ToggleUser(ctx context.Context, token, userID string) error {
	const opn = "api.ToggleUser"

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/admin/users/toggle/" + url.PathEscape(userID),
		auth:   true,
		token:  token,
	}, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}
