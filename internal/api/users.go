package api

import (
	"context"
	"fmt"
	"net/url"

	"uvote-cli/internal/domain"
)

// RegisterRequest is the payload for POST /usuarios. Registration never
// authenticates; the account stays pending until its email is verified.
type RegisterRequest struct {
	Username string `json:"nombreUsuario"`
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
}

// UpdateUserRequest carries the mutable profile fields
type UpdateUserRequest struct {
	Username string `json:"nombreUsuario,omitempty"`
	Bio      string `json:"descripcion,omitempty"`
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	var user domain.User
	if err := c.post(ctx, "/usuarios", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername re-fetches a profile after mutations
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := c.get(ctx, "/usuarios/nombre/"+url.PathEscape(username), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser edits the profile of the given user id
func (c *Client) UpdateUser(ctx context.Context, userID int64, req UpdateUserRequest) (*domain.User, error) {
	var user domain.User
	if err := c.put(ctx, fmt.Sprintf("/usuarios/id/%d", userID), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
