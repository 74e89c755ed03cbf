package api

import (
	"context"
	"fmt"

	"uvote-cli/internal/domain"
)

// CreateOptionRequest is the payload for POST /encuestas/{id}/opciones
type CreateOptionRequest struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	ImageURL    string `json:"imagenUrl,omitempty"`
	Order       *int   `json:"orden,omitempty"`
}

// ListOptions fetches the options of a poll. Callers sort them; the
// backend returns insertion order.
func (c *Client) ListOptions(ctx context.Context, pollID int64) ([]domain.Option, error) {
	var options []domain.Option
	if err := c.get(ctx, fmt.Sprintf("/encuestas/%d/opciones", pollID), &options); err != nil {
		return nil, err
	}
	return options, nil
}

// CreateOption adds an option to a poll; owner only
func (c *Client) CreateOption(ctx context.Context, pollID int64, req CreateOptionRequest) (*domain.Option, error) {
	var option domain.Option
	if err := c.post(ctx, fmt.Sprintf("/encuestas/%d/opciones", pollID), req, &option); err != nil {
		return nil, err
	}
	return &option, nil
}

// DeleteOption removes an option; owner only
func (c *Client) DeleteOption(ctx context.Context, optionID int64) error {
	return c.delete(ctx, fmt.Sprintf("/opciones/%d", optionID))
}
