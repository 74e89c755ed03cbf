package api

import (
	"context"
	"fmt"
	"time"

	"uvote-cli/internal/domain"
)

// CreatePollRequest is the payload for POST /encuestas
type CreatePollRequest struct {
	Name        string     `json:"nombre"`
	Description string     `json:"descripcion"`
	ImageURL    string     `json:"imagenUrl,omitempty"`
	StartAt     *time.Time `json:"fechaInicio,omitempty"`
	EndAt       *time.Time `json:"fechaCierre,omitempty"`
}

// ListPolls fetches every public poll
func (c *Client) ListPolls(ctx context.Context) ([]domain.Poll, error) {
	var polls []domain.Poll
	if err := c.get(ctx, "/encuestas", &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// GetPoll fetches one poll's metadata
func (c *Client) GetPoll(ctx context.Context, pollID int64) (*domain.Poll, error) {
	var poll domain.Poll
	if err := c.get(ctx, fmt.Sprintf("/encuestas/%d", pollID), &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// ListPollsByCreator fetches the polls created by one user
func (c *Client) ListPollsByCreator(ctx context.Context, creatorID int64) ([]domain.Poll, error) {
	var polls []domain.Poll
	if err := c.get(ctx, fmt.Sprintf("/encuestas/creador/%d", creatorID), &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// CreatePoll creates a poll owned by the authenticated user
func (c *Client) CreatePoll(ctx context.Context, req CreatePollRequest) (*domain.Poll, error) {
	var poll domain.Poll
	if err := c.post(ctx, "/encuestas", req, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// ClosePoll closes a poll; owner only
func (c *Client) ClosePoll(ctx context.Context, pollID int64) (*domain.Poll, error) {
	var poll domain.Poll
	if err := c.post(ctx, fmt.Sprintf("/encuestas/%d/cerrar", pollID), nil, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}
