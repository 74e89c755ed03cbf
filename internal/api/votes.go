package api

import (
	"context"
	"fmt"

	"uvote-cli/internal/domain"
)

// CastVote records one vote for an option. The backend is the sole
// authority on one-vote-per-user; duplicates come back as an error.
func (c *Client) CastVote(ctx context.Context, pollID, optionID int64) (*domain.VoteAck, error) {
	payload := struct {
		OptionID int64 `json:"opcionId"`
	}{OptionID: optionID}

	var ack domain.VoteAck
	if err := c.post(ctx, fmt.Sprintf("/encuestas/%d/votos", pollID), payload, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// Results fetches the per-option vote counts of a poll; owner only
func (c *Client) Results(ctx context.Context, pollID int64) ([]domain.ResultRow, error) {
	var rows []domain.ResultRow
	if err := c.get(ctx, fmt.Sprintf("/encuestas/%d/resultados", pollID), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
