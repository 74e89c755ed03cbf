package workflow

import (
	"strings"

	"uvote-cli/internal/session"
	apperrors "uvote-cli/pkg/errors"
)

// VoteRejection is the stable UI category of a failed vote. The backend
// enforces one-vote-per-user and voting windows, but announces both as
// free text; this is the single place that text is translated.
type VoteRejection string

const (
	VoteRejectedAlreadyVoted VoteRejection = "already_voted"
	VoteRejectedClosed       VoteRejection = "closed"
	VoteRejectedPending      VoteRejection = "pending"
	VoteRejectedUnauthorized VoteRejection = "unauthorized"
	VoteRejectedNotFound     VoteRejection = "not_found"
	VoteRejectedFailure      VoteRejection = "failure"
)

// ClassifyVoteError maps a CastVote failure to its UI category via
// case-insensitive substring matching on the server's wording, with the
// error taxonomy as backstop for statuses that carry no text.
func ClassifyVoteError(err error) VoteRejection {
	if err == nil {
		return ""
	}

	if err == session.ErrLoginRequired {
		return VoteRejectedUnauthorized
	}

	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return VoteRejectedFailure
	}

	msg := strings.ToLower(appErr.Message)
	switch {
	case strings.Contains(msg, "ya has votado"), strings.Contains(msg, "already voted"):
		return VoteRejectedAlreadyVoted
	case strings.Contains(msg, "aún no inicia"), strings.Contains(msg, "no ha iniciado"):
		return VoteRejectedPending
	case strings.Contains(msg, "cerrada"), strings.Contains(msg, "closed"):
		return VoteRejectedClosed
	case strings.Contains(msg, "no autenticado"), strings.Contains(msg, "no autorizado"):
		return VoteRejectedUnauthorized
	case strings.Contains(msg, "no existe"), strings.Contains(msg, "not found"):
		return VoteRejectedNotFound
	}

	switch appErr.Type {
	case apperrors.ErrorTypeUnauthorized:
		return VoteRejectedUnauthorized
	case apperrors.ErrorTypeNotFound:
		return VoteRejectedNotFound
	default:
		return VoteRejectedFailure
	}
}
