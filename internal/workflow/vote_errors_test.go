package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"uvote-cli/internal/session"
	apperrors "uvote-cli/pkg/errors"
)

func TestClassifyVoteError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want VoteRejection
	}{
		{"nil", nil, ""},
		{"login required", session.ErrLoginRequired, VoteRejectedUnauthorized},
		{"plain error", errors.New("boom"), VoteRejectedFailure},
		{"already voted server wording", apperrors.NewBadRequestError("Ya has votado en esta encuesta"), VoteRejectedAlreadyVoted},
		{"closed server wording", apperrors.NewBadRequestError("La encuesta ya está cerrada"), VoteRejectedClosed},
		{"closed local wording", apperrors.NewValidationError("Encuesta cerrada."), VoteRejectedClosed},
		{"pending local wording", apperrors.NewValidationError("La encuesta aún no inicia."), VoteRejectedPending},
		{"poll missing", apperrors.NewNotFoundError("La encuesta no existe"), VoteRejectedNotFound},
		{"option missing", apperrors.NewBadRequestError("La opción no existe"), VoteRejectedNotFound},
		{"expired token text", apperrors.NewUnauthorizedError("Usuario no autenticado"), VoteRejectedUnauthorized},
		{"bare 401", apperrors.NewUnauthorizedError("No autorizado"), VoteRejectedUnauthorized},
		{"bare 404 no text match", apperrors.NewNotFoundError("Recurso desconocido"), VoteRejectedNotFound},
		{"server error", apperrors.NewServerError("Error interno del servidor", 500, nil), VoteRejectedFailure},
		{"english already voted", apperrors.NewConflictError("User already voted in this poll"), VoteRejectedAlreadyVoted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyVoteError(tc.err))
		})
	}
}
