package api

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "uvote-cli/pkg/errors"
)

// notVerifiedPhrases are the backend wordings that mark a 403 as "account
// exists but the email was never verified". Substring matching on free
// text is fragile; it lives only here so a structured code can replace it
// in one place.
var notVerifiedPhrases = []string{
	"no verificada",
	"sin verificar",
	"not verified",
	"verifica tu correo",
}

// expiredTokenPhrases mark a 401 as a dead credential rather than a bad
// login attempt.
var expiredTokenPhrases = []string{
	"token inválido",
	"token expirado",
	"invalid token",
	"expired token",
	"token inválido o expirado",
}

// parseAPIError turns a non-2xx response into an AppError. The backend's
// own message is kept verbatim when it supplies one.
func parseAPIError(statusCode int, body []byte) *apperrors.AppError {
	message := extractMessage(body)

	switch statusCode {
	case http.StatusBadRequest:
		return apperrors.NewBadRequestError(defaultMsg(message, "Petición inválida. Revisa los campos."))
	case http.StatusUnauthorized:
		return apperrors.NewUnauthorizedError(defaultMsg(message, "Credenciales inválidas."))
	case http.StatusForbidden:
		if containsAny(message, notVerifiedPhrases) {
			return apperrors.NewNotVerifiedError(message)
		}
		return apperrors.NewForbiddenError(defaultMsg(message, "No tienes permiso para esta acción."))
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(defaultMsg(message, "Recurso no encontrado."))
	case http.StatusConflict:
		return apperrors.NewConflictError(defaultMsg(message, "Ya existe una cuenta con ese correo."))
	default:
		return apperrors.NewServerError(defaultMsg(message, "Error del servidor. Intenta más tarde."), statusCode, nil)
	}
}

// extractMessage pulls a human-readable message out of an error body. The
// backend answers {"message": ...} but older endpoints used {"error": ...}
// or a bare string.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		if structured.Message != "" {
			return structured.Message
		}
		if structured.Error != "" {
			return structured.Error
		}
	}

	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		return strings.TrimSpace(plain)
	}

	return strings.TrimSpace(string(body))
}

func defaultMsg(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return fallback
}

func containsAny(message string, phrases []string) bool {
	lower := strings.ToLower(message)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// isExpiredTokenError reports whether a 401 names a dead bearer token,
// which clears the session, as opposed to a failed login attempt, which
// must not.
func isExpiredTokenError(err *apperrors.AppError) bool {
	return err.Type == apperrors.ErrorTypeUnauthorized && containsAny(err.Message, expiredTokenPhrases)
}
