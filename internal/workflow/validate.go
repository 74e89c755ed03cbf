package workflow

import (
	"regexp"
	"strings"

	apperrors "uvote-cli/pkg/errors"
)

// emailRegex mirrors the pattern the registration form enforces
var emailRegex = regexp.MustCompile(`(?i)^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// NormalizeEmail trims and lowercases an address before any comparison
// or request
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmail rejects empty or malformed addresses before any network
// call is made
func validateEmail(email string) *apperrors.AppError {
	if email == "" {
		return apperrors.NewValidationError("El correo es requerido.")
	}
	if !emailRegex.MatchString(email) {
		return apperrors.NewValidationError("Formato de correo inválido.")
	}
	return nil
}
