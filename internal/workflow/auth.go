package workflow

import (
	"context"
	"strings"

	"uvote-cli/internal/api"
	"uvote-cli/internal/domain"
	"uvote-cli/internal/session"
	apperrors "uvote-cli/pkg/errors"
	"uvote-cli/pkg/logger"
)

// AuthFlow drives login and registration against the backend and the
// session store. Each call validates locally first, then submits; the
// SPA's Submitting state corresponds to the blocking call, its terminal
// states to the return value.
type AuthFlow struct {
	client *api.Client
	store  *session.Store
	log    *logger.Logger
}

// NewAuthFlow creates a new auth workflow
func NewAuthFlow(client *api.Client, store *session.Store, log *logger.Logger) *AuthFlow {
	return &AuthFlow{client: client, store: store, log: log}
}

// Login exchanges credentials for a session. A 2xx response missing the
// token or the user is a hard failure and leaves the store untouched. A
// 403 flagged as "not verified" is surfaced as such so the caller can
// move into the verification flow with the same email.
func (f *AuthFlow) Login(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)

	if err := validateEmail(email); err != nil {
		return err
	}
	if strings.TrimSpace(password) == "" {
		return apperrors.NewValidationError("La contraseña es requerida.")
	}

	resp, err := f.client.Login(ctx, email, password)
	if err != nil {
		f.log.WithError(err).WithField("correo", email).Debug("Login rejected")
		return err
	}

	if err := f.store.Login(resp.Token, resp.User); err != nil {
		return err
	}

	f.log.WithField("usuario", resp.User.Username).Info("Session established")
	return nil
}

// Register creates an account. Success never authenticates: the account
// stays pending until the emailed code is verified, so the caller hands
// off to the verification flow.
func (f *AuthFlow) Register(ctx context.Context, username, email, password, confirm string) (*domain.User, error) {
	email = NormalizeEmail(email)

	if len(strings.TrimSpace(username)) < 2 {
		return nil, apperrors.NewValidationError("El nombre debe tener al menos 2 caracteres.")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("La contraseña debe tener al menos 8 caracteres.")
	}
	if password != confirm {
		return nil, apperrors.NewValidationError("Las contraseñas no coinciden.")
	}

	user, err := f.client.Register(ctx, api.RegisterRequest{
		Username: strings.TrimSpace(username),
		Email:    email,
		Password: password,
	})
	if err != nil {
		f.log.WithError(err).Debug("Registration rejected")
		return nil, err
	}

	f.log.WithField("correo", email).Info("Account created, pending verification")
	return user, nil
}

// IsNotVerified reports whether a login failure asks for email
// verification first
func IsNotVerified(err error) bool {
	return apperrors.IsType(err, apperrors.ErrorTypeNotVerified)
}
