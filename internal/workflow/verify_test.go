package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uvote-cli/internal/api"
	"uvote-cli/internal/uvotetest"
	apperrors "uvote-cli/pkg/errors"
	"uvote-cli/pkg/logger"
)

func newChallenge(t *testing.T, srv *uvotetest.Server, email string) *Challenge {
	t.Helper()
	client, _, _ := newTestEnv(t, srv)
	c := NewChallenge(client, logger.Nop(), email)
	t.Cleanup(c.Close)
	return c
}

func TestSetCodeFiltersInput(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	c := newChallenge(t, srv, "ale@example.com")

	cases := []struct {
		raw      string
		code     string
		complete bool
	}{
		{"123", "123", false},
		{"123456", "123456", true},
		{"12 34-56", "123456", true},
		{"abc123def456", "123456", true},
		{"1234567890", "123456", true},
		{"", "", false},
		{"sin digitos", "", false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q", tc.raw), func(t *testing.T) {
			c.SetCode(tc.raw)
			assert.Equal(t, tc.code, c.Code())
			assert.Equal(t, tc.complete, c.CodeComplete())
		})
	}
}

func TestSetCodeReplacesPreviousEntry(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	c := newChallenge(t, srv, "ale@example.com")

	c.SetCode("999999")
	c.SetCode("12")
	assert.Equal(t, "12", c.Code(), "each entry starts from a clean slate")

	c.ResetCode()
	assert.Empty(t, c.Code())
}

func TestVerifyIncompleteCodeStaysLocal(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("ale", "ale@example.com", "contrasena1", false)
	c := newChallenge(t, srv, "ale@example.com")

	c.SetCode("123")
	err := c.Verify(context.Background())
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "Ingresa el código de 6 dígitos.", appErr.Message)
	assert.False(t, c.Verified())
}

func TestVerifySuccess(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("ale", "ale@example.com", "contrasena1", false)
	c := newChallenge(t, srv, "ale@example.com")

	c.SetCode("123456")
	require.NoError(t, c.Verify(context.Background()))

	assert.True(t, c.Verified())
	assert.Empty(t, c.Code(), "digits are cleared once accepted")

	// A second Verify is a no-op, not a new request
	require.NoError(t, c.Verify(context.Background()))
}

func TestVerifyWrongCode(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("ale", "ale@example.com", "contrasena1", false)
	c := newChallenge(t, srv, "ale@example.com")

	c.SetCode("000000")
	err := c.Verify(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeBadRequest))
	assert.False(t, c.Verified())
	assert.Equal(t, "000000", c.Code(), "a rejected code stays on screen for correction")
}

func TestCooldownCountsDownToResend(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("ale", "ale@example.com", "contrasena1", false)
	c := newChallenge(t, srv, "ale@example.com")
	ctx := context.Background()

	assert.Equal(t, ResendCooldownSeconds, c.Cooldown())
	assert.False(t, c.CanResend())

	err := c.Resend(ctx)
	require.Error(t, err)
	assert.Equal(t, "Espera a que finalice el contador para reenviar.",
		err.(*apperrors.AppError).Message)

	for i := 0; i < ResendCooldownSeconds; i++ {
		c.Tick()
	}
	assert.Equal(t, 0, c.Cooldown())
	assert.True(t, c.CanResend())

	c.Tick()
	assert.Equal(t, 0, c.Cooldown(), "the counter never goes negative")

	c.SetCode("123")
	require.NoError(t, c.Resend(ctx))
	assert.Equal(t, ResendCooldownSeconds, c.Cooldown(), "a resend restarts the full cooldown")
	assert.Empty(t, c.Code(), "a resend invalidates the partial entry")
	assert.False(t, c.CanResend())
}

func TestResendRefusedAfterVerified(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("ale", "ale@example.com", "contrasena1", false)
	c := newChallenge(t, srv, "ale@example.com")

	c.SetCode("123456")
	require.NoError(t, c.Verify(context.Background()))

	for i := 0; i < ResendCooldownSeconds; i++ {
		c.Tick()
	}
	assert.False(t, c.CanResend())

	err := c.Resend(context.Background())
	require.Error(t, err)
	assert.Equal(t, "El correo ya fue verificado.", err.(*apperrors.AppError).Message)
}

func TestSeedFromStatus(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("pendiente", "pendiente@example.com", "contrasena1", false)
	srv.AddUser("lista", "lista@example.com", "contrasena1", true)
	ctx := context.Background()

	pending := newChallenge(t, srv, "pendiente@example.com")
	next, err := pending.SeedFromStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.NextStepVerify, next)
	assert.Equal(t, 45, pending.Cooldown(), "the server's counter replaces the local one")

	done := newChallenge(t, srv, "lista@example.com")
	next, err = done.SeedFromStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.NextStepLogin, next)
	assert.Equal(t, 0, done.Cooldown())
}
