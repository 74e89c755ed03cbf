package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uvote-cli/internal/uvotetest"
	apperrors "uvote-cli/pkg/errors"
	"uvote-cli/pkg/logger"
)

// staticToken is a fixed TokenSource for tests
type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(srv *uvotetest.Server, token string, opts ...Option) *Client {
	return New(srv.URL(), staticToken(token), logger.Nop(), opts...)
}

func TestLoginSuccess(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("ale", "ale@example.com", "contrasena1", true)

	client := newTestClient(srv, "")

	resp, err := client.Login(context.Background(), "ale@example.com", "contrasena1")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "ale", resp.User.Username)
}

func TestLoginBadCredentials(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("ale", "ale@example.com", "contrasena1", true)

	client := newTestClient(srv, "")

	_, err := client.Login(context.Background(), "ale@example.com", "otra")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
	assert.Equal(t, "Credenciales inválidas", appErr.Message, "server wording kept verbatim")
}

func TestLoginNotVerified(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("ale", "ale@example.com", "contrasena1", false)

	client := newTestClient(srv, "")

	_, err := client.Login(context.Background(), "ale@example.com", "contrasena1")
	require.Error(t, err)

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotVerified),
		"403 with the not-verified phrase maps to its own category")
}

func TestGetPollNotFound(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()

	client := newTestClient(srv, "")

	_, err := client.GetPoll(context.Background(), 99)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestListPollsByCreator(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	ale := srv.AddUser("ale", "ale@example.com", "contrasena1", true)
	bea := srv.AddUser("bea", "bea@example.com", "contrasena1", true)
	srv.AddPoll(ale.ID, "Mascotas", nil, nil, false)
	srv.AddPoll(ale.ID, "Colores", nil, nil, true)
	srv.AddPoll(bea.ID, "Comidas", nil, nil, false)

	client := newTestClient(srv, "")

	polls, err := client.ListPollsByCreator(context.Background(), ale.ID)
	require.NoError(t, err)
	require.Len(t, polls, 2)
	for _, p := range polls {
		assert.Equal(t, ale.ID, p.CreatorID)
	}

	polls, err = client.ListPollsByCreator(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, polls, "an unknown creator simply has no polls")
}

func TestRegisterDuplicate(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("ale", "ale@example.com", "contrasena1", true)

	client := newTestClient(srv, "")

	_, err := client.Register(context.Background(), RegisterRequest{
		Username: "otro",
		Email:    "ale@example.com",
		Password: "contrasena2",
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestConnectivityError(t *testing.T) {
	srv := uvotetest.NewServer()
	url := srv.URL()
	srv.Close()

	client := New(url, staticToken(""), logger.Nop())

	_, err := client.ListPolls(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConnectivity),
		"no HTTP response at all is a connectivity error")
}

func TestBearerTokenAttached(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	owner := srv.AddUser("ale", "ale@example.com", "contrasena1", true)
	poll := srv.AddPoll(owner.ID, "Mascotas", nil, nil, false)

	authed := newTestClient(srv, srv.TokenFor(owner.Email))
	rows, err := authed.Results(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	anonymous := newTestClient(srv, "")
	_, err = anonymous.Results(context.Background(), poll.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized),
		"no token means no Authorization header")
}

func TestAuthExpiredHookFires(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	owner := srv.AddUser("ale", "ale@example.com", "contrasena1", true)
	poll := srv.AddPoll(owner.ID, "Mascotas", nil, nil, false)

	expired := false
	client := newTestClient(srv, "garbage-token", WithOnAuthExpired(func() {
		expired = true
	}))

	_, err := client.Results(context.Background(), poll.ID)
	require.Error(t, err)
	assert.True(t, expired, "401 on an authenticated request clears the session")
}

func TestAuthExpiredHookSkippedWhenAnonymous(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	owner := srv.AddUser("ale", "ale@example.com", "contrasena1", true)
	poll := srv.AddPoll(owner.ID, "Mascotas", nil, nil, false)

	expired := false
	client := newTestClient(srv, "", WithOnAuthExpired(func() {
		expired = true
	}))

	_, err := client.Results(context.Background(), poll.ID)
	require.Error(t, err)
	assert.False(t, expired, "a 401 without a token sent is not a session expiry")
}

func TestVerifyAndResendCode(t *testing.T) {
	srv := uvotetest.NewServer()
	defer srv.Close()
	srv.AddUser("ale", "ale@example.com", "contrasena1", false)

	client := newTestClient(srv, "")
	ctx := context.Background()

	status, err := client.AuthStatus(ctx, "ale@example.com")
	require.NoError(t, err)
	assert.Equal(t, NextStepVerify, status.NextStep)
	assert.Equal(t, 45, status.ResendAvailableIn)

	require.NoError(t, client.ResendCode(ctx, "ale@example.com"))

	err = client.VerifyCode(ctx, "ale@example.com", "000000")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeBadRequest))

	require.NoError(t, client.VerifyCode(ctx, "ale@example.com", "123456"))

	status, err = client.AuthStatus(ctx, "ale@example.com")
	require.NoError(t, err)
	assert.Equal(t, NextStepLogin, status.NextStep)
}
