package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uvote-cli/internal/domain"
	"uvote-cli/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"), logger.Nop())
}

func testUser() *domain.User {
	return &domain.User{ID: 1, Username: "ale", Email: "ale@example.com"}
}

func TestLoginSetsTokenAndUserTogether(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Login("t1", testUser()))

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "t1", store.Token())
	require.NotNil(t, store.User())
	assert.Equal(t, "ale", store.User().Username)
}

func TestLoginRejectsIncompletePair(t *testing.T) {
	store := newTestStore(t)

	assert.ErrorIs(t, store.Login("", testUser()), ErrInvalidServerResponse)
	assert.ErrorIs(t, store.Login("t1", nil), ErrInvalidServerResponse)

	// Neither half was set
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestLoginPersistFailureLeavesStoreEmpty(t *testing.T) {
	// The session path is a directory, so the write must fail
	store := NewStore(t.TempDir(), logger.Nop())

	err := store.Login("t1", testUser())
	require.Error(t, err)

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestLogoutClearsEverything(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Login("t1", testUser()))

	store.Logout()

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestRestoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	log := logger.Nop()

	first := NewStore(path, log)
	require.NoError(t, first.Login("t1", testUser()))

	second := NewStore(path, log)
	second.Restore()

	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, "t1", second.Token())
	require.NotNil(t, second.User())
	assert.Equal(t, "ale@example.com", second.User().Email)
}

func TestRestoreThenLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	log := logger.Nop()

	first := NewStore(path, log)
	require.NoError(t, first.Login("t1", testUser()))

	second := NewStore(path, log)
	second.Restore()
	second.Logout()

	assert.False(t, second.IsAuthenticated())

	// The persisted copy is gone too
	third := NewStore(path, log)
	third.Restore()
	assert.False(t, third.IsAuthenticated())
}

func TestRestoreIgnoresIncompleteFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "token without user", content: `{"token":"t1"}`},
		{name: "user without token", content: `{"usuario":{"id":1,"nombreUsuario":"ale","correo":"a@b.com"}}`},
		{name: "malformed json", content: `{not json`},
		{name: "empty file", content: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			store := NewStore(path, logger.Nop())
			store.Restore()

			assert.False(t, store.IsAuthenticated())
			assert.Nil(t, store.User())
		})
	}
}

func TestRestoreMissingFile(t *testing.T) {
	store := newTestStore(t)
	store.Restore()
	assert.False(t, store.IsAuthenticated())
}

func TestAuthenticatedInvariant(t *testing.T) {
	store := newTestStore(t)

	check := func() {
		t.Helper()
		assert.Equal(t, store.IsAuthenticated(), store.Token() != "")
		assert.Equal(t, store.IsAuthenticated(), store.User() != nil)
	}

	check()
	require.NoError(t, store.Login("t1", testUser()))
	check()
	store.Logout()
	check()
}

func TestTokenExpiry(t *testing.T) {
	store := newTestStore(t)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ale@example.com",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	require.NoError(t, store.Login(signed, testUser()))

	got, ok := store.TokenExpiry()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiryOpaqueToken(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Login("not-a-jwt", testUser()))

	_, ok := store.TokenExpiry()
	assert.False(t, ok)
}
