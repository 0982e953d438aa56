package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)

	return token
}

func TestLoadRehydratesPersistedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := NewFileStore(path)

	first, err := Load(store)
	require.NoError(t, err)
	assert.Empty(t, first.CurrentToken())

	user := &User{ID: 3, Email: "ann@example.com", Name: "Ann"}
	require.NoError(t, first.SetToken("token-1", user))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := Load(NewFileStore(path))
	require.NoError(t, err)
	assert.Equal(t, "token-1", second.CurrentToken())
	assert.Equal(t, user, second.User())
}

func TestClearTokenRemovesPersistedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	s, err := Load(NewFileStore(path))
	require.NoError(t, err)

	require.NoError(t, s.SetToken("token-1", nil))
	require.NoError(t, s.ClearToken())

	assert.Empty(t, s.CurrentToken())
	assert.Nil(t, s.User())

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Clearing twice is fine.
	require.NoError(t, s.ClearToken())
}

func TestSetTokenRejectsEmpty(t *testing.T) {
	s, err := Load(&MemoryStore{})
	require.NoError(t, err)

	require.Error(t, s.SetToken("   ", nil))
	assert.Empty(t, s.CurrentToken())
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("access_token: [unterminated"), 0o600))

	_, err := Load(NewFileStore(path))
	require.Error(t, err)
}

func TestUserIsACopy(t *testing.T) {
	s, err := Load(&MemoryStore{})
	require.NoError(t, err)
	require.NoError(t, s.SetToken("t", &User{Name: "Ann"}))

	u := s.User()
	u.Name = "Bob"

	assert.Equal(t, "Ann", s.User().Name)
}

func TestClaims(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub": 42,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})

	s, err := Load(&MemoryStore{})
	require.NoError(t, err)
	require.NoError(t, s.SetToken(token, nil))

	claims, err := s.Claims()
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.True(t, claims.IssuedAt.Equal(now))
	assert.True(t, claims.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestAuthenticated(t *testing.T) {
	now := time.Now()

	s, err := Load(&MemoryStore{})
	require.NoError(t, err)
	assert.False(t, s.Authenticated(now))

	_, err = s.Claims()
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, s.SetToken(signedToken(t, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()}), nil))
	assert.True(t, s.Authenticated(now))
	assert.False(t, s.Authenticated(now.Add(2*time.Minute)))

	require.NoError(t, s.SetToken(signedToken(t, jwt.MapClaims{"sub": "7"}), nil))
	assert.True(t, s.Authenticated(now.Add(24*time.Hour)))

	require.NoError(t, s.SetToken("opaque-token", nil))
	assert.True(t, s.Authenticated(now))
}
