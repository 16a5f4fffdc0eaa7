package auth

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	sessionauth "github.com/vidysea/notes/internal/auth"
	"github.com/vidysea/notes/internal/models"
)

func TestKeyringStore_ScopedPerServer(t *testing.T) {
	keyring.MockInit()

	prod := NewKeyringStore("https://notes.example.com")
	staging := NewKeyringStore("https://staging.notes.example.com")

	require.NoError(t, prod.Set(map[string]string{"token": "prod-token"}))

	value, ok, err := prod.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "prod-token", value)

	_, ok, err = staging.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyringStore_DeleteMissingIsNoop(t *testing.T) {
	keyring.MockInit()

	store := NewKeyringStore("https://notes.example.com")
	assert.NoError(t, store.Delete("token", "role"))
}

func TestKeyringStore_BacksSession(t *testing.T) {
	keyring.MockInit()

	s := sessionauth.NewSession(NewKeyringStore("https://notes.example.com"), zerolog.Nop())
	require.NoError(t, s.Establish("T1", models.RoleAdmin))

	assert.True(t, s.IsAuthenticated())
	role, _ := s.Role()
	assert.Equal(t, "admin", role)

	require.NoError(t, s.Clear())
	assert.False(t, s.IsAuthenticated())
	_, ok := s.Role()
	assert.False(t, ok)
}
