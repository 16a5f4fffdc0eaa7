package serverselect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidysea/notes/internal/cli/config"
	"github.com/vidysea/notes/internal/cli/userconfig"
)

func twoServers() *config.Config {
	return &config.Config{
		Servers: []config.Server{
			{Alias: "local", URL: "http://127.0.0.1:8000"},
			{Alias: "production", URL: "https://notes.example.com"},
		},
		SessionStore: config.SessionStoreFile,
	}
}

func TestResolveServer_AliasWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, userconfig.SetSelectedServer("http://127.0.0.1:8000"))

	server, err := ResolveServer(twoServers(), "production")
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com", server.URL)
}

func TestResolveServer_UnknownAlias(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := ResolveServer(twoServers(), "staging")
	assert.EqualError(t, err, "server with alias 'staging' not found")
}

func TestResolveServer_SelectedServer(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, userconfig.SetSelectedServer("https://notes.example.com"))

	server, err := ResolveServer(twoServers(), "")
	require.NoError(t, err)
	assert.Equal(t, "production", server.Alias)
}

func TestResolveServer_IgnoresStaleSelection(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, userconfig.SetSelectedServer("https://gone.example.com"))

	server, err := ResolveServer(config.DefaultConfig(), "")
	require.NoError(t, err)
	assert.Equal(t, "production", server.Alias)

	remembered, err := userconfig.GetSelectedServer()
	require.NoError(t, err)
	assert.Equal(t, "https://gone.example.com", remembered)
}

func TestResolveServer_SingleServer(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	server, err := ResolveServer(config.DefaultConfig(), "")
	require.NoError(t, err)
	assert.Equal(t, "production", server.Alias)
}

func TestLookup(t *testing.T) {
	cfg := twoServers()

	byURL, err := Lookup(cfg, "http://127.0.0.1:8000")
	require.NoError(t, err)
	assert.Equal(t, "local", byURL.Alias)

	byAlias, err := Lookup(cfg, "production")
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com", byAlias.URL)

	_, err = Lookup(cfg, "nope")
	assert.EqualError(t, err, "server with URL or alias 'nope' not found")
}
