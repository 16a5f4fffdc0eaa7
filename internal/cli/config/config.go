package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vidysea/notes/internal/client"
)

const ConfigFileName = "notes.yaml"

// APIURLEnv overrides the configured servers with a single backend
const APIURLEnv = "NOTES_API_URL"

// Session store kinds
const (
	SessionStoreFile    = "file"
	SessionStoreKeyring = "keyring"
)

// ErrNotFound is returned when no notes.yaml exists up the directory tree
var ErrNotFound = errors.New("notes.yaml not found")

// Server represents a notes backend
type Server struct {
	URL   string `yaml:"url"`
	Alias string `yaml:"alias"`
}

// Config represents the CLI configuration file
type Config struct {
	Servers []Server `yaml:"servers"`
	// SessionStore selects where token and role are kept: "file" (default) or "keyring"
	SessionStore string `yaml:"session_store,omitempty"`
}

// DefaultConfig returns the configuration used when no notes.yaml exists
func DefaultConfig() *Config {
	return &Config{
		Servers: []Server{
			{
				URL:   client.DefaultBaseURL,
				Alias: "production",
			},
		},
		SessionStore: SessionStoreFile,
	}
}

// FindConfigFile searches for notes.yaml in current directory and parent directories
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	// Search upwards until we find notes.yaml or reach root
	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, currentDir)
}

// Load reads and validates the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.SessionStore == "" {
		cfg.SessionStore = SessionStoreFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads config from current directory or parent
// directories, falling back to DefaultConfig, then applies NOTES_API_URL
func LoadFromCurrentDir() (*Config, error) {
	cfg := DefaultConfig()

	configPath, err := FindConfigFile()
	switch {
	case err == nil:
		cfg, err = Load(configPath)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, ErrNotFound):
		// Defaults are enough to talk to the public backend
	default:
		return nil, err
	}

	if apiURL := strings.TrimSpace(os.Getenv(APIURLEnv)); apiURL != "" {
		cfg.Servers = []Server{{URL: apiURL, Alias: "env"}}
	}

	return cfg, nil
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks server URLs and the session store kind
func (c *Config) Validate() error {
	switch c.SessionStore {
	case SessionStoreFile, SessionStoreKeyring:
	default:
		return fmt.Errorf("invalid session_store '%s', must be one of: file, keyring", c.SessionStore)
	}

	for _, server := range c.Servers {
		if server.URL == "" {
			continue // reported when the server is used
		}
		if err := ValidateURL(server.URL); err != nil {
			return fmt.Errorf("server '%s': %w", server.Alias, err)
		}
	}

	return nil
}

// ValidateURL accepts absolute http(s) URLs only
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url '%s': %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url '%s': must be an absolute http or https URL", raw)
	}
	return nil
}

// GetServerByAlias returns a server by its alias
func (c *Config) GetServerByAlias(alias string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Alias == alias {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with alias '%s' not found", alias)
}

// GetDefaultServer returns the first server in the list
func (c *Config) GetDefaultServer() (*Server, error) {
	if len(c.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in notes.yaml")
	}
	return &c.Servers[0], nil
}
