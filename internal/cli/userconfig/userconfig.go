package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	configDirName  = "notes"
	configFileName = "config.json"
)

// UserConfig represents the user's local state stored in ~/.config/notes/config.json
type UserConfig struct {
	SelectedServer string `json:"selected_server"`
	// Sessions holds file-backed session values keyed by server URL
	Sessions map[string]map[string]string `json:"sessions,omitempty"`
}

// mu serializes read-modify-write cycles within the process
var mu sync.Mutex

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", configDirName)
	return filepath.Join(configDir, configFileName), nil
}

// Load reads the user configuration file
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, return empty config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to a file. The file holds tokens, so
// it is readable by the owner only.
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// update loads the config, applies fn and saves it
func update(fn func(cfg *UserConfig)) error {
	mu.Lock()
	defer mu.Unlock()

	cfg, err := Load()
	if err != nil {
		return err
	}

	fn(cfg)
	return Save(cfg)
}

// SetSelectedServer updates the selected server URL and saves the config
func SetSelectedServer(serverURL string) error {
	return update(func(cfg *UserConfig) {
		cfg.SelectedServer = serverURL
	})
}

// GetSelectedServer returns the selected server URL, or empty string if not set
func GetSelectedServer() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}

	return cfg.SelectedServer, nil
}

// FileStore keeps session values for one server in the user config file
type FileStore struct {
	scope string
}

// NewFileStore returns a file-backed store scoped to a server URL
func NewFileStore(scope string) *FileStore {
	return &FileStore{scope: scope}
}

func (f *FileStore) Get(key string) (string, bool, error) {
	cfg, err := Load()
	if err != nil {
		return "", false, err
	}

	value, ok := cfg.Sessions[f.scope][key]
	return value, ok, nil
}

// Set writes all values in a single save
func (f *FileStore) Set(values map[string]string) error {
	return update(func(cfg *UserConfig) {
		if cfg.Sessions == nil {
			cfg.Sessions = make(map[string]map[string]string)
		}
		scoped := cfg.Sessions[f.scope]
		if scoped == nil {
			scoped = make(map[string]string)
			cfg.Sessions[f.scope] = scoped
		}
		for k, v := range values {
			scoped[k] = v
		}
	})
}

// Delete removes all keys in a single save
func (f *FileStore) Delete(keys ...string) error {
	return update(func(cfg *UserConfig) {
		scoped := cfg.Sessions[f.scope]
		for _, k := range keys {
			delete(scoped, k)
		}
		if len(scoped) == 0 {
			delete(cfg.Sessions, f.scope)
		}
	})
}
