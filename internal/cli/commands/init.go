package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidysea/notes/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var sessionStore string

	cmd := &cobra.Command{
		Use:   "init <backend-url>",
		Short: "Add a notes backend to ./notes.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			currentDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			return runInit(cmd.OutOrStdout(), currentDir, args[0], sessionStore)
		},
	}

	cmd.Flags().StringVar(&sessionStore, "session-store", "", "Where to keep sessions: file or keyring")

	return cmd
}

func runInit(out io.Writer, dir, serverURL, sessionStore string) error {
	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if err := config.ValidateURL(serverURL); err != nil {
		return err
	}

	configPath := filepath.Join(dir, config.ConfigFileName)

	var cfg *config.Config
	isNewConfig := false

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Fprintf(out, "Found existing %s\n", config.ConfigFileName)
	} else {
		cfg = &config.Config{
			Servers:      []config.Server{},
			SessionStore: config.SessionStoreFile,
		}
		isNewConfig = true
	}

	changed := isNewConfig
	if sessionStore != "" && sessionStore != cfg.SessionStore {
		cfg.SessionStore = sessionStore
		if err := cfg.Validate(); err != nil {
			return err
		}
		changed = true
	}

	serverExists := false
	for _, server := range cfg.Servers {
		if server.URL == serverURL {
			serverExists = true
			break
		}
	}

	alias := "production"
	if serverExists {
		fmt.Fprintf(out, "Server %s already exists in %s\n", serverURL, config.ConfigFileName)
	} else {
		if len(cfg.Servers) > 0 {
			alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
		}
		cfg.Servers = append(cfg.Servers, config.Server{
			URL:   serverURL,
			Alias: alias,
		})
		changed = true
	}

	if changed {
		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
	}

	switch {
	case serverExists:
	case isNewConfig:
		fmt.Fprintf(out, "✓ Created ./%s with server %s (%s)\n", config.ConfigFileName, serverURL, alias)
	default:
		fmt.Fprintf(out, "✓ Added server %s (%s) to ./%s\n", serverURL, alias, config.ConfigFileName)
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Run 'notes signup' to create an account, or")
	fmt.Fprintln(out, "  2. Run 'notes login' to authenticate")

	return nil
}
