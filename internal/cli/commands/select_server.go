package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vidysea/notes/internal/cli/config"
	"github.com/vidysea/notes/internal/cli/serverselect"
	"github.com/vidysea/notes/internal/cli/userconfig"
)

// NewSelectServerCmd creates the select-server command
func NewSelectServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-server [url-or-alias]",
		Short: "Select the backend to use for commands",
		Long: `Select the backend to use for commands.

Sessions are kept per backend, so switching servers does not log you out
of the others. If no param is provided, an interactive prompt will be shown.

Examples:
  $ notes select-server                         # Interactive selection
  $ notes select-server http://127.0.0.1:8000   # Select by URL
  $ notes select-server production              # Select by alias`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var urlOrAlias string
			if len(args) > 0 {
				urlOrAlias = args[0]
			}
			return runSelectServer(cmd.OutOrStdout(), urlOrAlias)
		},
	}

	return cmd
}

func runSelectServer(out io.Writer, urlOrAlias string) error {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\nRun 'notes init <url>' to create a configuration file", err)
	}

	var server *config.Server

	if urlOrAlias != "" {
		server, err = serverselect.Lookup(cfg, urlOrAlias)
		if err != nil {
			return err
		}
	} else {
		server, err = serverselect.PromptServerSelection(cfg)
		if err != nil {
			return err
		}
	}

	if err := userconfig.SetSelectedServer(server.URL); err != nil {
		return fmt.Errorf("failed to save selected server: %w", err)
	}

	fmt.Fprintf(out, "Selected server: %s (%s)\n", server.Alias, server.URL)
	return nil
}
