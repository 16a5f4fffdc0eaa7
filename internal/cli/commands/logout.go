package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session for the selected server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(serverFlag(cmd))
		},
	}
}

func runLogout(serverAlias string, opts ...Option) error {
	e, err := newEnv(serverAlias, opts...)
	if err != nil {
		return err
	}

	// A role can outlive its token, so clear even when not authenticated.
	loggedIn := e.session.IsAuthenticated()
	if err := e.session.Clear(); err != nil {
		return err
	}

	if !loggedIn {
		fmt.Fprintf(e.out, "Not logged in to %s\n", e.server.Alias)
		return nil
	}

	fmt.Fprintf(e.out, "✓ Logged out of %s (%s)\n", e.server.Alias, e.server.URL)
	return nil
}
