package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidysea/notes/internal/auth"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session for the selected server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(serverFlag(cmd))
		},
	}
}

func runWhoami(serverAlias string, opts ...Option) error {
	e, err := newEnv(serverAlias, opts...)
	if err != nil {
		return err
	}

	token, ok := e.session.Token()
	if !ok {
		return ErrNotAuthenticated
	}

	role, ok := e.session.Role()
	if !ok {
		role = "(none)"
	}

	fmt.Fprintf(e.out, "Server: %s (%s)\n", e.server.Alias, e.server.URL)
	fmt.Fprintf(e.out, "Role:   %s\n", role)

	info, err := auth.InspectToken(token)
	if errors.Is(err, auth.ErrOpaqueToken) {
		fmt.Fprintln(e.out, "Token:  opaque")
		return nil
	}
	if err != nil {
		e.log.Debug().Err(err).Msg("Failed to inspect token")
		fmt.Fprintln(e.out, "Token:  unreadable")
		return nil
	}

	if info.Subject != "" {
		fmt.Fprintf(e.out, "User:   %s\n", info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		status := "valid"
		if info.Expired(time.Now()) {
			status = "expired, run 'notes login'"
		}
		fmt.Fprintf(e.out, "Expiry: %s (%s)\n", info.ExpiresAt.Local().Format(time.RFC1123), status)
	}

	return nil
}
