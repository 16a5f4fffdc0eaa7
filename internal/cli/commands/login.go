package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vidysea/notes/internal/auth"
)

const (
	emailEnv    = "NOTES_EMAIL"
	passwordEnv = "NOTES_PASSWORD"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the notes backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), serverFlag(cmd), email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set NOTES_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set NOTES_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, serverAlias, email, password string, opts ...Option) error {
	// Environment variables are useful for scripting
	if email == "" {
		email = os.Getenv(emailEnv)
	}
	if password == "" {
		password = os.Getenv(passwordEnv)
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or %s env var)", emailEnv)
	}

	e, err := newEnv(serverAlias, opts...)
	if err != nil {
		return err
	}

	if password == "" {
		password, err = readPassword(e.out, passwordEnv)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(e.out, "Logging in to %s (%s)...\n", e.server.Alias, e.server.URL)

	exchange := auth.NewExchange(e.api, e.log)
	dest, err := exchange.Login(ctx, e.session, auth.Credentials{Email: email, Password: password})
	if err != nil {
		return &displayError{message: auth.Message(err, auth.LoginFailedMessage), cause: err}
	}

	role, _ := e.session.Role()
	fmt.Fprintln(e.out, "✓ Login successful!")
	fmt.Fprintf(e.out, "  Role: %s\n\n", role)

	return navigate(ctx, e, dest)
}
