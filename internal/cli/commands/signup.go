package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vidysea/notes/internal/auth"
	"github.com/vidysea/notes/internal/models"
)

// NewSignupCmd creates the signup command
func NewSignupCmd() *cobra.Command {
	var reg auth.Registration

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Long: `Create an account on the notes backend.

A successful signup logs you in immediately and opens the dashboard
for the chosen role.

Examples:
  $ notes signup --name "Ada Lovelace" --phone 9876543210 --email ada@example.com
  $ notes signup --name Root --phone 9876543210 --email root@example.com --role admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(cmd.Context(), serverFlag(cmd), reg)
		},
	}

	cmd.Flags().StringVar(&reg.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "10-digit phone number")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email address (or set NOTES_EMAIL)")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password, at least 6 characters (or set NOTES_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&reg.Role, "role", "", "Account role: user or admin (prompts when interactive, defaults to user)")

	return cmd
}

func runSignup(ctx context.Context, serverAlias string, reg auth.Registration, opts ...Option) error {
	if reg.Email == "" {
		reg.Email = os.Getenv(emailEnv)
	}
	if reg.Password == "" {
		reg.Password = os.Getenv(passwordEnv)
	}

	e, err := newEnv(serverAlias, opts...)
	if err != nil {
		return err
	}

	if reg.Password == "" {
		reg.Password, err = readPassword(e.out, passwordEnv)
		if err != nil {
			return err
		}
	}

	if reg.Role == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		reg.Role, err = promptRole()
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(e.out, "Creating account on %s (%s)...\n", e.server.Alias, e.server.URL)

	exchange := auth.NewExchange(e.api, e.log)
	dest, err := exchange.Signup(ctx, e.session, reg)
	if err != nil {
		return &displayError{message: auth.Message(err, auth.SignupFailedMessage), cause: err}
	}

	role, _ := e.session.Role()
	fmt.Fprintln(e.out, "✓ Account created!")
	fmt.Fprintf(e.out, "  Role: %s\n\n", role)

	return navigate(ctx, e, dest)
}

func promptRole() (string, error) {
	prompt := promptui.Select{
		Label: "Role",
		Items: []string{string(models.RoleUser), string(models.RoleAdmin)},
	}

	_, role, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("role selection cancelled: %w", err)
	}
	return role, nil
}
