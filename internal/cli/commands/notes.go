package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidysea/notes/internal/auth"
	"github.com/vidysea/notes/internal/client"
)

// NewListCmd creates the ls command (the user dashboard)
func NewListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), serverFlag(cmd), search)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show notes matching this term")

	return cmd
}

func runList(ctx context.Context, serverAlias, search string, opts ...Option) error {
	e, err := newEnv(serverAlias, opts...)
	if err != nil {
		return err
	}
	return showUserDashboard(ctx, e, strings.TrimSpace(search))
}

// NewAdminCmd creates the admin command (the admin dashboard)
func NewAdminCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "List every user's notes (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), serverFlag(cmd), query)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show notes matching this query")

	return cmd
}

func runAdmin(ctx context.Context, serverAlias, query string, opts ...Option) error {
	e, err := newEnv(serverAlias, opts...)
	if err != nil {
		return err
	}
	return showAdminDashboard(ctx, e, strings.TrimSpace(query))
}

// NewAddCmd creates the add command
func NewAddCmd() *cobra.Command {
	var input client.NoteInput

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a note",
		Example: `  $ notes add --title "Groceries" --content "milk, eggs"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), serverFlag(cmd), input)
		},
	}

	cmd.Flags().StringVarP(&input.Title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&input.Content, "content", "c", "", "Note content")

	return cmd
}

func runAdd(ctx context.Context, serverAlias string, input client.NoteInput, opts ...Option) error {
	e, err := newEnv(serverAlias, opts...)
	if err != nil {
		return err
	}

	return guardView(ctx, e, "", func() error {
		if err := validateNote(&input); err != nil {
			return err
		}

		if err := e.api.CreateNote(ctx, input); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}

		fmt.Fprintf(e.out, "✓ Created note %q\n", input.Title)
		return nil
	})
}

// NewEditCmd creates the edit command
func NewEditCmd() *cobra.Command {
	var input client.NoteInput

	cmd := &cobra.Command{
		Use:   "edit <note-id>",
		Short: "Replace the title and content of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), serverFlag(cmd), client.NoteID(args[0]), input)
		},
	}

	cmd.Flags().StringVarP(&input.Title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&input.Content, "content", "c", "", "New content")

	return cmd
}

func runEdit(ctx context.Context, serverAlias string, id client.NoteID, input client.NoteInput, opts ...Option) error {
	e, err := newEnv(serverAlias, opts...)
	if err != nil {
		return err
	}

	return guardView(ctx, e, "", func() error {
		if err := validateNote(&input); err != nil {
			return err
		}

		if err := e.api.EditNote(ctx, id, input); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}

		fmt.Fprintf(e.out, "✓ Updated note %s\n", id)
		return nil
	})
}

// NewDeleteCmd creates the rm command
func NewDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <note-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), serverFlag(cmd), client.NoteID(args[0]), yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runDelete(ctx context.Context, serverAlias string, id client.NoteID, yes bool, opts ...Option) error {
	e, err := newEnv(serverAlias, opts...)
	if err != nil {
		return err
	}

	return guardView(ctx, e, "", func() error {
		if !yes {
			ok, err := e.confirm(fmt.Sprintf("Delete note %s", id))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(e.out, "Cancelled")
				return nil
			}
		}

		if err := e.api.DeleteNote(ctx, id); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}

		fmt.Fprintf(e.out, "✓ Deleted note %s\n", id)
		return nil
	})
}

func validateNote(input *client.NoteInput) error {
	input.Title = strings.TrimSpace(input.Title)
	return auth.Validate(auth.NewValidator(), input)
}
