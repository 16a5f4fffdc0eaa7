package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vidysea/notes/internal/auth"
	"github.com/vidysea/notes/internal/client"
	"github.com/vidysea/notes/internal/models"
)

// ErrNotAuthenticated is returned when a protected view is opened without a session
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'notes login' first")

// NewDashCmd creates the dash command
func NewDashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the dashboard for your role",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(cmd.Context(), serverFlag(cmd))
		},
	}

	return cmd
}

func runDash(ctx context.Context, serverAlias string, opts ...Option) error {
	e, err := newEnv(serverAlias, opts...)
	if err != nil {
		return err
	}

	return guardView(ctx, e, "", func() error {
		role, _ := e.session.Role()
		return navigate(ctx, e, models.HomePath(models.Role(role)))
	})
}

// guardView runs the auth guard in front of a protected view and follows
// its redirect. It is evaluated on every invocation.
func guardView(ctx context.Context, e *env, required models.Role, view func() error) error {
	decision := auth.Guard(e.session, required)

	e.log.Debug().
		Str("required_role", string(required)).
		Str("outcome", decision.Outcome.String()).
		Str("location", decision.Location).
		Msg("Guard decision")

	if decision.Outcome == auth.Allow {
		return view()
	}

	return navigate(ctx, e, decision.Location)
}

// navigate opens the view mounted at path
func navigate(ctx context.Context, e *env, path string) error {
	switch path {
	case models.UserDashboardPath:
		return showUserDashboard(ctx, e, "")
	case models.AdminDashboardPath:
		return showAdminDashboard(ctx, e, "")
	case models.LoginPath:
		return ErrNotAuthenticated
	default:
		return fmt.Errorf("unknown view %s", path)
	}
}

// showUserDashboard lists the caller's own notes
func showUserDashboard(ctx context.Context, e *env, search string) error {
	return guardView(ctx, e, models.RoleUser, func() error {
		notes, err := e.api.ListNotes(ctx, search)
		if err != nil {
			return fmt.Errorf("failed to fetch notes: %w", err)
		}

		renderNotes(e.out, fmt.Sprintf("My Notes on %s", e.server.Alias), notes, false)
		return nil
	})
}

// showAdminDashboard lists every user's notes
func showAdminDashboard(ctx context.Context, e *env, q string) error {
	return guardView(ctx, e, models.RoleAdmin, func() error {
		notes, err := e.api.ListAllNotes(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to fetch notes: %w", err)
		}

		renderNotes(e.out, fmt.Sprintf("Admin Notes on %s", e.server.Alias), notes, true)
		return nil
	})
}

const contentPreviewLen = 40

func renderNotes(w io.Writer, title string, notes []client.Note, withOwner bool) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes found.")
		fmt.Fprintln(w, "\nCreate a note with: notes add --title <title>")
		return
	}

	fmt.Fprintf(w, "%s:\n\n", title)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if withOwner {
		fmt.Fprintln(tw, "ID\tOWNER\tTITLE\tCONTENT\tCREATED AT")
		fmt.Fprintln(tw, "──\t─────\t─────\t───────\t──────────")
	} else {
		fmt.Fprintln(tw, "ID\tTITLE\tCONTENT\tCREATED AT")
		fmt.Fprintln(tw, "──\t─────\t───────\t──────────")
	}

	for _, note := range notes {
		content := preview(note.Content)
		if withOwner {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", note.ID, owner(note), note.Title, content, createdAt(note))
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", note.ID, note.Title, content, createdAt(note))
		}
	}

	tw.Flush()
}

func owner(note client.Note) string {
	if note.MyNote {
		return fmt.Sprintf("%s (My Note)", note.UserID)
	}
	return note.UserID.String()
}

// preview flattens content onto one line and shortens it for the table
func preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) > contentPreviewLen {
		return string(runes[:contentPreviewLen-1]) + "…"
	}
	return content
}

func createdAt(note client.Note) string {
	t := note.Created()
	if t.IsZero() {
		return note.CreatedAt
	}
	return t.Local().Format("2006-01-02 15:04")
}
