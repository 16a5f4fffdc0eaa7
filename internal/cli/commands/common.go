package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vidysea/notes/internal/auth"
	cliauth "github.com/vidysea/notes/internal/cli/auth"
	"github.com/vidysea/notes/internal/cli/config"
	"github.com/vidysea/notes/internal/cli/serverselect"
	"github.com/vidysea/notes/internal/cli/userconfig"
	"github.com/vidysea/notes/internal/client"
	"github.com/vidysea/notes/internal/logger"
)

// API is the subset of the backend client the commands use
type API interface {
	auth.Authenticator
	ListNotes(ctx context.Context, search string) ([]client.Note, error)
	ListAllNotes(ctx context.Context, q string) ([]client.Note, error)
	CreateNote(ctx context.Context, note client.NoteInput) error
	EditNote(ctx context.Context, id client.NoteID, note client.NoteInput) error
	DeleteNote(ctx context.Context, id client.NoteID) error
}

// env bundles the collaborators a command runs against. Production values
// are resolved from config; tests inject their own through options.
type env struct {
	server  *config.Server
	session *auth.Session
	api     API
	out     io.Writer
	confirm func(label string) (bool, error)
	log     zerolog.Logger
}

// Option overrides one collaborator of a command
type Option func(*env)

// WithServer skips config loading and server resolution
func WithServer(server *config.Server) Option {
	return func(e *env) { e.server = server }
}

// WithSession replaces the durable session store
func WithSession(session *auth.Session) Option {
	return func(e *env) { e.session = session }
}

// WithAPIClient replaces the backend client
func WithAPIClient(api API) Option {
	return func(e *env) { e.api = api }
}

// WithOutput redirects command output
func WithOutput(w io.Writer) Option {
	return func(e *env) { e.out = w }
}

// WithConfirm replaces the interactive yes/no prompt
func WithConfirm(fn func(label string) (bool, error)) Option {
	return func(e *env) { e.confirm = fn }
}

// newEnv resolves the server, session and API client for a command
func newEnv(serverAlias string, opts ...Option) (*env, error) {
	e := &env{
		out:     os.Stdout,
		confirm: promptConfirm,
		log:     logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.server == nil || e.session == nil {
		cfg, err := config.LoadFromCurrentDir()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w\nRun 'notes init <url>' to create a configuration file", err)
		}

		if e.server == nil {
			server, err := serverselect.ResolveServer(cfg, serverAlias)
			if err != nil {
				return nil, err
			}
			e.server = server
		}

		if e.session == nil {
			e.session = auth.NewSession(newSessionKV(cfg.SessionStore, e.server.URL), e.log)
		}
	}

	if e.server.URL == "" {
		return nil, fmt.Errorf("server URL is empty. Please edit notes.yaml and add a valid URL")
	}

	if e.api == nil {
		c := client.New(e.server.URL)
		c.SetLogger(e.log)
		e.api = c.WithTokenSource(e.session)
	}

	return e, nil
}

// newSessionKV returns the durable store for sessions against serverURL
func newSessionKV(kind, serverURL string) auth.KV {
	if kind == config.SessionStoreKeyring {
		return cliauth.NewKeyringStore(serverURL)
	}
	return userconfig.NewFileStore(serverURL)
}

// displayError carries a user-facing message while keeping the cause
// available to errors.Is/As
type displayError struct {
	message string
	cause   error
}

func (e *displayError) Error() string { return e.message }
func (e *displayError) Unwrap() error { return e.cause }

// serverFlag returns the --server alias inherited from the root command
func serverFlag(cmd *cobra.Command) string {
	alias, _ := cmd.Flags().GetString("server")
	return alias
}

// promptConfirm asks a yes/no question on the terminal
func promptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// readPassword reads a password from the terminal without echoing it
func readPassword(w io.Writer, envVar string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or %s env var)", envVar)
	}

	fmt.Fprint(w, "Password: ")
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}
