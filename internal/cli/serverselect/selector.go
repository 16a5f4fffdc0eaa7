package serverselect

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/vidysea/notes/internal/cli/config"
	"github.com/vidysea/notes/internal/cli/userconfig"
	"github.com/vidysea/notes/internal/logger"
)

// ResolveServer picks the backend a command talks to. An explicit --server
// alias wins, then the server remembered by select-server, then the only
// configured server. Otherwise the user is asked and the answer remembered.
func ResolveServer(cfg *config.Config, alias string) (*config.Server, error) {
	if alias != "" {
		return cfg.GetServerByAlias(alias)
	}

	remembered, err := userconfig.GetSelectedServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	// A remembered URL missing from notes.yaml is ignored but kept, since
	// NOTES_API_URL may only be hiding it for this run.
	if server := findByURL(cfg, remembered); server != nil {
		return server, nil
	}

	if len(cfg.Servers) == 1 {
		return &cfg.Servers[0], nil
	}

	server, err := PromptServerSelection(cfg)
	if err != nil {
		return nil, err
	}

	if err := userconfig.SetSelectedServer(server.URL); err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Str("url", server.URL).Msg("Failed to remember selected server")
	}
	return server, nil
}

// PromptServerSelection asks the user to choose one of the configured servers.
// Typing filters the list by alias or URL.
func PromptServerSelection(cfg *config.Config) (*config.Server, error) {
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in notes.yaml")
	}

	servers := cfg.Servers
	prompt := promptui.Select{
		Label: "Select a server",
		Items: servers,
		Size:  10,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "> {{ .Alias | cyan }} {{ .URL | faint }}",
			Inactive: "  {{ .Alias }} {{ .URL | faint }}",
			Selected: "Server: {{ .Alias | green }}",
		},
		Searcher: func(input string, index int) bool {
			input = strings.ToLower(strings.TrimSpace(input))
			s := servers[index]
			return strings.Contains(strings.ToLower(s.Alias), input) ||
				strings.Contains(strings.ToLower(s.URL), input)
		},
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server selection cancelled: %w", err)
	}
	return &cfg.Servers[index], nil
}

// Lookup finds a configured server by URL first, then by alias
func Lookup(cfg *config.Config, urlOrAlias string) (*config.Server, error) {
	if server := findByURL(cfg, urlOrAlias); server != nil {
		return server, nil
	}
	if server, err := cfg.GetServerByAlias(urlOrAlias); err == nil {
		return server, nil
	}
	return nil, fmt.Errorf("server with URL or alias '%s' not found", urlOrAlias)
}

func findByURL(cfg *config.Config, serverURL string) *config.Server {
	if serverURL == "" {
		return nil
	}
	for i := range cfg.Servers {
		if cfg.Servers[i].URL == serverURL {
			return &cfg.Servers[i]
		}
	}
	return nil
}
