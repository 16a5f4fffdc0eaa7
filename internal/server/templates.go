package server

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/vidysea/notes/internal/client"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"created": func(n client.Note) string {
		t := n.Created()
		if t.IsZero() {
			return n.CreatedAt
		}
		return t.UTC().Format("Jan 2, 2006 15:04 UTC")
	},
}

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}
