package server

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// loadTemplates parses the embedded page shell.
func loadTemplates() (*template.Template, error) {
	tmpl, err := template.New("index").ParseFS(templateFS, "templates/index.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	return tmpl, nil
}
