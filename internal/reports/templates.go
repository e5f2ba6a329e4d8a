package reports

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateLoader handles loading the HTML templates shipped with the binary
type TemplateLoader struct{}

// NewTemplateLoader creates a new template loader
func NewTemplateLoader() *TemplateLoader {
	return &TemplateLoader{}
}

// LoadPageTemplate parses the parameter page template
func (t *TemplateLoader) LoadPageTemplate() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/parameter_page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return tmpl, nil
}
