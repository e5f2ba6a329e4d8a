package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// HTMLBuilder handles HTML generation with goldmark
type HTMLBuilder struct {
	page     *template.Template
	goldmark goldmark.Markdown
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() (*HTMLBuilder, error) {
	page, err := NewTemplateLoader().LoadPageTemplate()
	if err != nil {
		return nil, err
	}

	// Configure goldmark with extensions. Descriptions come from the API,
	// so raw HTML in them is not rendered.
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &HTMLBuilder{
		page:     page,
		goldmark: md,
	}, nil
}

// PageData represents the data structure for the parameter page template
type PageData struct {
	ParameterID string
	Lang        string
	Title       string
	Description template.HTML
	Warning     string
	Chart       template.HTML
	Table       template.HTML
	GeneratedAt string
	Version     string
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	if strings.TrimSpace(markdownContent) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// BuildPage executes the page template with the provided data
func (h *HTMLBuilder) BuildPage(data PageData) (string, error) {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute page template: %w", err)
	}
	return buf.String(), nil
}
