package reports

import (
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/language"

	"mosjcharts/internal/charts"
	"mosjcharts/internal/config"
	"mosjcharts/internal/fetchers"
	"mosjcharts/internal/logger"
	"mosjcharts/internal/models"
	"mosjcharts/internal/overrides"
	"mosjcharts/internal/timeseries"
)

// Names of the rendered outputs of one parameter
const (
	ChartFile    = "chart.js"
	TableFile    = "table.html"
	PageFile     = "page.html"
	WorkbookFile = "data.xlsx"
	SnapshotFile = "snapshot.png"
)

// accuracyWarning is shown on pages whose series use different time resolutions
const accuracyWarning = "The series of this parameter use different time resolutions, so their values may not line up."

// Page is a rendered parameter page
type Page struct {
	Title   string
	HTML    string
	Chart   charts.Result
	Warning string
}

// Generator turns fetched parameters into charts, tables and pages
type Generator struct {
	log        *logger.Logger
	serializer *charts.Serializer
	normalizer *fetchers.DataNormalizer
	html       *HTMLBuilder
	now        func() time.Time
}

// NewGenerator creates a new generator
func NewGenerator(log *logger.Logger, settings charts.Settings) (*Generator, error) {
	if log == nil {
		log = logger.Nop()
	}
	builder, err := NewHTMLBuilder()
	if err != nil {
		return nil, err
	}
	return &Generator{
		log:        log.WithComponent("generator"),
		serializer: charts.NewSerializer(log, settings),
		normalizer: fetchers.NewDataNormalizer(log),
		html:       builder,
		now:        time.Now,
	}, nil
}

// Serializer returns the chart serializer used by the generator
func (g *Generator) Serializer() *charts.Serializer {
	return g.serializer
}

// BuildCollection normalizes the parameter's series and aligns them
func (g *Generator) BuildCollection(p *models.Parameter, tag language.Tag) *timeseries.Collection {
	return timeseries.NewCollection(g.log, tag, g.normalizer.NormalizeParameter(p, tag)...)
}

// Title returns the parameter title in the language closest to tag
func (g *Generator) Title(p *models.Parameter, tag language.Tag) string {
	if p == nil {
		return ""
	}
	if title := p.Record.Titles.Pick(tag); title != "" {
		return title
	}
	return p.Record.ID
}

// Chart renders the chart configuration of a parameter
func (g *Generator) Chart(p *models.Parameter, tag language.Tag, o *overrides.Overrides) charts.Result {
	return g.serializer.Render(g.BuildCollection(p, tag), o, g.Title(p, tag))
}

// Table renders the data table of a parameter
func (g *Generator) Table(p *models.Parameter, tag language.Tag) string {
	return g.serializer.Table(g.BuildCollection(p, tag), g.Title(p, tag))
}

// Page renders the parameter page: title, description, chart, table and,
// when the series disagree on time resolution, a warning.
func (g *Generator) Page(p *models.Parameter, tag language.Tag, o *overrides.Overrides) (*Page, error) {
	if p == nil {
		return nil, fmt.Errorf("no parameter to render")
	}

	c := g.BuildCollection(p, tag)
	title := g.Title(p, tag)

	page := &Page{Title: title, Chart: g.serializer.Render(c, o, title)}
	if !c.AllAccuracyCompatible() {
		page.Warning = accuracyWarning
	}

	description, err := g.html.ConvertMarkdownToHTML(p.Record.Descriptions.Pick(tag))
	if err != nil {
		g.log.Error("Failed to render parameter description", err, logger.Fields{"parameter_id": p.Record.ID})
		description = ""
	}

	var chartHTML template.HTML
	if page.Chart.Config != "" {
		snippet, err := g.serializer.Snippet(page.Chart.Config, title, SnapshotFile)
		if err != nil {
			g.log.Warn("Page rendered without chart", logger.Fields{"parameter_id": p.Record.ID, "error": err.Error()})
		} else {
			chartHTML = template.HTML(snippet.HTML)
		}
	}

	page.HTML, err = g.html.BuildPage(PageData{
		ParameterID: p.Record.ID,
		Lang:        tag.String(),
		Title:       title,
		Description: template.HTML(description),
		Warning:     page.Warning,
		Chart:       chartHTML,
		Table:       template.HTML(g.serializer.Table(c, title)),
		GeneratedAt: g.now().UTC().Format("2006-01-02 15:04 UTC"),
		Version:     config.GetVersion(),
	})
	if err != nil {
		return nil, err
	}

	g.log.Debug("Rendered parameter page", logger.Fields{
		"parameter_id": p.Record.ID,
		"series":       c.Len(),
		"dropped":      len(page.Chart.Dropped),
		"bytes":        len(page.HTML),
	})
	return page, nil
}
