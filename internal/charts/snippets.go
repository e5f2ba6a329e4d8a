package charts

import (
	"errors"
	"fmt"
	"html/template"

	"github.com/google/uuid"
)

// highchartsLoader pulls in Highcharts and the module that provides errorbar series
const highchartsLoader = `<script src="https://code.highcharts.com/highcharts.js"></script>
<script src="https://code.highcharts.com/highcharts-more.js"></script>`

// ChartSnippet represents an embeddable chart fragment.
// Div should contain a single root <div id="..." style="..."></div>
// Script should contain the <script>...</script> block that initializes the chart in that div.
// HTML contains the complete snippet with loader, div and script combined for template substitution.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

var errEmptyConfig = errors.New("chart configuration is empty")

// Snippet wraps a chart configuration in a container div and the script
// that draws it. fallback, when not empty, is shown to clients without JavaScript.
func (s *Serializer) Snippet(config, title, fallback string) (ChartSnippet, error) {
	if config == "" {
		return ChartSnippet{}, errEmptyConfig
	}

	id := "mosj-chart-" + uuid.NewString()
	div := fmt.Sprintf("<div id=\"%s\" class=\"mosj-chart\" style=\"width:100%%;height:%dpx;\"></div>", id, s.settings.ChartHeight)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el||!window.Highcharts)return;Highcharts.chart(el,%s);})();</script>`, id, config)

	noscript := ""
	if fallback != "" {
		noscript = fmt.Sprintf("\n\t<noscript><img src=\"%s\" alt=\"%s\"></noscript>",
			template.HTMLEscapeString(fallback), template.HTMLEscapeString(title))
	}

	completeHTML := fmt.Sprintf(`%s
<div class="chart-container">
	<h3>%s</h3>
	%s%s
</div>
%s`, highchartsLoader, template.HTMLEscapeString(title), div, noscript, script)

	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: completeHTML}, nil
}
