package charts

import (
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/message"

	"mosjcharts/internal/logger"
	"mosjcharts/internal/timeseries"
)

// Table renders the collection as an HTML table with one row per time marker
// and one column per series. Values are formatted for the collection locale.
func (s *Serializer) Table(c *timeseries.Collection, caption string) string {
	if c == nil {
		s.log.Error("Cannot render table without a collection", nil, logger.Fields{"caption": caption})
		return ""
	}
	printer := c.Printer()
	series := c.Series()

	var buf strings.Builder
	buf.WriteString(`<table class="mosj-table">`)
	buf.WriteString(fmt.Sprintf(`<caption>%s</caption>`, template.HTMLEscapeString(caption)))
	buf.WriteString(`<thead><tr><th></th>`)
	for _, ts := range series {
		buf.WriteString(fmt.Sprintf(`<th scope="col">%s</th>`, template.HTMLEscapeString(ts.Label())))
	}
	buf.WriteString(`</tr></thead>`)

	buf.WriteString(`<tbody>`)
	for _, m := range c.Markers() {
		buf.WriteString(fmt.Sprintf(`<tr><th scope="row">%s</th>`, template.HTMLEscapeString(m)))
		for _, p := range c.DataPointsForMarker(m) {
			buf.WriteString(valueCell(printer, p))
		}
		buf.WriteString(`</tr>`)
	}
	buf.WriteString(`</tbody></table>`)
	return buf.String()
}

// ParameterTable renders one row per series with its unit, and the time
// markers as columns.
func (s *Serializer) ParameterTable(c *timeseries.Collection, caption string) string {
	if c == nil {
		s.log.Error("Cannot render table without a collection", nil, logger.Fields{"caption": caption})
		return ""
	}
	printer := c.Printer()
	markers := c.Markers()

	var buf strings.Builder
	buf.WriteString(`<table class="mosj-table mosj-parameter-table">`)
	buf.WriteString(fmt.Sprintf(`<caption>%s</caption>`, template.HTMLEscapeString(caption)))
	buf.WriteString(`<thead><tr><th></th><th scope="col" class="unit"></th>`)
	for _, m := range markers {
		buf.WriteString(fmt.Sprintf(`<th scope="col">%s</th>`, template.HTMLEscapeString(m)))
	}
	buf.WriteString(`</tr></thead>`)

	buf.WriteString(`<tbody>`)
	for _, ts := range c.Series() {
		buf.WriteString(fmt.Sprintf(`<tr><th scope="row">%s</th><td class="unit">%s</td>`,
			template.HTMLEscapeString(ts.Label()),
			template.HTMLEscapeString(ts.Unit().ShortForm)))
		for _, m := range markers {
			buf.WriteString(valueCell(printer, ts.PointAt(m)))
		}
		buf.WriteString(`</tr>`)
	}
	buf.WriteString(`</tbody></table>`)
	return buf.String()
}

// valueCell renders one table cell; absent points give an empty cell
func valueCell(printer *message.Printer, p *timeseries.DataPoint) string {
	if p == nil || !p.HasValue() {
		return `<td></td>`
	}
	value := template.HTMLEscapeString(timeseries.FormatDisplay(printer, p.Value()))
	if p.HasErrorBand() {
		return fmt.Sprintf(`<td data-low="%s" data-high="%s">%s</td>`,
			template.HTMLEscapeString(timeseries.FormatInvariant(p.Low())),
			template.HTMLEscapeString(timeseries.FormatInvariant(p.High())),
			value)
	}
	return fmt.Sprintf(`<td>%s</td>`, value)
}
