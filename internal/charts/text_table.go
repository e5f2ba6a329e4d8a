package charts

import (
	"errors"
	"io"

	"github.com/olekukonko/tablewriter"

	"mosjcharts/internal/timeseries"
)

// TextTable writes the aligned collection as a plain-text table, one row per marker
func TextTable(w io.Writer, c *timeseries.Collection) error {
	if c == nil {
		return errors.New("collection cannot be nil")
	}
	printer := c.Printer()

	header := []string{""}
	for _, ts := range c.Series() {
		label := ts.Label()
		if unit := ts.Unit().ShortForm; unit != "" {
			label += " (" + unit + ")"
		}
		header = append(header, label)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, m := range c.Markers() {
		row := []string{m}
		for _, p := range c.DataPointsForMarker(m) {
			if p == nil {
				row = append(row, "")
				continue
			}
			row = append(row, timeseries.FormatDisplay(printer, p.Value()))
		}
		table.Append(row)
	}
	table.Render()
	return nil
}
