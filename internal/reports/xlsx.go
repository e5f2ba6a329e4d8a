package reports

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"mosjcharts/internal/timeseries"
)

const defaultSheetName = "Data"

// sheetNameReplacer removes the characters Excel does not allow in sheet names
var sheetNameReplacer = strings.NewReplacer(
	":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")",
)

// Workbook writes the aligned collection to an XLSX workbook with one row
// per marker. Error-band series get extra low and high columns.
func Workbook(c *timeseries.Collection, sheet string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("no collection to export")
	}

	sheet = sheetName(sheet)
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	// Header row
	header := []string{"Time"}
	for _, ts := range c.Series() {
		label := ts.Label()
		if unit := ts.Unit().ShortForm; unit != "" {
			label = fmt.Sprintf("%s (%s)", label, unit)
		}
		header = append(header, label)
		if ts.IsErrorBand() {
			header = append(header, ts.Label()+" low", ts.Label()+" high")
		}
	}
	for i, h := range header {
		if err := setCell(f, sheet, i+1, 1, h); err != nil {
			return nil, err
		}
	}

	for r, marker := range c.Markers() {
		row := r + 2
		if err := setCell(f, sheet, 1, row, marker); err != nil {
			return nil, err
		}

		col := 2
		points := c.DataPointsForMarker(marker)
		for i, ts := range c.Series() {
			p := points[i]
			if p != nil && p.HasValue() && p.IsFinite() {
				if err := setCell(f, sheet, col, row, p.Value().Float64); err != nil {
					return nil, err
				}
			}
			col++

			if !ts.IsErrorBand() {
				continue
			}
			if p != nil && p.HasErrorBand() {
				if err := setCell(f, sheet, col, row, p.Low().Float64); err != nil {
					return nil, err
				}
				if err := setCell(f, sheet, col+1, row, p.High().Float64); err != nil {
					return nil, err
				}
			}
			col += 2
		}
	}

	if err := styleHeader(f, sheet, len(header)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

// styleHeader makes the header row bold and keeps it visible while scrolling
func styleHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func sheetName(name string) string {
	name = strings.Trim(sheetNameReplacer.Replace(strings.TrimSpace(name)), "'")
	if name == "" {
		return defaultSheetName
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}
