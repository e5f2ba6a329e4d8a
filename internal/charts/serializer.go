package charts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/guregu/null/v6"

	"mosjcharts/internal/logger"
	"mosjcharts/internal/overrides"
	"mosjcharts/internal/timeseries"
)

// legendClickHandler keeps the only series of a chart from being hidden.
// It is a JavaScript function, so it is written into the plot options by hand.
const legendClickHandler = "function(){ return false; }"

// Serializer turns a time-series collection into chart configurations and tables
type Serializer struct {
	log      *logger.Logger
	settings Settings
}

// Result is the outcome of rendering one chart. Config is empty when the
// whole chart failed; Dropped lists the ids of series left out of it.
type Result struct {
	Config  string
	Dropped []string
}

// NewSerializer creates a serializer
func NewSerializer(log *logger.Logger, settings Settings) *Serializer {
	if log == nil {
		log = logger.Nop()
	}
	return &Serializer{log: log.WithComponent("chart-serializer"), settings: settings}
}

// ChartConfig returns only the configuration string of Render
func (s *Serializer) ChartConfig(c *timeseries.Collection, o *overrides.Overrides, title string) string {
	return s.Render(c, o, title).Config
}

// Render builds the chart configuration for the collection. A series that
// cannot be encoded is left out; any other failure yields an empty Config.
func (s *Serializer) Render(c *timeseries.Collection, o *overrides.Overrides, title string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Chart rendering panicked", fmt.Errorf("%v", r), logger.Fields{"title": title})
			res = Result{}
		}
	}()

	if c == nil {
		s.log.Error("Cannot render chart without a collection", nil, logger.Fields{"title": title})
		return Result{}
	}
	if o == nil {
		o = overrides.Empty()
	}
	if !c.AllAccuracyCompatible() {
		s.log.Warn("Series in chart have different datetime accuracies", logger.Fields{"title": title})
	}

	series := make([]json.RawMessage, 0, c.Len())
	for _, ts := range c.Series() {
		blocks, err := s.seriesBlocks(c, o, ts)
		if err != nil {
			s.log.Error("Dropping series from chart", err, logger.Fields{
				"title":     title,
				"series_id": ts.ID(),
			})
			res.Dropped = append(res.Dropped, ts.ID())
			continue
		}
		series = append(series, blocks...)
	}

	option := map[string]interface{}{
		"chart": map[string]interface{}{
			"zoomType": s.settings.ZoomType,
		},
		"title": map[string]interface{}{
			"text": title,
		},
		"xAxis": []interface{}{
			s.xAxis(c, o),
		},
		"yAxis":   s.yAxes(c),
		"tooltip": map[string]interface{}{"shared": s.settings.SharedTooltip},
		"series":  series,
	}
	optJSON, err := json.Marshal(option)
	if err != nil {
		s.log.Error("Failed to encode chart configuration", err, logger.Fields{"title": title})
		return Result{}
	}

	res.Config = string(optJSON)
	if o.MarkersHidden() {
		// appended as the last key of the top-level object
		res.Config = strings.TrimSuffix(res.Config, "}") + `,"plotOptions":` + plotOptions(c.Len() == 1) + "}"
	}
	return res
}

// plotOptions encodes plotOptions with markers disabled. The legend click
// handler goes into series.events when lockLegend is set.
func plotOptions(lockLegend bool) string {
	var b strings.Builder
	b.WriteString(`{"series":{`)
	if lockLegend {
		b.WriteString(`"events":{"legendItemClick":` + legendClickHandler + `},`)
	}
	b.WriteString(`"marker":{"enabled":false}}}`)
	return b.String()
}

func (s *Serializer) xAxis(c *timeseries.Collection, o *overrides.Overrides) map[string]interface{} {
	step := (c.MarkerCount() + s.settings.labelTarget() - 1) / s.settings.labelTarget()
	if o.XAxisLabelStep != nil {
		step = *o.XAxisLabelStep
	}
	if step < 1 {
		step = 1
	}

	labels := map[string]interface{}{"step": step}
	if o.XAxisLabelRotation != nil {
		labels["rotation"] = *o.XAxisLabelRotation
	}
	if o.MaxStaggerLines != nil {
		labels["staggerLines"] = *o.MaxStaggerLines
	}

	categories := c.Markers()
	if categories == nil {
		categories = []string{}
	}
	return map[string]interface{}{
		"categories": categories,
		"labels":     labels,
	}
}

func (s *Serializer) yAxes(c *timeseries.Collection) []interface{} {
	axes := []interface{}{}
	for i, unit := range c.AxisUnits() {
		format := "{value}"
		if unit.ShortForm != "" {
			format = "{value} " + unit.ShortForm
		}
		axis := map[string]interface{}{
			"labels": map[string]interface{}{"format": format},
			"title":  map[string]interface{}{"text": unit.LongForm},
		}
		if i == 1 {
			axis["opposite"] = true
		}
		axes = append(axes, axis)
	}
	return axes
}

// seriesBlocks encodes one series, plus its error-bar companion when the
// series carries an error band. Blocks are encoded here so a bad value only
// costs its own series.
func (s *Serializer) seriesBlocks(c *timeseries.Collection, o *overrides.Overrides, ts *timeseries.TimeSeries) ([]json.RawMessage, error) {
	resolved := o.Resolve(ts.ID(), ts.Label())
	axis := c.AxisIndex(ts.Unit())

	markers := c.Markers()
	values := make([]number, len(markers))
	var bands [][2]number
	if ts.IsErrorBand() {
		bands = make([][2]number, len(markers))
	}
	for i, m := range markers {
		p := ts.PointAt(m)
		if p == nil {
			continue
		}
		values[i] = number(p.Value())
		if bands != nil {
			bands[i] = [2]number{number(p.Low()), number(p.High())}
		}
	}

	block := map[string]interface{}{
		"id":     ts.ID(),
		"name":   resolved.Name,
		"type":   resolved.SeriesType,
		"yAxis":  axis,
		"marker": map[string]interface{}{"enabled": resolved.MarkersVisible},
		"data":   values,
	}
	blockJSON, err := json.Marshal(block)
	if err != nil {
		return nil, fmt.Errorf("failed to encode series %s: %w", ts.ID(), err)
	}
	blocks := []json.RawMessage{blockJSON}

	if bands != nil {
		companion := map[string]interface{}{
			"name":     fmt.Sprintf("%s (%s)", resolved.Name, s.settings.ErrorBarSuffix),
			"type":     "errorbar",
			"linkedTo": ts.ID(),
			"yAxis":    axis,
			"data":     bands,
		}
		companionJSON, err := json.Marshal(companion)
		if err != nil {
			return nil, fmt.Errorf("failed to encode error band of series %s: %w", ts.ID(), err)
		}
		blocks = append(blocks, companionJSON)
	}
	return blocks, nil
}

// seriesValues returns the series' values aligned to the collection markers
func seriesValues(c *timeseries.Collection, ts *timeseries.TimeSeries) []null.Float {
	markers := c.Markers()
	out := make([]null.Float, len(markers))
	for i, m := range markers {
		if p := ts.PointAt(m); p != nil {
			out[i] = p.Value()
		}
	}
	return out
}
