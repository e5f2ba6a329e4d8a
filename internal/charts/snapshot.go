package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"mosjcharts/internal/logger"
	"mosjcharts/internal/timeseries"
)

// ErrEmptyCollection is returned when there is nothing to draw
var ErrEmptyCollection = errors.New("collection has no drawable series")

// Snapshot draws the collection as a static PNG line chart. It is the image
// shown in place of the interactive chart when scripts are unavailable.
func (s *Serializer) Snapshot(c *timeseries.Collection, title string) ([]byte, error) {
	if c == nil || c.Len() == 0 || c.MarkerCount() == 0 {
		return nil, ErrEmptyCollection
	}

	markers := c.Markers()
	axisUnits := c.AxisUnits()
	ranges := make([]valueRange, len(axisUnits))

	var series []chart.Series
	for _, ts := range c.Series() {
		var xs, ys []float64
		for i, v := range seriesValues(c, ts) {
			if !v.Valid || !isFinite(v.Float64) {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, v.Float64)
		}
		if len(xs) < 2 {
			s.log.Debug("Series has too few points for snapshot", logger.Fields{"series_id": ts.ID(), "points": len(xs)})
			continue
		}

		axis := c.AxisIndex(ts.Unit())
		for _, y := range ys {
			ranges[axis].include(y)
		}

		cs := chart.ContinuousSeries{
			Name:    ts.Label(),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: 2,
				DotWidth:    3,
			},
		}
		if axis == 1 {
			cs.YAxis = chart.YAxisSecondary
			cs.Style.StrokeDashArray = []float64{5, 3}
		}
		series = append(series, cs)
	}
	if len(series) == 0 {
		return nil, ErrEmptyCollection
	}

	graph := chart.Chart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:  s.settings.SnapshotWidth,
		Height: s.settings.SnapshotHeight,
		XAxis: chart.XAxis{
			Style: chart.Style{FontSize: 9},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(len(markers)-1, 1))},
			Ticks: s.markerTicks(markers),
		},
		Series: series,
	}
	if len(axisUnits) > 0 {
		graph.YAxis = s.yAxis(axisUnits[0], ranges[0])
	}
	if len(axisUnits) > 1 && !ranges[1].empty() {
		graph.YAxisSecondary = s.yAxis(axisUnits[1], ranges[1])
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Serializer) yAxis(unit timeseries.DataUnit, r valueRange) chart.YAxis {
	lo, hi := r.min, r.max
	if r.empty() {
		lo, hi = 0, 1
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return chart.YAxis{
		Name:      unit.ShortForm,
		NameStyle: chart.Style{FontSize: 10},
		Style:     chart.Style{FontSize: 9},
		Range:     &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
	}
}

// markerTicks labels the x axis with the same thinning the interactive chart uses
func (s *Serializer) markerTicks(markers []string) []chart.Tick {
	step := (len(markers) + s.settings.labelTarget() - 1) / s.settings.labelTarget()
	if step < 1 {
		step = 1
	}
	var ticks []chart.Tick
	for i := 0; i < len(markers); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: markers[i]})
	}
	return ticks
}

type valueRange struct {
	min, max float64
	set      bool
}

func (r *valueRange) include(v float64) {
	if !r.set {
		r.min, r.max, r.set = v, v, true
		return
	}
	if v < r.min {
		r.min = v
	}
	if v > r.max {
		r.max = v
	}
}

func (r valueRange) empty() bool {
	return !r.set
}
