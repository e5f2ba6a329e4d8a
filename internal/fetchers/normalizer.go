package fetchers

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/language"

	"mosjcharts/internal/logger"
	"mosjcharts/internal/models"
	"mosjcharts/internal/timeseries"
)

// datetimeLayouts are tried in order when reading point timestamps
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006",
}

// DataNormalizer turns API records into time series
type DataNormalizer struct {
	log *logger.Logger
}

// NewDataNormalizer creates a new data normalizer instance
func NewDataNormalizer(log *logger.Logger) *DataNormalizer {
	if log == nil {
		log = logger.Nop()
	}
	return &DataNormalizer{log: log.WithComponent("normalizer")}
}

// Normalize builds a time series from a record, using tag to pick the label
// and unit texts. Points that cannot be read are skipped.
func (n *DataNormalizer) Normalize(record *models.TimeSeriesRecord, tag language.Tag) (*timeseries.TimeSeries, error) {
	if record == nil || record.ID == "" {
		return nil, errors.New("time series record has no id")
	}

	label := record.Titles.Pick(tag)
	if label == "" {
		label = record.ID
	}
	unit := timeseries.NewDataUnit(record.Unit.Symbol, record.Unit.Labels.Pick(tag))

	accuracy := timeseries.Day()
	if strings.TrimSpace(record.Accuracy) != "" {
		accuracy = timeseries.ParseAccuracy(record.Accuracy)
	} else {
		n.log.Debug("Time series has no datetime accuracy, using day", logger.Fields{"series_id": record.ID})
	}

	points := make([]timeseries.DataPoint, 0, len(record.Data))
	for i, pr := range record.Data {
		ts, err := parseDatetime(pr.Datetime)
		if err != nil {
			n.log.Error("Skipping point with unreadable datetime", err, logger.Fields{
				"series_id": record.ID,
				"index":     i,
				"datetime":  pr.Datetime,
			})
			continue
		}

		p := timeseries.NewDataPoint(ts, pr.Value)
		switch {
		case pr.High.Valid && pr.Low.Valid:
			p.SetErrorBand(pr.High.Float64, pr.Low.Float64)
		case pr.High.Valid || pr.Low.Valid:
			n.log.Warn("Ignoring one-sided error band", logger.Fields{
				"series_id": record.ID,
				"index":     i,
			})
		}
		points = append(points, p)
	}

	return timeseries.NewTimeSeries(record.ID, label, unit, accuracy, points), nil
}

// NormalizeParameter normalizes every series of a parameter, in order.
// Records that cannot be normalized are logged and left out.
func (n *DataNormalizer) NormalizeParameter(p *models.Parameter, tag language.Tag) []*timeseries.TimeSeries {
	if p == nil {
		return nil
	}
	out := make([]*timeseries.TimeSeries, 0, len(p.Series))
	for i := range p.Series {
		ts, err := n.Normalize(&p.Series[i], tag)
		if err != nil {
			n.log.Error("Skipping time series record", err, logger.Fields{
				"parameter_id": p.Record.ID,
				"index":        i,
			})
			continue
		}
		out = append(out, ts)
	}
	return out
}

func parseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range datetimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
