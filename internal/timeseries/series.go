package timeseries

// TimeSeries is an ordered run of data points plus the metadata needed to
// chart it. It is read-only once built.
type TimeSeries struct {
	id        string
	label     string
	unit      DataUnit
	accuracy  Accuracy
	points    []DataPoint
	markers   []string
	index     map[string]int
	errorBand bool
}

// NewTimeSeries builds a series and its marker lookup. When two points render
// to the same marker the first one is kept.
func NewTimeSeries(id, label string, unit DataUnit, accuracy Accuracy, points []DataPoint) *TimeSeries {
	s := &TimeSeries{
		id:       id,
		label:    label,
		unit:     unit,
		accuracy: accuracy,
		points:   make([]DataPoint, 0, len(points)),
		markers:  make([]string, 0, len(points)),
		index:    make(map[string]int, len(points)),
	}

	s.errorBand = len(points) > 0
	for _, p := range points {
		if !p.HasErrorBand() {
			s.errorBand = false
		}
		marker := accuracy.Format(p.Timestamp())
		if _, seen := s.index[marker]; seen {
			continue
		}
		s.index[marker] = len(s.points)
		s.points = append(s.points, p)
		s.markers = append(s.markers, marker)
	}
	return s
}

func (s *TimeSeries) ID() string         { return s.id }
func (s *TimeSeries) Label() string      { return s.label }
func (s *TimeSeries) Unit() DataUnit     { return s.unit }
func (s *TimeSeries) Accuracy() Accuracy { return s.accuracy }

// Len is the number of distinct markers in the series
func (s *TimeSeries) Len() int { return len(s.points) }

// IsErrorBand is true when the series is non-empty and every point has high/low
func (s *TimeSeries) IsErrorBand() bool { return s.errorBand }

// Points returns a copy of the points, one per distinct marker
func (s *TimeSeries) Points() []DataPoint {
	out := make([]DataPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Markers returns the series' marker labels in point order
func (s *TimeSeries) Markers() []string {
	out := make([]string, len(s.markers))
	copy(out, s.markers)
	return out
}

// PointAt returns the point rendered at marker, or nil
func (s *TimeSeries) PointAt(marker string) *DataPoint {
	i, ok := s.index[marker]
	if !ok {
		return nil
	}
	p := s.points[i]
	return &p
}
