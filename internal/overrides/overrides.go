package overrides

import (
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"mosjcharts/internal/logger"
)

const DefaultSeriesType = "line"

// Override keys as they appear in the JSON/YAML text
const (
	keySeriesType    = "seriesType"
	keyType          = "type"
	keyName          = "name"
	keyLabelStep     = "xAxisLabelStep"
	keyLabelRotation = "xAxisLabelRotation"
	keyStaggerLines  = "maxStaggerLines"
	keyHideMarkers   = "hideMarkers"
	keyPerSeries     = "perSeriesOverrides"
	keySeries        = "series"
)

// SeriesOverrides apply to one series, identified by its id
type SeriesOverrides struct {
	SeriesType  *string
	Name        *string
	HideMarkers *bool
}

// Overrides is a sparse chart configuration. Nil fields keep the default.
type Overrides struct {
	SeriesType         *string
	Name               *string
	XAxisLabelStep     *int
	XAxisLabelRotation *int
	MaxStaggerLines    *int
	HideMarkers        *bool
	PerSeries          map[string]SeriesOverrides
}

// Resolved is the effective presentation of one series
type Resolved struct {
	SeriesType     string
	Name           string
	MarkersVisible bool
}

// Empty returns overrides that leave every default in place
func Empty() *Overrides {
	return &Overrides{PerSeries: map[string]SeriesOverrides{}}
}

// Parse reads overrides from JSON or YAML text. Empty or unreadable text
// yields the defaults; keys with the wrong type are ignored.
func Parse(text string, log *logger.Logger) *Overrides {
	if log == nil {
		log = logger.Nop()
	}
	if strings.TrimSpace(text) == "" {
		return Empty()
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		log.Error("Failed to parse chart overrides, using defaults", err)
		return Empty()
	}
	return FromMap(raw, log)
}

// FromMap builds overrides from an untyped document
func FromMap(raw map[string]interface{}, log *logger.Logger) *Overrides {
	if log == nil {
		log = logger.Nop()
	}
	o := Empty()
	if raw == nil {
		return o
	}

	r := reader{log: log, scope: "chart"}
	o.SeriesType = r.stringVal(raw, keySeriesType, keyType)
	o.Name = r.stringVal(raw, keyName)
	o.XAxisLabelStep = r.positiveIntVal(raw, keyLabelStep)
	o.XAxisLabelRotation = r.intVal(raw, keyLabelRotation)
	o.MaxStaggerLines = r.positiveIntVal(raw, keyStaggerLines)
	o.HideMarkers = r.boolVal(raw, keyHideMarkers)

	if key, v, ok := r.lookup(raw, keyPerSeries, keySeries); ok {
		perSeries, err := cast.ToStringMapE(v)
		if err != nil {
			log.Warn("Ignoring per-series overrides with unexpected type", logger.Fields{"key": key, "error": err.Error()})
			return o
		}
		for id, entry := range perSeries {
			fields, err := cast.ToStringMapE(entry)
			if err != nil {
				log.Warn("Ignoring overrides for series", logger.Fields{"series_id": id, "error": err.Error()})
				continue
			}
			sr := reader{log: log, scope: id}
			o.PerSeries[id] = SeriesOverrides{
				SeriesType:  sr.stringVal(fields, keySeriesType, keyType),
				Name:        sr.stringVal(fields, keyName),
				HideMarkers: sr.boolVal(fields, keyHideMarkers),
			}
		}
	}
	return o
}

// Resolve returns the presentation of a series: per-series values win over
// top-level values, which win over the defaults.
func (o *Overrides) Resolve(seriesID, label string) Resolved {
	res := Resolved{SeriesType: DefaultSeriesType, Name: label, MarkersVisible: true}
	if o == nil {
		return res
	}

	if o.SeriesType != nil {
		res.SeriesType = *o.SeriesType
	}
	if o.Name != nil {
		res.Name = *o.Name
	}
	if o.HideMarkers != nil {
		res.MarkersVisible = !*o.HideMarkers
	}

	per, ok := o.PerSeries[seriesID]
	if !ok {
		return res
	}
	if per.SeriesType != nil {
		res.SeriesType = *per.SeriesType
	}
	if per.Name != nil {
		res.Name = *per.Name
	}
	if per.HideMarkers != nil {
		res.MarkersVisible = !*per.HideMarkers
	}
	return res
}

// MarkersHidden reports whether markers are hidden for the whole chart
func (o *Overrides) MarkersHidden() bool {
	return o != nil && o.HideMarkers != nil && *o.HideMarkers
}

// reader pulls typed values out of an untyped map, logging mistyped keys
type reader struct {
	log   *logger.Logger
	scope string
}

func (r reader) lookup(m map[string]interface{}, keys ...string) (string, interface{}, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

func (r reader) mistyped(key string, err error) {
	r.log.Warn("Ignoring chart override with unexpected type", logger.Fields{
		"scope": r.scope,
		"key":   key,
		"error": err.Error(),
	})
}

func (r reader) stringVal(m map[string]interface{}, keys ...string) *string {
	key, v, ok := r.lookup(m, keys...)
	if !ok {
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		r.mistyped(key, err)
		return nil
	}
	return &s
}

func (r reader) intVal(m map[string]interface{}, keys ...string) *int {
	key, v, ok := r.lookup(m, keys...)
	if !ok {
		return nil
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		r.mistyped(key, err)
		return nil
	}
	return &i
}

func (r reader) positiveIntVal(m map[string]interface{}, keys ...string) *int {
	i := r.intVal(m, keys...)
	if i != nil && *i < 1 {
		r.log.Warn("Ignoring non-positive chart override", logger.Fields{"scope": r.scope, "key": keys[0], "value": *i})
		return nil
	}
	return i
}

func (r reader) boolVal(m map[string]interface{}, keys ...string) *bool {
	key, v, ok := r.lookup(m, keys...)
	if !ok {
		return nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		r.mistyped(key, err)
		return nil
	}
	return &b
}
