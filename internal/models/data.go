package models

import (
	"strings"

	"github.com/guregu/null/v6"
	"golang.org/x/text/language"
)

// LocalizedText is a text in one language
type LocalizedText struct {
	Lang string `json:"lang"`
	Text string `json:"text"`
}

// Texts holds the translations of one text
type Texts []LocalizedText

// Pick returns the translation that best matches tag, falling back to
// English and then to the first entry.
func (t Texts) Pick(tag language.Tag) string {
	if len(t) == 0 {
		return ""
	}

	var supported []language.Tag
	var positions []int
	for i, lt := range t {
		parsed, err := language.Parse(lt.Lang)
		if err != nil {
			continue
		}
		supported = append(supported, parsed)
		positions = append(positions, i)
	}
	if len(supported) == 0 {
		return t[0].Text
	}

	_, idx, confidence := language.NewMatcher(supported).Match(tag)
	if confidence != language.No {
		return t[positions[idx]].Text
	}

	english, _ := language.English.Base()
	for i, s := range supported {
		if base, _ := s.Base(); base == english {
			return t[positions[i]].Text
		}
	}
	return t[0].Text
}

// UnitRecord is the unit of a time series as the API describes it
type UnitRecord struct {
	Symbol string `json:"symbol"`
	Labels Texts  `json:"labels,omitempty"`
}

// PointRecord is one sample; Datetime uses the yyyy-MM-ddTHH:mm:ssZ form
type PointRecord struct {
	Datetime string     `json:"datetime"`
	Value    null.Float `json:"value"`
	High     null.Float `json:"high"`
	Low      null.Float `json:"low"`
}

// TimeSeriesRecord is a time series resource of the indicator API
type TimeSeriesRecord struct {
	ID       string        `json:"id"`
	Titles   Texts         `json:"titles"`
	Unit     UnitRecord    `json:"unit"`
	Accuracy string        `json:"datetime_accuracy"`
	Data     []PointRecord `json:"data"`
}

// ParameterRecord is a parameter resource; TimeSeries holds series ids or links
type ParameterRecord struct {
	ID           string   `json:"id"`
	Titles       Texts    `json:"titles"`
	Descriptions Texts    `json:"descriptions,omitempty"`
	TimeSeries   []string `json:"timeseries"`
}

// SeriesIDs resolves the parameter's series references to plain ids
func (p ParameterRecord) SeriesIDs() []string {
	ids := make([]string, 0, len(p.TimeSeries))
	for _, ref := range p.TimeSeries {
		ref = strings.TrimRight(strings.TrimSpace(ref), "/")
		if i := strings.LastIndex(ref, "/"); i >= 0 {
			ref = ref[i+1:]
		}
		if ref != "" {
			ids = append(ids, ref)
		}
	}
	return ids
}

// Parameter is a parameter together with the series it references, in order
type Parameter struct {
	Record ParameterRecord
	Series []TimeSeriesRecord
}
