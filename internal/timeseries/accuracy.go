package timeseries

import (
	"strings"
	"time"
)

// AccuracyKind is the granularity at which a series' timestamps are meaningful
type AccuracyKind int

const (
	AccuracySecond AccuracyKind = iota
	AccuracyMinute
	AccuracyHour
	AccuracyDay
	AccuracyMonth
	AccuracyYear
	AccuracyLiteral
)

// literalFallbackLayout is used for literal accuracies whose pattern has no date tokens
const literalFallbackLayout = "2006-01-02T15:04:05Z"

var kindNames = map[AccuracyKind]string{
	AccuracySecond: "second",
	AccuracyMinute: "minute",
	AccuracyHour:   "hour",
	AccuracyDay:    "day",
	AccuracyMonth:  "month",
	AccuracyYear:   "year",
}

var kindLayouts = map[AccuracyKind]string{
	AccuracySecond: "2006-01-02 15:04:05",
	AccuracyMinute: "2006-01-02 15:04",
	AccuracyHour:   "2006-01-02 15:00",
	AccuracyDay:    "2006-01-02",
	AccuracyMonth:  "2006-01",
	AccuracyYear:   "2006",
}

// datePattern translates yyyy/MM/dd style patterns into Go layouts.
// Longer tokens come first so "yyyy" wins over "yy".
var datePattern = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MMMM", "January",
	"MMM", "Jan",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// Accuracy decides how a timestamp renders as a time marker label
type Accuracy struct {
	kind    AccuracyKind
	pattern string
	layout  string
}

// ParseAccuracy maps a datetime-accuracy token from the API onto an Accuracy.
// Unknown tokens become literal accuracies that use the token as a date pattern.
func ParseAccuracy(token string) Accuracy {
	normalized := strings.ToLower(strings.TrimSpace(token))
	for kind, name := range kindNames {
		if normalized == name {
			return Accuracy{kind: kind, layout: kindLayouts[kind]}
		}
	}
	return Literal(strings.TrimSpace(token))
}

// Literal returns an accuracy that formats timestamps with a custom date pattern
func Literal(pattern string) Accuracy {
	layout := datePattern.Replace(pattern)
	if pattern == "" || layout == pattern {
		layout = literalFallbackLayout
	}
	return Accuracy{kind: AccuracyLiteral, pattern: pattern, layout: layout}
}

// Year, Month and Day are shortcuts for the common accuracies
func Year() Accuracy  { return Accuracy{kind: AccuracyYear, layout: kindLayouts[AccuracyYear]} }
func Month() Accuracy { return Accuracy{kind: AccuracyMonth, layout: kindLayouts[AccuracyMonth]} }
func Day() Accuracy   { return Accuracy{kind: AccuracyDay, layout: kindLayouts[AccuracyDay]} }

// Kind returns the accuracy kind
func (a Accuracy) Kind() AccuracyKind {
	return a.kind
}

// Label identifies the accuracy; two series are compatible iff their labels match
func (a Accuracy) Label() string {
	if a.kind == AccuracyLiteral {
		return "literal:" + a.pattern
	}
	return kindNames[a.kind]
}

// Format renders t (in UTC) as a time marker label
func (a Accuracy) Format(t time.Time) string {
	layout := a.layout
	if layout == "" {
		layout = kindLayouts[AccuracySecond]
	}
	return t.UTC().Format(layout)
}

func (a Accuracy) String() string {
	return a.Label()
}
