package charts

import (
	"github.com/creasty/defaults"
)

// Settings are the chart-wide defaults that overrides can replace
type Settings struct {
	ZoomType       string `default:"x"`
	VisibleLabels  int    `default:"8"`
	SharedTooltip  bool   `default:"true"`
	ErrorBarSuffix string `default:"error range"`
	ChartHeight    int    `default:"400"`
	SnapshotWidth  int    `default:"800"`
	SnapshotHeight int    `default:"400"`
}

// DefaultSettings returns Settings populated from the struct defaults
func DefaultSettings() Settings {
	var s Settings
	if err := defaults.Set(&s); err != nil {
		// struct tags are static; a failure here is a programming error
		panic(err)
	}
	return s
}

func (s Settings) labelTarget() int {
	if s.VisibleLabels < 1 {
		return 8
	}
	return s.VisibleLabels
}
