package timeseries

// DataUnit describes the unit of measure of a series.
// Two units are the same unit when their short forms match.
type DataUnit struct {
	ShortForm string
	LongForm  string
}

func NewDataUnit(shortForm, longForm string) DataUnit {
	if longForm == "" {
		longForm = shortForm
	}
	return DataUnit{ShortForm: shortForm, LongForm: longForm}
}

func (u DataUnit) Equal(other DataUnit) bool {
	return u.ShortForm == other.ShortForm
}

func (u DataUnit) String() string {
	return u.ShortForm
}
