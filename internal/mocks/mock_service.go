package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mosjcharts/internal/fetchers"
	"mosjcharts/internal/logger"
	"mosjcharts/internal/models"
)

// MockService serves parameters and time series from JSON files laid out
// like the indicator API: <dir>/parameter/<id>.json and <dir>/timeseries/<id>.json
type MockService struct {
	mocksDir string
	log      *logger.Logger
}

// NewMockService creates a new mock service
func NewMockService(mocksDir string, log *logger.Logger) *MockService {
	if log == nil {
		log = logger.Nop()
	}
	return &MockService{
		mocksDir: mocksDir,
		log:      log.WithComponent("mocks"),
	}
}

// FetchParameter loads a parameter record
func (m *MockService) FetchParameter(ctx context.Context, id string) (*models.ParameterRecord, error) {
	var record models.ParameterRecord
	if err := m.load(ctx, "parameter", id, &record); err != nil {
		return nil, fmt.Errorf("failed to load mock parameter %s: %w", id, err)
	}
	if record.ID == "" {
		record.ID = id
	}
	return &record, nil
}

// FetchTimeSeries loads a time-series record
func (m *MockService) FetchTimeSeries(ctx context.Context, id string) (*models.TimeSeriesRecord, error) {
	var record models.TimeSeriesRecord
	if err := m.load(ctx, "timeseries", id, &record); err != nil {
		return nil, fmt.Errorf("failed to load mock time series %s: %w", id, err)
	}
	if record.ID == "" {
		record.ID = id
	}
	return &record, nil
}

// FetchParameterWithSeries loads a parameter and the series it references,
// in order. Missing series files are logged and skipped, as with the API.
func (m *MockService) FetchParameterWithSeries(ctx context.Context, id string) (*models.Parameter, error) {
	record, err := m.FetchParameter(ctx, id)
	if err != nil {
		return nil, err
	}

	parameter := &models.Parameter{Record: *record}
	for _, seriesID := range record.SeriesIDs() {
		ts, err := m.FetchTimeSeries(ctx, seriesID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			m.log.Warn("Skipping mock time series", logger.Fields{"series_id": seriesID, "error": err.Error()})
			continue
		}
		parameter.Series = append(parameter.Series, *ts)
	}
	return parameter, nil
}

func (m *MockService) load(ctx context.Context, kind, id string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" || id != filepath.Base(id) {
		return fmt.Errorf("invalid id %q", id)
	}

	content, err := os.ReadFile(filepath.Join(m.mocksDir, kind, id+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return fetchers.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", kind, err)
	}
	return nil
}
