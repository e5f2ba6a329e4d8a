package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"mosjcharts/internal/logger"
	"mosjcharts/internal/models"
)

// ErrNotFound is returned when the API has no resource with the requested id
var ErrNotFound = errors.New("resource not found")

// maxParallelSeries bounds concurrent time-series requests for one parameter
const maxParallelSeries = 4

// Options configures the API client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
}

// DataFetcher handles fetching parameters and time series from the indicator API
type DataFetcher struct {
	client *resty.Client
	log    *logger.Logger
}

// NewDataFetcher creates a new data fetcher instance
func NewDataFetcher(opts Options, log *logger.Logger) *DataFetcher {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = 2 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.Retries)
	client.SetRetryWaitTime(opts.RetryWait)
	client.SetHeader("Accept", "application/json")
	client.AddRetryCondition(func(resp *resty.Response, err error) bool {
		return resp != nil && resp.StatusCode() >= http.StatusInternalServerError
	})

	return &DataFetcher{
		client: client,
		log:    log.WithComponent("fetcher"),
	}
}

// FetchParameter fetches a parameter record
func (f *DataFetcher) FetchParameter(ctx context.Context, id string) (*models.ParameterRecord, error) {
	var record models.ParameterRecord
	if err := f.get(ctx, "/parameter/{id}", id, &record); err != nil {
		return nil, fmt.Errorf("failed to fetch parameter %s: %w", id, err)
	}
	if record.ID == "" {
		record.ID = id
	}
	return &record, nil
}

// FetchTimeSeries fetches a time-series record
func (f *DataFetcher) FetchTimeSeries(ctx context.Context, id string) (*models.TimeSeriesRecord, error) {
	var record models.TimeSeriesRecord
	if err := f.get(ctx, "/timeseries/{id}", id, &record); err != nil {
		return nil, fmt.Errorf("failed to fetch time series %s: %w", id, err)
	}
	if record.ID == "" {
		record.ID = id
	}
	return &record, nil
}

// FetchParameterWithSeries fetches a parameter and all of its time series.
// Series are fetched concurrently and kept in the parameter's order; a series
// that fails to load is logged and left out.
func (f *DataFetcher) FetchParameterWithSeries(ctx context.Context, id string) (*models.Parameter, error) {
	record, err := f.FetchParameter(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := record.SeriesIDs()
	results := make([]*models.TimeSeriesRecord, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSeries)
	for i, seriesID := range ids {
		g.Go(func() error {
			ts, err := f.FetchTimeSeries(gctx, seriesID)
			if err != nil {
				f.log.Error("Skipping time series that failed to load", err, logger.Fields{
					"parameter_id": id,
					"series_id":    seriesID,
				})
				return nil
			}
			results[i] = ts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parameter := &models.Parameter{Record: *record}
	for _, ts := range results {
		if ts != nil {
			parameter.Series = append(parameter.Series, *ts)
		}
	}

	f.log.Info("Fetched parameter", logger.Fields{
		"parameter_id": id,
		"series":       len(parameter.Series),
		"referenced":   len(ids),
	})
	return parameter, nil
}

func (f *DataFetcher) get(ctx context.Context, path, id string, out interface{}) error {
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get(path)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode() != http.StatusOK:
		return fmt.Errorf("API returned status %d", resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
