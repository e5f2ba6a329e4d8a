package reports

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"mosjcharts/internal/models"
	"mosjcharts/internal/overrides"
)

// ParameterSource loads a parameter together with its time series
type ParameterSource interface {
	FetchParameterWithSeries(ctx context.Context, id string) (*models.Parameter, error)
}

// RenderService fetches a parameter, renders all of its outputs and stores them
type RenderService struct {
	source       ParameterSource
	files        *FileGenerator
	orchestrator *StorageOrchestrator
}

// NewRenderService creates a new render service
func NewRenderService(source ParameterSource, files *FileGenerator, orchestrator *StorageOrchestrator) *RenderService {
	return &RenderService{
		source:       source,
		files:        files,
		orchestrator: orchestrator,
	}
}

// Render fetches and renders a parameter without storing anything
func (rs *RenderService) Render(ctx context.Context, id string, tag language.Tag, o *overrides.Overrides) (*GeneratedFiles, error) {
	parameter, err := rs.source.FetchParameterWithSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	return rs.files.GenerateAllFiles(parameter, tag, o)
}

// Publish renders a parameter and stores its outputs, returning the stored paths
func (rs *RenderService) Publish(ctx context.Context, id string, tag language.Tag, o *overrides.Overrides) (*GeneratedFiles, []string, error) {
	files, err := rs.Render(ctx, id, tag, o)
	if err != nil {
		return nil, nil, err
	}
	if rs.orchestrator == nil {
		return files, nil, fmt.Errorf("no storage configured")
	}
	stored, err := rs.orchestrator.StoreAllFiles(ctx, files)
	return files, stored, err
}
