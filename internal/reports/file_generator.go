package reports

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/language"

	"mosjcharts/internal/charts"
	"mosjcharts/internal/logger"
	"mosjcharts/internal/models"
	"mosjcharts/internal/overrides"
	"mosjcharts/internal/storage"
)

// GeneratedFiles contains all outputs rendered for one parameter and locale
type GeneratedFiles struct {
	ParameterID string
	Locale      string
	FolderPath  string
	Files       map[string][]byte
	Dropped     []string
}

// Names returns the file names in a stable order
func (gf *GeneratedFiles) Names() []string {
	names := make([]string, 0, len(gf.Files))
	for name := range gf.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileGenerator handles generation of all output files of a parameter
type FileGenerator struct {
	generator *Generator
	log       *logger.Logger
}

// NewFileGenerator creates a new file generator
func NewFileGenerator(generator *Generator, log *logger.Logger) *FileGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &FileGenerator{generator: generator, log: log.WithComponent("file-generator")}
}

// GenerateAllFiles renders the chart configuration, table, page, workbook and
// snapshot of a parameter. The snapshot is optional: a collection that cannot
// be drawn leaves it out.
func (fg *FileGenerator) GenerateAllFiles(p *models.Parameter, tag language.Tag, o *overrides.Overrides) (*GeneratedFiles, error) {
	if p == nil {
		return nil, fmt.Errorf("no parameter to render")
	}

	files := &GeneratedFiles{
		ParameterID: p.Record.ID,
		Locale:      tag.String(),
		FolderPath:  storage.RenderFolderPath(p.Record.ID, tag.String()),
		Files:       make(map[string][]byte),
	}

	page, err := fg.generator.Page(p, tag, o)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	files.Files[PageFile] = []byte(page.HTML)
	files.Dropped = page.Chart.Dropped
	if page.Chart.Config != "" {
		files.Files[ChartFile] = []byte(page.Chart.Config)
	}

	c := fg.generator.BuildCollection(p, tag)
	files.Files[TableFile] = []byte(fg.generator.Serializer().Table(c, page.Title))

	workbook, err := Workbook(c, page.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	files.Files[WorkbookFile] = workbook

	snapshot, err := fg.generator.Serializer().Snapshot(c, page.Title)
	switch {
	case errors.Is(err, charts.ErrEmptyCollection):
		fg.log.Debug("No snapshot for empty collection", logger.Fields{"parameter_id": p.Record.ID})
	case err != nil:
		fg.log.Warn("Failed to render snapshot", logger.Fields{"parameter_id": p.Record.ID, "error": err.Error()})
	default:
		files.Files[SnapshotFile] = snapshot
	}

	fg.log.Info("Generated parameter files", logger.Fields{
		"parameter_id": p.Record.ID,
		"locale":       files.Locale,
		"files":        len(files.Files),
	})
	return files, nil
}
