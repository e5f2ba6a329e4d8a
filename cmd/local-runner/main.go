// Command local-runner renders MOSJ parameters without running the service.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"mosjcharts/internal/charts"
	"mosjcharts/internal/config"
	"mosjcharts/internal/fetchers"
	"mosjcharts/internal/logger"
	"mosjcharts/internal/mocks"
	"mosjcharts/internal/overrides"
	"mosjcharts/internal/reports"
	"mosjcharts/internal/storage"
)

// options holds the flags shared by all commands
type options struct {
	apiURL        string
	locale        string
	overridesText string
	overridesFile string
	outputDir     string
	mockDir       string
	verbose       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "local-runner",
		Short: "Render MOSJ parameters to charts, tables and pages",
		Long: `local-runner fetches a parameter and its time series from the MOSJ
indicator API and renders them locally, without the HTTP service.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Indicator API base URL (default: MOSJ_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&opts.locale, "locale", "l", "", "Locale for labels and numbers (default: DEFAULT_LOCALE)")
	rootCmd.PersistentFlags().StringVar(&opts.mockDir, "mock-dir", "", "Read parameters from JSON files in this directory (default: MOCK_DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	renderCmd := &cobra.Command{
		Use:   "render [parameter-id]",
		Short: "Render all outputs of a parameter into the output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, args[0])
		},
	}
	renderCmd.Flags().StringVar(&opts.overridesText, "overrides", "", "Chart overrides as JSON or YAML text")
	renderCmd.Flags().StringVar(&opts.overridesFile, "overrides-file", "", "File with chart overrides (JSON or YAML)")
	renderCmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Output directory (default: LOCAL_OUTPUT_DIR)")

	tableCmd := &cobra.Command{
		Use:   "table [parameter-id]",
		Short: "Print the aligned data of a parameter as a text table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(cmd, opts, args[0])
		},
	}

	rootCmd.AddCommand(renderCmd, tableCmd)
	return rootCmd
}

// setup loads the configuration, applies the flags and builds the shared collaborators
func setup(ctx context.Context, cmd *cobra.Command, opts *options) (*config.Config, *logger.Logger, reports.ParameterSource, language.Tag, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, nil, language.Und, err
	}
	if opts.apiURL != "" {
		cfg.APIBaseURL = opts.apiURL
	}
	if opts.locale != "" {
		cfg.DefaultLocale = opts.locale
	}
	if opts.outputDir != "" {
		cfg.LocalOutputDir = opts.outputDir
	}
	if opts.mockDir != "" {
		cfg.MockDataDir = opts.mockDir
	}

	tag, err := language.Parse(cfg.DefaultLocale)
	if err != nil {
		return nil, nil, nil, language.Und, fmt.Errorf("invalid locale %q: %w", cfg.DefaultLocale, err)
	}

	level := logger.WARN
	if opts.verbose {
		level = logger.DEBUG
	}
	log := logger.New(logger.Config{
		Level:     level,
		Format:    logger.TextFormat,
		Output:    cmd.ErrOrStderr(),
		Component: "local-runner",
	})

	if cfg.MockDataDir != "" {
		return cfg, log, mocks.NewMockService(cfg.MockDataDir, log), tag, nil
	}
	fetcher := fetchers.NewDataFetcher(fetchers.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.FetchTimeout,
		Retries: cfg.FetchRetries,
	}, log)
	return cfg, log, fetcher, tag, nil
}

func loadOverrides(opts *options, log *logger.Logger) (*overrides.Overrides, error) {
	text := opts.overridesText
	if opts.overridesFile != "" {
		data, err := os.ReadFile(opts.overridesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read overrides file: %w", err)
		}
		text = string(data)
	}
	return overrides.Parse(text, log), nil
}

func runRender(cmd *cobra.Command, opts *options, id string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, source, tag, err := setup(ctx, cmd, opts)
	if err != nil {
		return err
	}
	o, err := loadOverrides(opts, log)
	if err != nil {
		return err
	}

	// The runner always writes to the local file system
	store, err := storage.NewLocalStorageClient(cfg.LocalOutputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	generator, err := reports.NewGenerator(log, charts.DefaultSettings())
	if err != nil {
		return err
	}
	service := reports.NewRenderService(
		source,
		reports.NewFileGenerator(generator, log),
		reports.NewStorageOrchestrator(store, log),
	)

	files, stored, err := service.Publish(ctx, id, tag, o)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rendered %s (%s) into %s\n", files.ParameterID, files.Locale, cfg.LocalOutputDir)
	for _, p := range stored {
		fmt.Fprintf(out, "  %s\n", p)
	}
	if len(files.Dropped) > 0 {
		fmt.Fprintf(out, "Series left out of the chart: %s\n", strings.Join(files.Dropped, ", "))
	}
	return nil
}

func runTable(cmd *cobra.Command, opts *options, id string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	_, log, source, tag, err := setup(ctx, cmd, opts)
	if err != nil {
		return err
	}

	parameter, err := source.FetchParameterWithSeries(ctx, id)
	if err != nil {
		return err
	}

	generator, err := reports.NewGenerator(log, charts.DefaultSettings())
	if err != nil {
		return err
	}
	collection := generator.BuildCollection(parameter, tag)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, generator.Title(parameter, tag))
	return charts.TextTable(out, collection)
}
