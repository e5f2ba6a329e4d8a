package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	"mosjcharts/internal/config"
	"mosjcharts/internal/logger"
	"mosjcharts/internal/metrics"
	"mosjcharts/internal/reports"
	"mosjcharts/internal/storage"
)

// Dependencies are the collaborators the server renders with
type Dependencies struct {
	Source    reports.ParameterSource
	Generator *reports.Generator
	Storage   storage.StorageClient
	Metrics   *metrics.Recorder
	Gatherer  prometheus.Gatherer
	Logger    *logger.Logger
}

// Server represents the main application server
type Server struct {
	Config        *config.Config
	Source        reports.ParameterSource
	Generator     *reports.Generator
	Storage       storage.StorageClient
	Metrics       *metrics.Recorder
	Renderer      *reports.RenderService
	DefaultLocale language.Tag

	gatherer prometheus.Gatherer
	log      *logger.Logger
	echo     *echo.Echo
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	if deps.Source == nil || deps.Generator == nil {
		return nil, errors.New("server needs a parameter source and a generator")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	locale, err := language.Parse(cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", cfg.DefaultLocale, err)
	}

	s := &Server{
		Config:        cfg,
		Source:        deps.Source,
		Generator:     deps.Generator,
		Storage:       deps.Storage,
		Metrics:       deps.Metrics,
		DefaultLocale: locale,
		gatherer:      deps.Gatherer,
		log:           deps.Logger.WithComponent("server"),
	}

	var orchestrator *reports.StorageOrchestrator
	if deps.Storage != nil {
		orchestrator = reports.NewStorageOrchestrator(deps.Storage, deps.Logger)
	}
	s.Renderer = reports.NewRenderService(deps.Source, reports.NewFileGenerator(deps.Generator, deps.Logger), orchestrator)
	s.echo = s.SetupRoutes()

	return s, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(Recover(s.log))
	e.Use(RequestLogging(s.log))

	e.GET("/health", s.HandleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api/parameters/:id")
	api.GET("/chart", s.HandleChart)
	api.GET("/table", s.HandleTable)
	api.GET("/page", s.HandlePage)
	api.GET("/data.xlsx", s.HandleWorkbook)
	api.GET("/snapshot.png", s.HandleSnapshot)
	api.POST("/publish", s.HandlePublish)

	e.GET("/files/*", s.HandleFileProxy)

	return e
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves HTTP on addr until the server is shut down
func (s *Server) Start(addr string) error {
	s.log.Info("Starting server", logger.Fields{"addr": addr})
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info("Server stopped gracefully")
	return nil
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
