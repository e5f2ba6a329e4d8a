package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"mosjcharts/internal/charts"
	"mosjcharts/internal/config"
	"mosjcharts/internal/fetchers"
	"mosjcharts/internal/logger"
	"mosjcharts/internal/metrics"
	"mosjcharts/internal/models"
	"mosjcharts/internal/reports"
	"mosjcharts/internal/storage"
)

// renderRequest is a parameter loaded for one render endpoint
type renderRequest struct {
	output    string
	start     time.Time
	tag       language.Tag
	parameter *models.Parameter
}

func (r *renderRequest) elapsed() time.Duration {
	return time.Since(r.start)
}

// prepare reads the locale and fetches the parameter. When it returns a nil
// request the response has already been written.
func (s *Server) prepare(c echo.Context, output string) (*renderRequest, error) {
	req := &renderRequest{output: output, start: time.Now()}
	id := c.Param("id")

	tag, err := s.requestLocale(c)
	if err != nil {
		s.Metrics.RecordRender(output, metrics.StatusError, req.elapsed())
		return nil, c.JSON(http.StatusBadRequest, errorBody(fmt.Sprintf("invalid locale %q", c.QueryParam(queryLocale))))
	}
	req.tag = tag

	parameter, err := s.Source.FetchParameterWithSeries(c.Request().Context(), id)
	if err != nil {
		code, status := fetchStatus(err)
		s.log.Error("Failed to fetch parameter", err, logger.Fields{"parameter_id": id, "output": output})
		s.Metrics.RecordRender(output, status, req.elapsed())
		return nil, c.JSON(code, errorBody(fmt.Sprintf("failed to load parameter %s", id)))
	}
	req.parameter = parameter
	return req, nil
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleChart returns the chart configuration of a parameter
func (s *Server) HandleChart(c echo.Context) error {
	req, err := s.prepare(c, "chart")
	if req == nil {
		return err
	}

	result := s.Generator.Chart(req.parameter, req.tag, s.requestOverrides(c))
	s.Metrics.RecordDropped(len(result.Dropped))

	if result.Config == "" {
		s.Metrics.RecordRender(req.output, metrics.StatusEmpty, req.elapsed())
		return c.JSON(http.StatusInternalServerError, errorBody("chart could not be rendered"))
	}

	status := metrics.StatusOK
	if len(result.Dropped) > 0 {
		status = metrics.StatusPartial
		c.Response().Header().Set(headerDroppedSeries, strings.Join(result.Dropped, ","))
	}
	s.Metrics.RecordRender(req.output, status, req.elapsed())
	return c.Blob(http.StatusOK, storage.GetContentType(reports.ChartFile), []byte(result.Config))
}

// HandleTable returns the HTML data table of a parameter. With
// ?layout=parameter the series are rows and the time markers columns.
func (s *Server) HandleTable(c echo.Context) error {
	req, err := s.prepare(c, "table")
	if req == nil {
		return err
	}

	collection := s.Generator.BuildCollection(req.parameter, req.tag)
	title := s.Generator.Title(req.parameter, req.tag)

	var table string
	if c.QueryParam(queryLayout) == "parameter" {
		table = s.Generator.Serializer().ParameterTable(collection, title)
	} else {
		table = s.Generator.Serializer().Table(collection, title)
	}

	s.Metrics.RecordRender(req.output, metrics.StatusOK, req.elapsed())
	return c.HTML(http.StatusOK, table)
}

// HandlePage returns the rendered parameter page
func (s *Server) HandlePage(c echo.Context) error {
	req, err := s.prepare(c, "page")
	if req == nil {
		return err
	}

	page, err := s.Generator.Page(req.parameter, req.tag, s.requestOverrides(c))
	if err != nil {
		s.log.Error("Failed to render page", err, logger.Fields{"parameter_id": req.parameter.Record.ID})
		s.Metrics.RecordRender(req.output, metrics.StatusError, req.elapsed())
		return c.JSON(http.StatusInternalServerError, errorBody("page could not be rendered"))
	}

	s.Metrics.RecordDropped(len(page.Chart.Dropped))
	status := metrics.StatusOK
	if len(page.Chart.Dropped) > 0 {
		status = metrics.StatusPartial
		c.Response().Header().Set(headerDroppedSeries, strings.Join(page.Chart.Dropped, ","))
	}
	s.Metrics.RecordRender(req.output, status, req.elapsed())
	return c.HTML(http.StatusOK, page.HTML)
}

// HandleWorkbook returns the aligned data as an XLSX download
func (s *Server) HandleWorkbook(c echo.Context) error {
	req, err := s.prepare(c, "xlsx")
	if req == nil {
		return err
	}

	collection := s.Generator.BuildCollection(req.parameter, req.tag)
	data, err := reports.Workbook(collection, s.Generator.Title(req.parameter, req.tag))
	if err != nil {
		s.log.Error("Failed to build workbook", err, logger.Fields{"parameter_id": req.parameter.Record.ID})
		s.Metrics.RecordRender(req.output, metrics.StatusError, req.elapsed())
		return c.JSON(http.StatusInternalServerError, errorBody("workbook could not be built"))
	}

	s.Metrics.RecordRender(req.output, metrics.StatusOK, req.elapsed())
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.xlsx"`, strings.ReplaceAll(req.parameter.Record.ID, `"`, "")))
	return c.Blob(http.StatusOK, storage.GetContentType(reports.WorkbookFile), data)
}

// HandleSnapshot returns the static PNG rendition of the chart
func (s *Server) HandleSnapshot(c echo.Context) error {
	req, err := s.prepare(c, "snapshot")
	if req == nil {
		return err
	}

	collection := s.Generator.BuildCollection(req.parameter, req.tag)
	data, err := s.Generator.Serializer().Snapshot(collection, s.Generator.Title(req.parameter, req.tag))
	switch {
	case errors.Is(err, charts.ErrEmptyCollection):
		s.Metrics.RecordRender(req.output, metrics.StatusEmpty, req.elapsed())
		return c.JSON(http.StatusNotFound, errorBody("nothing to draw"))
	case err != nil:
		s.log.Error("Failed to render snapshot", err, logger.Fields{"parameter_id": req.parameter.Record.ID})
		s.Metrics.RecordRender(req.output, metrics.StatusError, req.elapsed())
		return c.JSON(http.StatusInternalServerError, errorBody("snapshot could not be rendered"))
	}

	s.Metrics.RecordRender(req.output, metrics.StatusOK, req.elapsed())
	return c.Blob(http.StatusOK, storage.GetContentType(reports.SnapshotFile), data)
}

// HandlePublish renders every output of a parameter and stores them
func (s *Server) HandlePublish(c echo.Context) error {
	start := time.Now()
	id := c.Param("id")

	if s.Storage == nil {
		return c.JSON(http.StatusServiceUnavailable, errorBody("storage is not configured"))
	}
	tag, err := s.requestLocale(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(fmt.Sprintf("invalid locale %q", c.QueryParam(queryLocale))))
	}

	files, stored, err := s.Renderer.Publish(c.Request().Context(), id, tag, s.requestOverrides(c))
	if err != nil {
		s.log.Error("Failed to publish parameter", err, logger.Fields{"parameter_id": id})
		if errors.Is(err, fetchers.ErrNotFound) {
			s.Metrics.RecordRender("publish", metrics.StatusNotFound, time.Since(start))
			return c.JSON(http.StatusNotFound, errorBody(fmt.Sprintf("parameter %s not found", id)))
		}
		s.Metrics.RecordRender("publish", metrics.StatusError, time.Since(start))
		return c.JSON(http.StatusInternalServerError, errorBody("publishing failed"))
	}

	s.Metrics.RecordDropped(len(files.Dropped))
	s.Metrics.RecordRender("publish", metrics.StatusOK, time.Since(start))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "success",
		"folder":  files.FolderPath,
		"files":   stored,
		"dropped": files.Dropped,
	})
}

// HandleFileProxy serves published files from storage
func (s *Server) HandleFileProxy(c echo.Context) error {
	if s.Storage == nil {
		return c.JSON(http.StatusServiceUnavailable, errorBody("storage is not configured"))
	}

	filePath := strings.TrimPrefix(c.Param("*"), "/")
	if filePath == "" {
		return c.JSON(http.StatusBadRequest, errorBody("file path required"))
	}
	// Prevent directory traversal
	if strings.Contains(filePath, "..") {
		return c.JSON(http.StatusBadRequest, errorBody("invalid file path"))
	}

	data, err := s.Storage.GetFile(c.Request().Context(), filePath)
	if errors.Is(err, storage.ErrNotExist) {
		return c.JSON(http.StatusNotFound, errorBody("file not found"))
	}
	if err != nil {
		s.log.Error("Failed to get file from storage", err, logger.Fields{"path": filePath})
		return c.JSON(http.StatusInternalServerError, errorBody("file could not be read"))
	}

	return c.Blob(http.StatusOK, storage.GetContentType(filePath), data)
}
