package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"mosjcharts/internal/fetchers"
	"mosjcharts/internal/metrics"
	"mosjcharts/internal/overrides"
)

// Query parameters understood by the render endpoints
const (
	queryLocale    = "locale"
	queryOverrides = "overrides"
	queryLayout    = "layout"
)

// headerDroppedSeries lists the ids of series left out of a chart
const headerDroppedSeries = "X-Mosj-Dropped-Series"

func errorBody(message string) map[string]interface{} {
	return map[string]interface{}{"error": message}
}

// requestLocale reads ?locale=, falling back to the configured default
func (s *Server) requestLocale(c echo.Context) (language.Tag, error) {
	raw := strings.TrimSpace(c.QueryParam(queryLocale))
	if raw == "" {
		return s.DefaultLocale, nil
	}
	return language.Parse(raw)
}

// requestOverrides reads ?overrides= as JSON or YAML text
func (s *Server) requestOverrides(c echo.Context) *overrides.Overrides {
	return overrides.Parse(c.QueryParam(queryOverrides), s.log)
}

// fetchStatus maps a fetch error to an HTTP status and a render outcome
func fetchStatus(err error) (int, string) {
	switch {
	case errors.Is(err, fetchers.ErrNotFound):
		return http.StatusNotFound, metrics.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, metrics.StatusError
	default:
		return http.StatusBadGateway, metrics.StatusError
	}
}
