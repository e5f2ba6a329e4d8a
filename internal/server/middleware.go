package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/labstack/echo/v4"

	"mosjcharts/internal/logger"
)

// RequestLogging logs HTTP requests
func RequestLogging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			log.Info("HTTP request", logger.Fields{
				"method":     req.Method,
				"uri":        req.RequestURI,
				"route":      c.Path(),
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"bytes":      c.Response().Size,
			})
			return nil
		}
	}
}

// Recover turns handler panics into 500 responses
func Recover(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					log.Error("Handler panicked", err, logger.Fields{"stack": string(debug.Stack())})
					_ = c.JSON(http.StatusInternalServerError, errorBody("Internal Server Error"))
				}
			}()
			return next(c)
		}
	}
}
