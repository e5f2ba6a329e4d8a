package storage

import (
	"fmt"
	"path"
	"strings"
)

// RenderFolderPath generates a consistent folder path for the rendered outputs of a parameter
// Format: parameters/<parameterID>/<locale>
func RenderFolderPath(parameterID, locale string) string {
	id := strings.Trim(strings.ReplaceAll(parameterID, "/", "-"), ". ")
	if id == "" {
		id = "unknown"
	}
	if locale == "" {
		locale = "en"
	}
	return fmt.Sprintf("parameters/%s/%s", id, strings.ToLower(locale))
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".js":
		return "application/javascript"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".png":
		return "image/png"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
