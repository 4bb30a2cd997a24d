// Package ingest turns task tables (CSV, JSON or YAML) into validated
// pert.Record values. Every problem in a source is reported at once through
// a ValidationError rather than stopping at the first one.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshharrison/pertgraph/internal/ctxlog"
	"github.com/joshharrison/pertgraph/internal/pert"
)

// Format names an input encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts a user supplied format name. The empty string means
// "detect from the file extension".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format: %s (use csv, json, or yaml)", s)
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("cannot detect input format from extension %q; pass --format", filepath.Ext(path))
}

// Load reads and validates the task file at path. An empty format is
// detected from the extension.
func Load(ctx context.Context, path string, format Format) ([]pert.Record, error) {
	logger := ctxlog.FromContext(ctx)

	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	records, err := Parse(data, format)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Source = path
		}
		return nil, err
	}
	logger.Debug("loaded task file", "path", path, "format", string(format), "tasks", len(records))
	return records, nil
}

// Parse validates data in the given format.
func Parse(data []byte, format Format) ([]pert.Record, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(bytes.NewReader(data))
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	}
	return nil, fmt.Errorf("unsupported format: %q", format)
}
