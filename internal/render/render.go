// Package render writes a pert.Result as a draw.io diagram, a Graphviz
// digraph or a JSON document. Renderers only read the result.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshharrison/pertgraph/internal/pert"
)

// Format names an output encoding.
type Format string

const (
	FormatDrawIO Format = "drawio"
	FormatDOT    Format = "dot"
	FormatJSON   Format = "json"
)

// ParseFormat accepts a user supplied output format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drawio", "draw.io", "xml":
		return FormatDrawIO, nil
	case "dot", "graphviz":
		return FormatDOT, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported output format: %s (use drawio, dot, or json)", s)
}

// Write renders res in the given format.
func Write(w io.Writer, res *pert.Result, format Format, opts DrawIOOptions) error {
	switch format {
	case FormatDrawIO:
		return DrawIO(w, res, opts)
	case FormatDOT:
		return DOT(w, res)
	case FormatJSON:
		return JSON(w, res)
	}
	return fmt.Errorf("unsupported output format: %q", format)
}

// Extension returns the conventional file extension for format.
func (f Format) Extension() string {
	switch f {
	case FormatDrawIO:
		return ".drawio"
	case FormatDOT:
		return ".dot"
	default:
		return ".json"
	}
}
