package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joshharrison/pertgraph/internal/pert"
)

// ParseCSV reads a task table with a header row. Row numbers in problems are
// file line numbers, so the first data row is usually "Row 2".
func ParseCSV(r io.Reader) ([]pert.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, invalid("CSV file is empty or contains only headers.")
	}
	if err != nil {
		return nil, invalid("CSV parsing error: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var problems []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			problems = append(problems, fmt.Sprintf("Missing required CSV header: '%s'.", col))
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	var rows []rawRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalid("CSV parsing error: %v", err)
		}
		if blank(rec) {
			continue
		}

		line, _ := cr.FieldPos(0)
		fields := make(map[string]string, len(index))
		for col, i := range index {
			if i < len(rec) {
				fields[col] = rec[i]
			}
		}
		rows = append(rows, rawRow{
			Pos:    fmt.Sprintf("Row %d", line),
			Fields: fields,
			Deps:   splitDeps(fields[colDependencies]),
		})
	}

	if len(rows) == 0 {
		return nil, invalid("CSV file is empty or contains only headers.")
	}
	return validateRows(rows)
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
