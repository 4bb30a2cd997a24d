package ingest

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/joshharrison/pertgraph/internal/pert"
)

// Column names shared by every input format.
const (
	colID           = "task_id"
	colDescription  = "description"
	colOptimistic   = "optimistic_time"
	colMostLikely   = "most_likely_time"
	colPessimistic  = "pessimistic_time"
	colDependencies = "dependencies"
)

var requiredColumns = []string{colID, colDescription, colOptimistic, colMostLikely, colPessimistic, colDependencies}

// rawRow is one task as read from a source, before any type conversion.
type rawRow struct {
	Pos    string            // "Row 3", "Task #2"
	Fields map[string]string // scalar columns as text
	Deps   []string
}

type estimates struct {
	Optimistic  float64 `name:"optimistic_time" validate:"gte=0,ltefield=MostLikely"`
	MostLikely  float64 `name:"most_likely_time" validate:"gte=0,ltefield=Pessimistic"`
	Pessimistic float64 `name:"pessimistic_time" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("name")
	})
	return v
}

// validateRows converts raw rows into records. All problems are collected;
// dangling dependencies are only checked once every row is otherwise valid.
func validateRows(rows []rawRow) ([]pert.Record, error) {
	var (
		problems  []string
		records   []pert.Record
		positions []string
	)
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		id := strings.TrimSpace(row.Fields[colID])
		if id == "" {
			problems = append(problems, fmt.Sprintf("%s: 'task_id' is missing or empty.", row.Pos))
			continue
		}
		if seen[id] {
			problems = append(problems, fmt.Sprintf("%s: Duplicate 'task_id' found: '%s'.", row.Pos, id))
		}
		seen[id] = true

		label := fmt.Sprintf("%s (Task %s)", row.Pos, id)
		est, estProblems := parseEstimates(label, row.Fields)
		problems = append(problems, estProblems...)

		records = append(records, pert.Record{
			ID:           id,
			Description:  strings.TrimSpace(row.Fields[colDescription]),
			Optimistic:   est.Optimistic,
			MostLikely:   est.MostLikely,
			Pessimistic:  est.Pessimistic,
			Dependencies: cleanDeps(row.Deps),
		})
		positions = append(positions, row.Pos)
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	for i, rec := range records {
		for _, dep := range rec.Dependencies {
			if !seen[dep] {
				problems = append(problems, fmt.Sprintf("Task '%s' (%s): Dependency '%s' does not match any existing 'task_id'.", rec.ID, positions[i], dep))
			}
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	return records, nil
}

func parseEstimates(label string, fields map[string]string) (estimates, []string) {
	var (
		est      estimates
		problems []string
	)
	targets := []struct {
		col string
		dst *float64
	}{
		{colOptimistic, &est.Optimistic},
		{colMostLikely, &est.MostLikely},
		{colPessimistic, &est.Pessimistic},
	}
	for _, t := range targets {
		raw := strings.TrimSpace(fields[t.col])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Sprintf("%s: '%s' must be a non-negative number. Found: '%s'.", label, t.col, raw))
			continue
		}
		*t.dst = v
	}
	if len(problems) > 0 {
		return est, problems
	}

	err := validate.Struct(est)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return est, nil
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "gte":
			problems = append(problems, fmt.Sprintf("%s: '%s' must be a non-negative number. Found: '%v'.", label, fe.Field(), fe.Value()))
		case "ltefield":
			other, otherValue := fieldByParam(est, fe.Param())
			problems = append(problems, fmt.Sprintf("%s: '%s' (%v) cannot be greater than '%s' (%v).", label, fe.Field(), fe.Value(), other, otherValue))
		default:
			problems = append(problems, fmt.Sprintf("%s: '%s' failed %s.", label, fe.Field(), fe.Tag()))
		}
	}
	return est, problems
}

func fieldByParam(est estimates, param string) (string, float64) {
	switch param {
	case "MostLikely":
		return colMostLikely, est.MostLikely
	case "Pessimistic":
		return colPessimistic, est.Pessimistic
	default:
		return param, 0
	}
}

// splitDeps splits a comma separated dependency cell.
func splitDeps(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func cleanDeps(deps []string) []string {
	var out []string
	for _, d := range deps {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
