package ingest

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/joshharrison/pertgraph/internal/pert"
)

// ParseJSON reads either a bare array of tasks or an object holding a
// "tasks" array. Estimates may be numbers or numeric strings; dependencies
// may be an array of IDs or a comma separated string.
func ParseJSON(data []byte) ([]pert.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, invalid("JSON parsing error: input is not valid JSON.")
	}

	list := gjson.ParseBytes(data)
	if list.IsObject() {
		list = list.Get("tasks")
	}
	if !list.IsArray() {
		return nil, invalid("JSON input must be an array of tasks or an object with a 'tasks' array.")
	}

	var rows []rawRow
	n := 0
	list.ForEach(func(_, item gjson.Result) bool {
		n++
		fields := make(map[string]string)
		for _, col := range []string{colID, colDescription, colOptimistic, colMostLikely, colPessimistic} {
			if v := item.Get(col); v.Exists() && v.Type != gjson.Null {
				fields[col] = v.String()
			}
		}
		if _, ok := fields[colID]; !ok {
			if v := item.Get("id"); v.Exists() {
				fields[colID] = v.String()
			}
		}

		var deps []string
		if d := item.Get(colDependencies); d.IsArray() {
			d.ForEach(func(_, dep gjson.Result) bool {
				deps = append(deps, dep.String())
				return true
			})
		} else {
			deps = splitDeps(d.String())
		}

		rows = append(rows, rawRow{Pos: fmt.Sprintf("Task #%d", n), Fields: fields, Deps: deps})
		return true
	})

	if len(rows) == 0 {
		return nil, invalid("JSON input contains no tasks.")
	}
	return validateRows(rows)
}
