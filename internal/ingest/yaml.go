package ingest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/joshharrison/pertgraph/internal/pert"
)

type yamlDoc struct {
	Tasks []map[string]yaml.Node `yaml:"tasks"`
}

// ParseYAML reads a document with a top-level "tasks" list. Field names match
// the CSV headers.
func ParseYAML(data []byte) ([]pert.Record, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalid("YAML parsing error: %v", err)
	}
	if len(doc.Tasks) == 0 {
		return nil, invalid("YAML input contains no tasks.")
	}

	rows := make([]rawRow, 0, len(doc.Tasks))
	for i, task := range doc.Tasks {
		fields := make(map[string]string)
		for k, n := range task {
			if n.Kind == yaml.ScalarNode && n.Tag != "!!null" {
				fields[k] = n.Value
			}
		}
		if _, ok := fields[colID]; !ok {
			if id, ok := fields["id"]; ok {
				fields[colID] = id
			}
		}

		var deps []string
		switch n := task[colDependencies]; n.Kind {
		case yaml.SequenceNode:
			for _, c := range n.Content {
				deps = append(deps, c.Value)
			}
		case yaml.ScalarNode:
			deps = splitDeps(n.Value)
		}

		pos := fmt.Sprintf("Task #%d", i+1)
		if n, ok := task[colID]; ok {
			pos = fmt.Sprintf("%s (line %d)", pos, n.Line)
		}
		rows = append(rows, rawRow{Pos: pos, Fields: fields, Deps: deps})
	}

	return validateRows(rows)
}
