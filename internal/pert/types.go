package pert

import "github.com/joshharrison/pertgraph/internal/graph"

const (
	// SlackPrecision is the number of decimal places slack is rounded to
	// before classification.
	SlackPrecision = 5

	// BottleneckThreshold is the largest positive slack still counted as a
	// bottleneck.
	BottleneckThreshold = 1.0
)

// Record is a validated input task.
type Record = graph.Record

// Task is a fully annotated task in a Result.
type Task = graph.Node

// Edge is a (prerequisite, dependent) pair.
type Edge = graph.Edge

// Result holds the complete PERT analysis of one project.
type Result struct {
	Tasks             []Task   `json:"tasks"`         // input order
	CriticalPath      []string `json:"critical_path"` // critical task IDs, input order
	Bottlenecks       []string `json:"bottlenecks"`
	ProjectFinishTime float64  `json:"project_finish_time"`
	ProjectVariance   float64  `json:"project_variance"` // sum of critical task variances
	Edges             []Edge   `json:"edges"`
	TopoOrder         []string `json:"topo_order"`
	Waves             []Wave   `json:"waves"` // tasks that can start together
}

// Wave represents a group of tasks sharing the same early start.
type Wave struct {
	Index      int      `json:"index"`
	EarlyStart float64  `json:"early_start"`
	TaskIDs    []string `json:"task_ids"`
	IsCritical bool     `json:"is_critical"` // true if wave contains critical path tasks
}

// Task returns the annotated task with the given ID.
func (r *Result) Task(id string) (Task, bool) {
	for _, t := range r.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
