package graph

// Record is a single validated task as handed to the builder.
type Record struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Optimistic   float64  `json:"optimistic_time"`
	MostLikely   float64  `json:"most_likely_time"`
	Pessimistic  float64  `json:"pessimistic_time"`
	Dependencies []string `json:"dependencies"`
}

// Node is a task inside the graph. The engine fills the computed fields in
// place while it owns the graph.
type Node struct {
	Record

	ExpectedTime float64 `json:"expected_time"`
	Variance     float64 `json:"variance"`

	EarlyStart  float64 `json:"early_start"`
	EarlyFinish float64 `json:"early_finish"`
	LateStart   float64 `json:"late_start"`
	LateFinish  float64 `json:"late_finish"`
	Slack       float64 `json:"slack"`

	IsCritical   bool `json:"is_critical"`
	IsBottleneck bool `json:"is_bottleneck"`
}

// Edge is a "must finish before" link from a prerequisite to its dependent.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TaskGraph is a directed graph of tasks.
type TaskGraph struct {
	Tasks  map[string]*Node
	Order  []string            // task IDs in input order
	Adj    map[string][]string // task -> tasks that depend on it
	RevAdj map[string][]string // task -> tasks it depends on
}
