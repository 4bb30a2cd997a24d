package pert

import (
	"fmt"
	"math"
	"sort"

	"github.com/joshharrison/pertgraph/internal/graph"
)

// Compute builds the dependency graph for records and runs the full PERT
// analysis on it. On error the result is always nil.
func Compute(records []Record) (*Result, error) {
	g, err := graph.Build(records)
	if err != nil {
		return nil, err
	}
	return Analyze(g)
}

// Analyze performs PERT/CPM analysis on a freshly built task graph. The
// graph's nodes are annotated in place; the result holds copies of them.
func Analyze(g *graph.TaskGraph) (*Result, error) {
	if err := checkStructure(g); err != nil {
		return nil, err
	}
	if err := checkEstimates(g); err != nil {
		return nil, err
	}

	if cycle := g.DetectCycle(); cycle != nil {
		return nil, &CyclicDependencyError{Cycle: cycle}
	}

	order, err := topoSort(g)
	if err != nil {
		return nil, err
	}

	// Forward pass: compute ES and EF
	for _, id := range order {
		n := g.Tasks[id]
		// ES = max(EF of all predecessors)
		es := 0.0
		for _, pred := range g.RevAdj[id] {
			if ef := g.Tasks[pred].EarlyFinish; ef > es {
				es = ef
			}
		}
		n.EarlyStart = es
		n.EarlyFinish = es + n.ExpectedTime
		if math.IsInf(n.EarlyFinish, 0) {
			return nil, &InvalidEstimateError{TaskID: id, Field: "expected_time", Value: n.ExpectedTime,
				Msg: fmt.Sprintf("(%v) pushes the early finish past the largest representable time", n.ExpectedTime)}
		}
	}

	finish := 0.0
	for _, id := range g.Order {
		if ef := g.Tasks[id].EarlyFinish; ef > finish {
			finish = ef
		}
	}

	// Backward pass: compute LS and LF in reverse topological order
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n := g.Tasks[id]

		succs := g.Adj[id]
		if len(succs) == 0 {
			n.LateFinish = finish
		} else {
			// LF = min(LS of all successors)
			lf := math.Inf(1)
			for _, succ := range succs {
				if ls := g.Tasks[succ].LateStart; ls < lf {
					lf = ls
				}
			}
			n.LateFinish = lf
		}
		n.LateStart = n.LateFinish - n.ExpectedTime
	}

	for _, id := range g.Order {
		classify(g.Tasks[id])
	}

	return assemble(g, order, finish)
}

// classify rounds slack and sets the critical and bottleneck flags.
// The two flags are mutually exclusive.
func classify(n *graph.Node) {
	n.Slack = round(n.LateStart - n.EarlyStart)
	n.IsCritical = n.Slack == 0
	n.IsBottleneck = !n.IsCritical && n.Slack > 0 && n.Slack <= BottleneckThreshold
}

// round rounds v to SlackPrecision decimal places and normalises -0 to 0.
func round(v float64) float64 {
	p := math.Pow10(SlackPrecision)
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}

func assemble(g *graph.TaskGraph, order []string, finish float64) (*Result, error) {
	result := &Result{
		Tasks:             make([]Task, 0, len(g.Order)),
		ProjectFinishTime: finish,
		Edges:             g.Edges(),
		TopoOrder:         order,
	}

	var unset []string
	for _, id := range g.Order {
		t := *g.Tasks[id]
		t.Dependencies = append([]string(nil), t.Dependencies...)

		if !finite(t.EarlyStart, t.EarlyFinish, t.LateStart, t.LateFinish) {
			unset = append(unset, id)
		}
		if t.IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
			result.ProjectVariance += t.Variance
		}
		if t.IsBottleneck {
			result.Bottlenecks = append(result.Bottlenecks, id)
		}
		result.Tasks = append(result.Tasks, t)
	}
	if len(unset) > 0 {
		return nil, &GraphConsistencyError{Unplaced: unset, Msg: "tasks left without finite times"}
	}

	result.Waves = computeWaves(result)
	return result, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// checkStructure makes sure every ID the graph refers to is a node, so the
// passes never dereference a task that does not exist.
func checkStructure(g *graph.TaskGraph) error {
	if g == nil {
		return &GraphConsistencyError{Msg: "nil task graph"}
	}
	if len(g.Order) != len(g.Tasks) {
		return &GraphConsistencyError{
			Unplaced: unordered(g),
			Msg:      fmt.Sprintf("%d tasks indexed but %d ordered", len(g.Tasks), len(g.Order)),
		}
	}

	ordered := make(map[string]bool, len(g.Order))
	for _, id := range g.Order {
		if ordered[id] {
			return &GraphConsistencyError{Unplaced: unordered(g), Msg: fmt.Sprintf("task %q ordered twice", id)}
		}
		ordered[id] = true
	}

	var unknown []string
	seen := make(map[string]bool)
	note := func(id string) {
		if n, ok := g.Tasks[id]; (!ok || n == nil) && !seen[id] {
			seen[id] = true
			unknown = append(unknown, id)
		}
	}
	for _, id := range g.Order {
		note(id)
		for _, succ := range g.Adj[id] {
			note(succ)
		}
		for _, pred := range g.RevAdj[id] {
			note(pred)
		}
	}
	if len(unknown) > 0 {
		return &GraphConsistencyError{Unplaced: unknown, Msg: "graph refers to unknown or nil tasks"}
	}
	return nil
}

// unordered lists indexed tasks missing from g.Order, sorted for stable output.
func unordered(g *graph.TaskGraph) []string {
	inOrder := make(map[string]bool, len(g.Order))
	for _, id := range g.Order {
		inOrder[id] = true
	}
	var ids []string
	for id := range g.Tasks {
		if !inOrder[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func checkEstimates(g *graph.TaskGraph) error {
	for _, id := range g.Order {
		n := g.Tasks[id]
		fields := []struct {
			name  string
			value float64
		}{
			{"optimistic_time", n.Optimistic},
			{"most_likely_time", n.MostLikely},
			{"pessimistic_time", n.Pessimistic},
		}
		for _, f := range fields {
			switch {
			case math.IsNaN(f.value) || math.IsInf(f.value, 0):
				return &InvalidEstimateError{TaskID: id, Field: f.name, Value: f.value, Msg: fmt.Sprintf("is not a finite number (%v)", f.value)}
			case f.value < 0:
				return &InvalidEstimateError{TaskID: id, Field: f.name, Value: f.value, Msg: fmt.Sprintf("must not be negative (%v)", f.value)}
			}
		}
		if n.Optimistic > n.MostLikely {
			return &InvalidEstimateError{TaskID: id, Field: "optimistic_time", Value: n.Optimistic,
				Msg: fmt.Sprintf("(%v) is greater than most_likely_time (%v)", n.Optimistic, n.MostLikely)}
		}
		if n.MostLikely > n.Pessimistic {
			return &InvalidEstimateError{TaskID: id, Field: "most_likely_time", Value: n.MostLikely,
				Msg: fmt.Sprintf("(%v) is greater than pessimistic_time (%v)", n.MostLikely, n.Pessimistic)}
		}

		// Each estimate can be finite while the derived values overflow.
		te := (n.Optimistic + 4*n.MostLikely + n.Pessimistic) / 6
		if math.IsInf(te, 0) || math.IsInf(n.ExpectedTime, 0) || math.IsNaN(n.ExpectedTime) {
			return &InvalidEstimateError{TaskID: id, Field: "expected_time", Value: te,
				Msg: "overflows for the given estimates"}
		}
		spread := (n.Pessimistic - n.Optimistic) / 6
		if v := spread * spread; math.IsInf(v, 0) || math.IsInf(n.Variance, 0) || math.IsNaN(n.Variance) {
			return &InvalidEstimateError{TaskID: id, Field: "variance", Value: v,
				Msg: "overflows for the given estimates"}
		}
	}
	return nil
}

// topoSort performs Kahn's algorithm. Roots are seeded in input order and
// newly ready tasks are queued in edge order, so the result is deterministic.
func topoSort(g *graph.TaskGraph) ([]string, error) {
	inDegree := make(map[string]int, len(g.Order))
	for _, id := range g.Order {
		inDegree[id] = len(g.RevAdj[id])
	}

	var queue []string
	for _, id := range g.Order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.Order))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, succ := range g.Adj[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != len(g.Tasks) {
		placed := make(map[string]bool, len(order))
		for _, id := range order {
			placed[id] = true
		}
		var unplaced []string
		for _, id := range g.Order {
			if !placed[id] {
				unplaced = append(unplaced, id)
			}
		}
		return nil, &GraphConsistencyError{
			Unplaced: unplaced,
			Msg:      fmt.Sprintf("topological sort placed %d of %d tasks", len(order), len(g.Tasks)),
		}
	}

	return order, nil
}

// computeWaves groups tasks by their earliest start time.
func computeWaves(result *Result) []Wave {
	esGroups := make(map[float64][]int)
	for i, t := range result.Tasks {
		es := round(t.EarlyStart)
		esGroups[es] = append(esGroups[es], i)
	}

	esValues := make([]float64, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	sort.Float64s(esValues)

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		members := esGroups[es]

		// Critical tasks first, otherwise input order
		sort.SliceStable(members, func(a, b int) bool {
			return result.Tasks[members[a]].IsCritical && !result.Tasks[members[b]].IsCritical
		})

		w := Wave{Index: i, EarlyStart: es}
		for _, idx := range members {
			t := result.Tasks[idx]
			w.TaskIDs = append(w.TaskIDs, t.ID)
			if t.IsCritical {
				w.IsCritical = true
			}
		}
		waves[i] = w
	}

	return waves
}
