package graph

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestBuild_SimpleDAG(t *testing.T) {
	// A -> B -> D
	// A -> C -> D
	records := []Record{
		{ID: "a", Description: "Task A", Optimistic: 1, MostLikely: 2, Pessimistic: 3},
		{ID: "b", Description: "Task B", Optimistic: 1, MostLikely: 1, Pessimistic: 1, Dependencies: []string{"a"}},
		{ID: "c", Description: "Task C", Optimistic: 1, MostLikely: 1, Pessimistic: 1, Dependencies: []string{"a"}},
		{ID: "d", Description: "Task D", Optimistic: 1, MostLikely: 1, Pessimistic: 1, Dependencies: []string{"b", "c"}},
	}

	g, err := Build(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.TaskCount() != 4 {
		t.Errorf("expected 4 tasks, got %d", g.TaskCount())
	}
	if roots := g.Roots(); !reflect.DeepEqual(roots, []string{"a"}) {
		t.Errorf("expected roots=[a], got %v", roots)
	}
	if leaves := g.Leaves(); !reflect.DeepEqual(leaves, []string{"d"}) {
		t.Errorf("expected leaves=[d], got %v", leaves)
	}
	if succ := g.Successors("a"); !reflect.DeepEqual(succ, []string{"b", "c"}) {
		t.Errorf("expected a to precede [b c], got %v", succ)
	}
	if pred := g.Predecessors("d"); !reflect.DeepEqual(pred, []string{"b", "c"}) {
		t.Errorf("expected d to follow [b c], got %v", pred)
	}
	if cycle := g.DetectCycle(); cycle != nil {
		t.Errorf("expected no cycle, got %v", cycle)
	}
}

func TestBuild_InitialisesNodes(t *testing.T) {
	g, err := Build([]Record{{ID: "x", Optimistic: 1, MostLikely: 2, Pessimistic: 7}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := g.Tasks["x"]
	if n.ExpectedTime != (1.0+4*2.0+7.0)/6 {
		t.Errorf("expected TE=%v, got %v", (1.0+4*2.0+7.0)/6, n.ExpectedTime)
	}
	if n.Variance != 1 {
		t.Errorf("expected variance 1, got %v", n.Variance)
	}
	if n.EarlyStart != 0 || n.EarlyFinish != 0 {
		t.Errorf("expected early fields at 0, got ES=%v EF=%v", n.EarlyStart, n.EarlyFinish)
	}
	if !math.IsInf(n.LateStart, 1) || !math.IsInf(n.LateFinish, 1) {
		t.Errorf("expected late fields at +Inf, got LS=%v LF=%v", n.LateStart, n.LateFinish)
	}
	if n.Slack != 0 || n.IsCritical || n.IsBottleneck {
		t.Errorf("expected zero slack and no flags, got %+v", n)
	}
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	records := []Record{
		{ID: "a"},
		{ID: "b", Dependencies: []string{"a"}},
	}
	g, err := Build(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records[1].Dependencies[0] = "zzz"
	if got := g.Tasks["b"].Dependencies[0]; got != "a" {
		t.Errorf("graph shares dependency slice with input, got %q", got)
	}
}

func TestBuild_DuplicateDependencyCollapses(t *testing.T) {
	g, err := Build([]Record{
		{ID: "a"},
		{ID: "b", Dependencies: []string{"a", "a"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if edges := g.Edges(); len(edges) != 1 {
		t.Errorf("expected 1 edge, got %v", edges)
	}
	if pred := g.Predecessors("b"); len(pred) != 1 {
		t.Errorf("expected 1 predecessor, got %v", pred)
	}
}

func TestBuild_MissingDependency(t *testing.T) {
	_, err := Build([]Record{{ID: "x", Dependencies: []string{"y"}}})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDependencyError, got %T: %v", err, err)
	}
	if missing.TaskID != "x" || missing.DependencyID != "y" {
		t.Errorf("expected x -> y, got %s -> %s", missing.TaskID, missing.DependencyID)
	}
	if !errors.Is(err, ErrMissingDependency) {
		t.Error("expected errors.Is(err, ErrMissingDependency)")
	}
	if want := `missing dependency: task "x" depends on "y", which is not a task`; err.Error() != want {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestBuild_DuplicateTask(t *testing.T) {
	_, err := Build([]Record{{ID: "a"}, {ID: "a"}})
	if !errors.Is(err, ErrDuplicateTask) {
		t.Fatalf("expected ErrDuplicateTask, got %v", err)
	}
}

func TestBuild_Empty(t *testing.T) {
	g, err := Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.TaskCount() != 0 {
		t.Errorf("expected 0 tasks, got %d", g.TaskCount())
	}
	if g.Edges() != nil {
		t.Errorf("expected no edges, got %v", g.Edges())
	}
}

func TestDetectCycle_TwoNodes(t *testing.T) {
	g, err := Build([]Record{
		{ID: "a", Dependencies: []string{"b"}},
		{ID: "b", Dependencies: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cycle := g.DetectCycle()
	if !reflect.DeepEqual(cycle, []string{"a", "b", "a"}) {
		t.Errorf("expected cycle [a b a], got %v", cycle)
	}
}

func TestDetectCycle_ThreeNodes(t *testing.T) {
	// a -> b -> c -> a, plus an acyclic tail d
	g, err := Build([]Record{
		{ID: "d"},
		{ID: "a", Dependencies: []string{"c", "d"}},
		{ID: "b", Dependencies: []string{"a"}},
		{ID: "c", Dependencies: []string{"b"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cycle := g.DetectCycle()
	if len(cycle) != 4 {
		t.Fatalf("expected a closed 3-cycle, got %v", cycle)
	}
	if cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("expected cycle to close on its first task, got %v", cycle)
	}
	// Every consecutive pair must be a real edge.
	for i := 0; i+1 < len(cycle); i++ {
		if !contains(g.Successors(cycle[i]), cycle[i+1]) {
			t.Errorf("cycle step %s -> %s is not an edge", cycle[i], cycle[i+1])
		}
	}
}

func TestDetectCycle_SelfLoop(t *testing.T) {
	g, err := Build([]Record{{ID: "a", Dependencies: []string{"a"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cycle := g.DetectCycle(); !reflect.DeepEqual(cycle, []string{"a", "a"}) {
		t.Errorf("expected cycle [a a], got %v", cycle)
	}
}

func TestEdges_Order(t *testing.T) {
	g, err := Build([]Record{
		{ID: "c", Dependencies: []string{"b", "a"}},
		{ID: "a"},
		{ID: "b", Dependencies: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Edge{{From: "b", To: "c"}, {From: "a", To: "c"}, {From: "a", To: "b"}}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected edges %v, got %v", want, got)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
