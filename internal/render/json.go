package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/joshharrison/pertgraph/internal/pert"
)

// GraphNode is one task in the JSON document.
type GraphNode struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	ExpectedTime float64  `json:"expected_time"`
	Variance     float64  `json:"variance"`
	EarlyStart   float64  `json:"early_start"`
	EarlyFinish  float64  `json:"early_finish"`
	LateStart    float64  `json:"late_start"`
	LateFinish   float64  `json:"late_finish"`
	Slack        float64  `json:"slack"`
	IsCritical   bool     `json:"is_critical"`
	IsBottleneck bool     `json:"is_bottleneck"`
	WaveIndex    int      `json:"wave_index"`
	Dependencies []string `json:"dependencies"`
}

type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type GraphMetadata struct {
	TotalTasks      int     `json:"total_tasks"`
	TotalWaves      int     `json:"total_waves"`
	ProjectVariance float64 `json:"project_variance"`
	ProjectStdDev   float64 `json:"project_std_dev"`
}

// Graph is the JSON document written by JSON.
type Graph struct {
	Nodes             []GraphNode   `json:"nodes"`
	Edges             []GraphEdge   `json:"edges"`
	CriticalPath      []string      `json:"critical_path"`
	Bottlenecks       []string      `json:"bottlenecks"`
	ProjectFinishTime float64       `json:"project_finish_time"`
	Metadata          GraphMetadata `json:"metadata"`
}

// ToGraph converts a result into the normalised document JSON writes.
func ToGraph(res *pert.Result) *Graph {
	waveOf := make(map[string]int, len(res.Tasks))
	for _, wave := range res.Waves {
		for _, id := range wave.TaskIDs {
			waveOf[id] = wave.Index
		}
	}

	nodes := make([]GraphNode, 0, len(res.Tasks))
	for _, t := range res.Tasks {
		deps := t.Dependencies
		if deps == nil {
			deps = []string{}
		}
		nodes = append(nodes, GraphNode{
			ID:           t.ID,
			Description:  t.Description,
			ExpectedTime: t.ExpectedTime,
			Variance:     t.Variance,
			EarlyStart:   t.EarlyStart,
			EarlyFinish:  t.EarlyFinish,
			LateStart:    t.LateStart,
			LateFinish:   t.LateFinish,
			Slack:        t.Slack,
			IsCritical:   t.IsCritical,
			IsBottleneck: t.IsBottleneck,
			WaveIndex:    waveOf[t.ID],
			Dependencies: deps,
		})
	}

	edges := make([]GraphEdge, 0, len(res.Edges))
	for _, e := range res.Edges {
		edges = append(edges, GraphEdge{From: e.From, To: e.To})
	}

	return &Graph{
		Nodes:             nodes,
		Edges:             edges,
		CriticalPath:      nonNil(res.CriticalPath),
		Bottlenecks:       nonNil(res.Bottlenecks),
		ProjectFinishTime: res.ProjectFinishTime,
		Metadata: GraphMetadata{
			TotalTasks:      len(res.Tasks),
			TotalWaves:      len(res.Waves),
			ProjectVariance: res.ProjectVariance,
			ProjectStdDev:   math.Sqrt(res.ProjectVariance),
		},
	}
}

// JSON writes res as an indented JSON document.
func JSON(w io.Writer, res *pert.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToGraph(res)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
