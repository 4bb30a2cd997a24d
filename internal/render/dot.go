package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/joshharrison/pertgraph/internal/pert"
)

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// DOT writes res as a Graphviz digraph. Critical tasks and the edges that
// carry the critical path are red; bottlenecks are orange.
func DOT(w io.Writer, res *pert.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph pert {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	fmt.Fprintln(bw, "  node [shape=box, style=rounded];")
	fmt.Fprintln(bw)

	byID := make(map[string]pert.Task, len(res.Tasks))
	for _, t := range res.Tasks {
		byID[t.ID] = t

		label := t.ID
		if t.Description != "" {
			label += "\n" + t.Description
		}
		label += fmt.Sprintf("\nTE=%.2f slack=%.2f", t.ExpectedTime, t.Slack)

		attrs := fmt.Sprintf(`label="%s"`, dotEscaper.Replace(label))
		switch {
		case t.IsCritical:
			attrs += `, style="rounded,bold", color=red`
		case t.IsBottleneck:
			attrs += `, style="rounded,filled", fillcolor="#FEFCBF", color=orange`
		}
		fmt.Fprintf(bw, "  \"%s\" [%s];\n", dotEscaper.Replace(t.ID), attrs)
	}

	fmt.Fprintln(bw)

	for _, e := range res.Edges {
		style := ""
		if criticalEdge(byID[e.From], byID[e.To]) {
			style = ` [color=red, penwidth=2]`
		}
		fmt.Fprintf(bw, "  \"%s\" -> \"%s\"%s;\n", dotEscaper.Replace(e.From), dotEscaper.Replace(e.To), style)
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// criticalEdge reports whether the dependency lies on a zero slack chain:
// both ends are critical and the dependent starts the moment the
// prerequisite finishes.
func criticalEdge(from, to pert.Task) bool {
	if !from.IsCritical || !to.IsCritical {
		return false
	}
	return math.Abs(from.EarlyFinish-to.EarlyStart) < 1e-9*math.Max(1, math.Abs(to.EarlyStart))
}
