package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/joshharrison/pertgraph/internal/pert"
	"github.com/joshharrison/pertgraph/internal/ui"
)

// Reporter formats a PERT analysis for the terminal.
type Reporter struct {
	Source string // file the tasks were loaded from
	Result *pert.Result
}

// New creates a new Reporter.
func New(source string, res *pert.Result) *Reporter {
	return &Reporter{Source: source, Result: res}
}

// StdDev is the standard deviation of the project finish time.
func (r *Reporter) StdDev() float64 {
	return math.Sqrt(r.Result.ProjectVariance)
}

// PrintSummary writes the full analysis: a header with totals, one block per
// wave of tasks sharing an early start, and a footer with the critical path
// and bottlenecks.
func (r *Reporter) PrintSummary(w io.Writer) {
	res := r.Result

	fmt.Fprintf(w, "\n📐 %s %s\n", ui.BoldCyan("PERT Analysis"), ui.Dim(r.Source))
	fmt.Fprintf(w, "%s\n", ui.Cyan("══════════════════════════"))
	fmt.Fprintf(w, "Finish:    %s %s\n", ui.Bold(fmt.Sprintf("%.2f", res.ProjectFinishTime)), ui.Dim(fmt.Sprintf("(σ %.2f)", r.StdDev())))
	fmt.Fprintf(w, "Waves:     %d\n", len(res.Waves))
	fmt.Fprintf(w, "Tasks:     %d total, %s, %s\n\n",
		len(res.Tasks),
		ui.Red(fmt.Sprintf("%d critical", len(res.CriticalPath))),
		ui.Yellow(fmt.Sprintf("%d bottleneck", len(res.Bottlenecks))))

	byID := make(map[string]pert.Task, len(res.Tasks))
	for _, t := range res.Tasks {
		byID[t.ID] = t
	}

	for _, wave := range res.Waves {
		fmt.Fprintf(w, "  🌊 %s %d  %s  %s\n",
			ui.BoldWhite("Wave"), wave.Index+1,
			ui.Dim(fmt.Sprintf("ES %.2f", wave.EarlyStart)),
			ui.WaveLabel(wave.IsCritical))
		for _, id := range wave.TaskIDs {
			if t, ok := byID[id]; ok {
				printTask(w, t)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", ui.Cyan("──────────────────────────"))
	if len(res.CriticalPath) > 0 {
		fmt.Fprintf(w, "Critical:  %s\n", ui.BoldRed("⚡ "+strings.Join(res.CriticalPath, " → ")))
	}
	if len(res.Bottlenecks) > 0 {
		fmt.Fprintf(w, "Watch:     %s\n", ui.Yellow("⚠ "+strings.Join(res.Bottlenecks, ", ")))
	}
}

func printTask(w io.Writer, t pert.Task) {
	desc := truncate(t.Description, 40)

	slack := ui.Dim(fmt.Sprintf("slack %.2f", t.Slack))
	if t.IsBottleneck {
		slack = ui.Yellow(fmt.Sprintf("slack %.2f", t.Slack))
	}

	fmt.Fprintf(w, "    %s %-8s %-40s %s  %s\n",
		ui.ClassIcon(t.IsCritical, t.IsBottleneck),
		ui.BoldMagenta(t.ID), desc,
		ui.Dim(fmt.Sprintf("[%.2f → %.2f]", t.EarlyStart, t.EarlyFinish)),
		slack)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Summary returns a one line digest, used when several files are analysed.
func (r *Reporter) Summary() string {
	res := r.Result
	return fmt.Sprintf("%s finish %s (σ %.2f), %d tasks, %s, %s",
		ui.FilePrefix(r.Source),
		ui.Bold(fmt.Sprintf("%.2f", res.ProjectFinishTime)), r.StdDev(),
		len(res.Tasks),
		ui.Red(fmt.Sprintf("%d critical", len(res.CriticalPath))),
		ui.Yellow(fmt.Sprintf("%d bottleneck", len(res.Bottlenecks))))
}

// Output is the machine readable form of one analysis.
type Output struct {
	Source            string      `json:"source"`
	ProjectFinishTime float64     `json:"project_finish_time"`
	ProjectVariance   float64     `json:"project_variance"`
	ProjectStdDev     float64     `json:"project_std_dev"`
	CriticalPath      []string    `json:"critical_path"`
	Bottlenecks       []string    `json:"bottlenecks"`
	Waves             []pert.Wave `json:"waves"`
	Tasks             []pert.Task `json:"tasks"`
}

// Output returns the analysis in its machine readable form.
func (r *Reporter) Output() Output {
	res := r.Result
	return Output{
		Source:            r.Source,
		ProjectFinishTime: res.ProjectFinishTime,
		ProjectVariance:   res.ProjectVariance,
		ProjectStdDev:     r.StdDev(),
		CriticalPath:      nonNil(res.CriticalPath),
		Bottlenecks:       nonNil(res.Bottlenecks),
		Waves:             res.Waves,
		Tasks:             res.Tasks,
	}
}

// JSON returns the machine readable analysis.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Output(), "", "  ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
