package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintLogo renders the colored pertgraph banner.
func PrintLogo(w io.Writer) {
	frame := color.New(color.FgCyan)
	node := color.New(color.FgYellow)
	path := color.New(color.FgRed)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +------------------------------+")
	node.Fprintln(w, "   |   [ ]---[ ]        [ ]       |")
	path.Fprintln(w, "   |  [S]=====[ ]=====[ ]====[F]  |")
	node.Fprintln(w, "   |        [ ]------[ ]          |")
	frame.Fprintln(w, "   |==============================|")
	brand.Fprintln(w, "   |   P  E  R  T  G  R  A  P  H  |")
	frame.Fprintln(w, "   +------------------------------+")
	tag.Fprintln(w, "   Three-point estimates, critical paths")
	fmt.Fprintln(w)
}

// fileColors is a palette of distinct bold colors for differentiating input
// files in multi-file output.
var fileColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

func fileColorIndex(name string) int {
	var h uint32
	for _, c := range name {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(fileColors)))
}

// FilePrefix returns a colored [name] prefix. The same name always gets the
// same color.
func FilePrefix(name string) string {
	c := fileColors[fileColorIndex(name)]
	return Dim("[") + c(name) + Dim("]")
}

// ClassIcon returns a colored icon for a task's schedule class.
func ClassIcon(critical, bottleneck bool) string {
	switch {
	case critical:
		return BoldRed("⚡")
	case bottleneck:
		return Yellow("⚠")
	default:
		return Green("●")
	}
}

// WaveLabel returns a colored label for a wave of tasks.
func WaveLabel(critical bool) string {
	if critical {
		return BoldRed("critical")
	}
	return Dim("slack")
}
