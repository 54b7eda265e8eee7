package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tverkroost/envcheck/pkg/probes"
	"github.com/tverkroost/envcheck/pkg/runner"
)

const (
	tableWidth    = 50
	nameWidth     = 22
	statusWidth   = 10
	maxDetailCell = 40
)

const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[92m"
	colorYellow = "\033[93m"
	colorRed    = "\033[91m"
)

var statusIcons = map[probes.Status]string{
	probes.StatusOK:       "✓",
	probes.StatusDegraded: "!",
	probes.StatusFail:     "✗",
	probes.StatusSkipped:  "-",
}

var statusColors = map[probes.Status]string{
	probes.StatusOK:       colorGreen,
	probes.StatusDegraded: colorYellow,
	probes.StatusFail:     colorRed,
	probes.StatusSkipped:  colorYellow,
}

// Printer renders run reports as fixed-width text tables. Given the same
// report twice the output is byte-identical: column widths are constants
// and rows keep the report's order.
type Printer struct {
	out   io.Writer
	color bool
}

// New creates a Printer writing to out. Color is opt-in so piped and
// tested output stays plain.
func New(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// Table renders the report under the given title, one row per result,
// followed by the overall verdict line.
func (p *Printer) Table(title string, rep runner.Report) {
	fmt.Fprintf(p.out, "\n%s\n", p.paint(colorBold, title))
	fmt.Fprintln(p.out, strings.Repeat("=", tableWidth))
	fmt.Fprintf(p.out, "%-*s %-*s %s\n", nameWidth, "Component", statusWidth, "Status", "Details")
	fmt.Fprintln(p.out, strings.Repeat("-", tableWidth))

	for _, res := range rep.Results {
		statusCell := fmt.Sprintf("%-*s", statusWidth, statusIcons[res.Status]+" "+string(res.Status))
		fmt.Fprintf(p.out, "%-*s %s %s\n",
			nameWidth, probes.Truncate(res.Name, nameWidth),
			p.paint(statusColors[res.Status], statusCell),
			probes.Truncate(res.Detail, maxDetailCell))
	}

	fmt.Fprintln(p.out, strings.Repeat("-", tableWidth))
	fmt.Fprintln(p.out, p.paint(verdictColor(rep.Overall)+colorBold, overallLine(rep)))
}

// Summary appends the pass counts and total duration of a smoke run.
func (p *Printer) Summary(rep runner.Report) {
	passed := 0
	var total time.Duration
	for _, res := range rep.Results {
		if res.Status == probes.StatusOK {
			passed++
		}
		total += res.Duration
	}

	pct := 0.0
	if len(rep.Results) > 0 {
		pct = float64(passed) / float64(len(rep.Results)) * 100
	}

	line := fmt.Sprintf("Summary: %d/%d passed (%.0f%%)", passed, len(rep.Results), pct)
	color := colorRed
	switch {
	case passed == len(rep.Results):
		color = colorGreen
	case passed > 0:
		color = colorYellow
	}
	fmt.Fprintln(p.out, p.paint(color+colorBold, line))
	fmt.Fprintf(p.out, "Total time: %.1fs\n", total.Seconds())
}

// JSON renders the report as indented JSON, the machine-readable
// alternative to the table.
func (p *Printer) JSON(rep runner.Report) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// overallLine renders the verdict with its failure or warning count.
func overallLine(rep runner.Report) string {
	fails, warns := 0, 0
	for _, res := range rep.Results {
		switch res.Status {
		case probes.StatusFail:
			fails++
		case probes.StatusDegraded, probes.StatusSkipped:
			warns++
		}
	}

	switch rep.Overall {
	case runner.VerdictUnhealthy:
		return fmt.Sprintf("Overall: %s (%d failures)", rep.Overall, fails)
	case runner.VerdictDegraded:
		return fmt.Sprintf("Overall: %s (%d warnings)", rep.Overall, warns)
	default:
		return fmt.Sprintf("Overall: %s", rep.Overall)
	}
}

func verdictColor(v runner.Verdict) string {
	switch v {
	case runner.VerdictHealthy:
		return colorGreen
	case runner.VerdictDegraded:
		return colorYellow
	default:
		return colorRed
	}
}

// paint wraps s in the ANSI sequence when color is enabled. Padding is
// applied before painting so escape codes never skew column widths.
func (p *Printer) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + colorReset
}
