package framework

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PrintSummary renders a human-readable recap of a run. Callers point it at
// stderr so the protocol stream on stdout stays machine-parseable.
func PrintSummary(w io.Writer, results Results) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("tapdance run %s (%s)", results.RunID, results.Duration.Round(time.Millisecond)))

	t.AppendHeader(table.Row{"#", "Test", "Status", "Duration", "Reason"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Test", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
	})

	for _, res := range results.Tests {
		status := color.GreenString("PASS")
		reason := ""
		if !res.Outcome.Passed() {
			status = color.RedString("FAIL")
			reason = res.Outcome.Reason()
		}
		t.AppendRow(table.Row{
			res.Index,
			res.Description,
			status,
			res.Outcome.Duration.Round(time.Millisecond),
			reason,
		})
	}

	passed := len(results.Tests) - len(results.Failures)
	verdict := color.GreenString("%d passed", passed)
	if len(results.Failures) > 0 {
		verdict = fmt.Sprintf("%s, %s", verdict, color.RedString("%d failed", len(results.Failures)))
	}
	t.AppendFooter(table.Row{"", verdict, "", "", ""})

	t.Render()
}
