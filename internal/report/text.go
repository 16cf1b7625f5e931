package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tildaslashalef/prreview/internal/review"
	"github.com/tildaslashalef/prreview/internal/utils"
)

const defaultWrapWidth = 80

var (
	blockingBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fbf1c7")).
			Background(lipgloss.Color("#cc241d")).
			Padding(0, 1)
	passingBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#282828")).
			Background(lipgloss.Color("#b8bb26")).
			Padding(0, 1)
)

// TextWriter renders a report for a terminal
type TextWriter struct {
	Color     bool
	WrapWidth int
}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	width := t.WrapWidth
	if width <= 0 {
		width = defaultWrapWidth
	}

	heading := color.New(color.FgCyan, color.Bold)
	subtle := color.New(color.FgHiBlack)
	if !t.Color {
		heading.DisableColor()
		subtle.DisableColor()
	}

	fmt.Fprintf(w, "%s %s\n", heading.Sprint("prreview"), t.badge(report))
	fmt.Fprintln(w, subtle.Sprintf("source: %s  run: %s  files: %d  time: %dms",
		report.Source, report.RunID, len(report.Files), report.Timing.DurationMs))
	fmt.Fprintln(w)

	if !report.HasFindings() {
		fmt.Fprintln(w, NoIssuesMessage)
	} else {
		t.writeSummary(w, report)
		fmt.Fprintln(w)
		t.writeFindings(w, report, width)
	}

	if len(report.Diagnostics) > 0 {
		fmt.Fprintln(w)
		warn := color.New(color.FgYellow)
		if !t.Color {
			warn.DisableColor()
		}
		for _, d := range report.Diagnostics {
			fmt.Fprintln(w, warn.Sprintf("skipped %s (%s): %s", d.File, d.Kind, d.Message))
		}
	}

	if recs := report.Recommendations(); len(recs) > 0 {
		rendered, err := t.renderMarkdown("## Recommendations\n\n- "+strings.Join(recs, "\n- ")+"\n", width)
		if err != nil {
			return fmt.Errorf("rendering recommendations: %w", err)
		}
		fmt.Fprint(w, rendered)
	}

	return nil
}

func (t *TextWriter) badge(report *Report) string {
	label := "PASS"
	style := passingBadge
	if report.Blocking {
		label = "BLOCKING"
		style = blockingBadge
	}
	if !t.Color {
		return "[" + label + "]"
	}
	return style.Render(label)
}

func (t *TextWriter) writeSummary(w io.Writer, report *Report) {
	tw := utils.CreateTable(w, utils.TableOptions{Plain: !t.Color})
	tw.AppendHeader(table.Row{"Severity", "Count"})
	for _, sev := range review.Severities() {
		tw.AppendRow(table.Row{t.severity(sev), strconv.Itoa(report.Counts[sev])})
	}
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(report.Counts.Total())})
	tw.Render()
}

func (t *TextWriter) writeFindings(w io.Writer, report *Report, width int) {
	tw := utils.CreateTable(w, utils.TableOptions{Title: "Findings", Plain: !t.Color})
	tw.AppendHeader(table.Row{"Severity", "Location", "Rule", "Message"})

	messageWidth := width / 2
	for _, f := range report.Findings {
		tw.AppendRow(table.Row{
			t.severity(f.Severity),
			f.Location(),
			f.Rule,
			wordwrap.String(f.Message, messageWidth),
		})
	}
	tw.Render()
}

func (t *TextWriter) severity(s review.Severity) string {
	if !t.Color {
		return string(s)
	}
	return utils.SeverityColors(s).Sprint(string(s))
}

func (t *TextWriter) renderMarkdown(md string, width int) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if t.Color {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
