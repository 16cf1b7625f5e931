package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tildaslashalef/prreview/internal/review"
)

// NoIssuesMessage is the whole markdown report of a clean run
const NoIssuesMessage = "No issues found in the pull request."

// MarkdownWriter outputs a report suited for a pull request comment
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	_, err := io.WriteString(w, Markdown(report))
	return err
}

// Markdown renders the report as markdown
func Markdown(report *Report) string {
	var b strings.Builder

	if !report.HasFindings() {
		b.WriteString(NoIssuesMessage + "\n")
		writeSkipped(&b, report)
		return b.String()
	}

	b.WriteString("# Automated PR Review Report\n\n")

	b.WriteString("## Issues Summary\n\n")
	for _, sev := range review.Severities() {
		count := report.Counts[sev]
		if count == 0 {
			continue
		}
		plural := ""
		if count > 1 {
			plural = "s"
		}
		fmt.Fprintf(&b, "- **%s**: %d issue%s\n", strings.ToUpper(string(sev)), count, plural)
	}
	b.WriteString("\n")

	b.WriteString("## Detailed Issues\n\n")
	for _, group := range report.Categories {
		fmt.Fprintf(&b, "### %s\n\n", group.Category.Title())

		for _, f := range group.Findings {
			fmt.Fprintf(&b, "- **%s** (line %d): %s\n", f.File, f.Line, f.Message)
			if f.Name != "" {
				fmt.Fprintf(&b, "  - Name: `%s`\n", f.Name)
			}
			if f.Match != "" {
				fmt.Fprintf(&b, "  - Found: `%s`\n", inlineCode(f.Match))
			}
			if f.Function != "" {
				fmt.Fprintf(&b, "  - Function: `%s`\n", f.Function)
			}
			fmt.Fprintf(&b, "  - Severity: %s\n", f.Severity)
			b.WriteString("\n")
		}
	}

	if recs := report.Recommendations(); len(recs) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range recs {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	writeSkipped(&b, report)

	fmt.Fprintf(&b, "*%s %s, run `%s`, %d files in %dms*\n",
		report.Tool, report.Version, report.RunID, len(report.Files), report.Timing.DurationMs)

	return b.String()
}

func writeSkipped(b *strings.Builder, report *Report) {
	if len(report.Diagnostics) == 0 {
		return
	}
	b.WriteString("\n## Skipped Files\n\n")
	for _, d := range report.Diagnostics {
		fmt.Fprintf(b, "- **%s** (%s): %s\n", d.File, d.Kind, d.Message)
	}
	b.WriteString("\n")
}

// inlineCode keeps a match on one line and free of backticks
func inlineCode(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "..."
	}
	return s
}
