// Package report turns an analysis result into the documents prreview
// writes: markdown for pull request comments, JSON, SARIF, and a terminal view.
package report

import (
	"time"

	"github.com/tildaslashalef/prreview/internal/analysis"
	"github.com/tildaslashalef/prreview/internal/review"
)

// ToolName is the driver name written into reports
const ToolName = "prreview"

// Report is the rendered view of one analysis run
type Report struct {
	RunID       string                 `json:"run_id"`
	Tool        string                 `json:"tool"`
	Version     string                 `json:"version"`
	Source      string                 `json:"source"`
	Findings    []review.Finding       `json:"findings"`
	Counts      review.SeverityCounts  `json:"counts"`
	Categories  []review.CategoryGroup `json:"categories"`
	Blocking    bool                   `json:"blocking"`
	Diagnostics []Diagnostic           `json:"diagnostics,omitempty"`
	Files       []analysis.FileSummary `json:"files"`
	Timing      Timing                 `json:"timing"`
}

// Diagnostic is a skipped file as it appears in a report
type Diagnostic struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Timing records when the run happened
type Timing struct {
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// New builds a report from an aggregated result. source describes the
// change set, e.g. "main..feature" or "acme/api#12".
func New(result *analysis.Result, source, version string) *Report {
	findings := result.Findings.Findings()
	if findings == nil {
		findings = []review.Finding{}
	}
	files := result.Files
	if files == nil {
		files = []analysis.FileSummary{}
	}

	r := &Report{
		RunID:      result.RunID,
		Tool:       ToolName,
		Version:    version,
		Source:     source,
		Findings:   findings,
		Counts:     result.Findings.CountBySeverity(),
		Categories: result.Findings.ByCategory(),
		Blocking:   result.HasBlockingFindings(),
		Files:      files,
		Timing: Timing{
			StartedAt:   result.StartedAt,
			CompletedAt: result.CompletedAt,
			DurationMs:  result.Duration().Milliseconds(),
		},
	}

	for _, d := range result.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			File:    d.File,
			Kind:    string(d.Kind),
			Message: d.Message(),
		})
	}

	return r
}

// HasFindings reports whether the run produced any finding
func (r *Report) HasFindings() bool {
	return len(r.Findings) > 0
}

var secretRules = map[string]bool{
	"pattern/hardcoded-secret": true,
	"pattern/private-key":      true,
	"pattern/aws-access-key":   true,
}

// Recommendations returns the follow-up advice for the findings, most
// urgent first
func (r *Report) Recommendations() []string {
	var naming, complexity, debug, secrets bool
	for _, f := range r.Findings {
		switch {
		case f.Category == review.CategoryNamingConvention:
			naming = true
		case f.Category == review.CategoryComplexity:
			complexity = true
		case f.Rule == "pattern/debug-code":
			debug = true
		case secretRules[f.Rule]:
			secrets = true
		}
	}

	var recs []string
	if r.Blocking {
		recs = append(recs, "**Address high severity issues before merging**")
	}
	if naming {
		recs = append(recs, "**Review naming conventions** to ensure consistency")
	}
	if complexity {
		recs = append(recs, "**Consider refactoring complex functions** to improve maintainability")
	}
	if debug {
		recs = append(recs, "**Remove debug code** before merging")
	}
	if secrets {
		recs = append(recs, "**Remove hardcoded secrets** and use environment variables or secure storage")
	}
	return recs
}
