// Package analysis runs the per-file review pipeline: classification,
// extraction, rule evaluation, and aggregation of findings for one change set.
package analysis

import (
	"errors"
	"sync"
	"time"

	"github.com/tildaslashalef/prreview/internal/parser"
	"github.com/tildaslashalef/prreview/internal/review"
)

// ErrUnreadableFile is wrapped by diagnostics for files whose content could not be read
var ErrUnreadableFile = errors.New("unreadable file")

// Stage is the position of a run in its lifecycle
type Stage string

const (
	StageIdle           Stage = "idle"
	StageClassifying    Stage = "classifying"
	StageExtracting     Stage = "extracting"
	StageRuleEvaluating Stage = "rule_evaluating"
	StageAggregated     Stage = "aggregated"
	StageReported       Stage = "reported"
)

// DiagnosticKind classifies a per-file failure
type DiagnosticKind string

const (
	DiagnosticUnreadableFile DiagnosticKind = "unreadable_file"
	DiagnosticAnalysisFailed DiagnosticKind = "analysis_failed"
)

// Diagnostic records a file that was skipped. Diagnostics never abort a run.
type Diagnostic struct {
	File string         `json:"file"`
	Kind DiagnosticKind `json:"kind"`
	Err  error          `json:"-"`
}

// Message returns the error text of the diagnostic
func (d Diagnostic) Message() string {
	if d.Err == nil {
		return string(d.Kind)
	}
	return d.Err.Error()
}

// FileSummary describes what was extracted from one analyzed file
type FileSummary struct {
	Path        string        `json:"path"`
	Language    string        `json:"language"`
	Family      parser.Family `json:"family"`
	Functions   int           `json:"functions"`
	Identifiers int           `json:"identifiers"`
	Findings    int           `json:"findings"`
}

// Result is the outcome of one analysis run
type Result struct {
	RunID       string
	Findings    *review.FindingSet
	Diagnostics []Diagnostic
	Files       []FileSummary
	StartedAt   time.Time
	CompletedAt time.Time

	mu    sync.Mutex
	stage Stage
}

func newResult(runID string) *Result {
	return &Result{
		RunID:     runID,
		Findings:  review.NewFindingSet(),
		StartedAt: time.Now(),
		stage:     StageIdle,
	}
}

// Stage returns the current stage of the run
func (r *Result) Stage() Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stage
}

func (r *Result) setStage(stage Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stage = stage
}

// MarkReported moves an aggregated run to its terminal stage
func (r *Result) MarkReported() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stage == StageAggregated {
		r.stage = StageReported
	}
}

// Duration returns how long the run took
func (r *Result) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// HasBlockingFindings reports whether any finding is Critical or High
func (r *Result) HasBlockingFindings() bool {
	return r.Findings.HasBlocking()
}
