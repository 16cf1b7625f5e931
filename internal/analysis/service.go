package analysis

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tildaslashalef/prreview/internal/loggy"
	"github.com/tildaslashalef/prreview/internal/parser"
	"github.com/tildaslashalef/prreview/internal/review"
	"github.com/tildaslashalef/prreview/internal/rules"
)

// Service analyzes change sets with one immutable rule configuration
type Service struct {
	cfg        rules.Config
	logger     *loggy.Logger
	parser     *parser.Service
	naming     *rules.NamingEngine
	complexity *rules.ComplexityEngine
	patterns   *rules.PatternEngine
	workers    int
}

// Option configures a Service
type Option func(*Service)

// WithWorkers sets how many files are processed at once. Values below one
// fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.workers = n
	}
}

// WithParser replaces the parser service, for example to register a
// different function extractor
func WithParser(p *parser.Service) Option {
	return func(s *Service) {
		s.parser = p
	}
}

// NewService validates cfg and creates the engines. An invalid configuration
// is returned before any file is looked at.
func NewService(cfg rules.Config, logger *loggy.Logger, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		cfg:        cfg,
		logger:     logger,
		naming:     rules.NewNamingEngine(cfg),
		complexity: rules.NewComplexityEngine(cfg),
		patterns:   rules.NewPatternEngine(cfg),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.parser == nil {
		s.parser = parser.NewService(logger, cfg.IdentifierPatterns)
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}

	return s, nil
}

// Config returns the rule configuration the service was built with
func (s *Service) Config() rules.Config {
	return s.cfg
}

// Parser returns the parser service
func (s *Service) Parser() *parser.Service {
	return s.parser
}

// fileTask carries one file through the pipeline. Each task is only touched
// by the goroutine working on it until the group is waited on.
type fileTask struct {
	class      parser.Classification
	content    string
	parsed     parser.ParsedFile
	findings   []review.Finding
	diagnostic *Diagnostic
	started    bool
	evaluated  bool
}

// Analyze runs every file of files through the pipeline. Per-file failures
// become diagnostics; findings are aggregated in file order. When ctx is
// cancelled no new files are started and the partial result is returned
// together with the context error.
func (s *Service) Analyze(ctx context.Context, files FileSet) (*Result, error) {
	runID := loggy.GetRunID(ctx)
	if runID == "" {
		runID = loggy.NewRunID()
	}
	logger := s.logger.With("run_id", runID)
	result := newResult(runID)

	paths := files.Paths()
	logger.Info("Starting analysis", "files", len(paths), "workers", s.workers)

	s.transition(logger, result, StageClassifying)
	tasks := make([]*fileTask, len(paths))
	for i, path := range paths {
		tasks[i] = &fileTask{class: s.parser.Classify(path)}
	}

	s.transition(logger, result, StageExtracting)
	interrupted := s.each(ctx, tasks, func(t *fileTask) {
		t.started = true
		content, err := files.Content(ctx, t.class.Path)
		if err != nil {
			t.diagnostic = &Diagnostic{
				File: t.class.Path,
				Kind: DiagnosticUnreadableFile,
				Err:  fmt.Errorf("%w: %s: %v", ErrUnreadableFile, t.class.Path, err),
			}
			return
		}
		t.content = content
		t.diagnostic = s.guard(t.class.Path, func() {
			t.parsed = s.parser.Extract(t.class, content)
		})
	})

	if interrupted == nil {
		s.transition(logger, result, StageRuleEvaluating)
		interrupted = s.each(ctx, tasks, func(t *fileTask) {
			if !t.started || t.diagnostic != nil {
				return
			}
			t.diagnostic = s.guard(t.class.Path, func() {
				t.findings = s.evaluate(t)
			})
			t.evaluated = t.diagnostic == nil
		})
	}

	for _, t := range tasks {
		if !t.started {
			continue
		}
		if t.diagnostic != nil {
			logger.Warn("Skipped file", "path", t.diagnostic.File, "kind", t.diagnostic.Kind, "error", t.diagnostic.Err)
			result.Diagnostics = append(result.Diagnostics, *t.diagnostic)
			continue
		}
		if !t.evaluated {
			continue
		}
		result.Findings.Add(t.findings...)
		result.Files = append(result.Files, FileSummary{
			Path:        t.class.Path,
			Language:    t.class.Language,
			Family:      t.class.Family,
			Functions:   len(t.parsed.Functions),
			Identifiers: t.parsed.Identifiers.Count(),
			Findings:    len(t.findings),
		})
	}

	result.CompletedAt = time.Now()
	s.transition(logger, result, StageAggregated)

	logger.Info("Analysis complete",
		"files", len(result.Files),
		"skipped", len(result.Diagnostics),
		"findings", result.Findings.Len(),
		"duration", result.Duration())

	if interrupted != nil {
		return result, fmt.Errorf("analysis interrupted: %w", interrupted)
	}
	return result, nil
}

// evaluate runs the rule engines over one extracted file. Naming findings
// come first, then complexity, then patterns.
func (s *Service) evaluate(t *fileTask) []review.Finding {
	path := t.class.Path
	var findings []review.Finding
	findings = append(findings, s.naming.Evaluate(path, t.content, t.parsed.Identifiers)...)
	findings = append(findings, s.complexity.Evaluate(path, t.parsed.Functions)...)
	findings = append(findings, s.patterns.Evaluate(path, t.content)...)
	return findings
}

// each runs fn over tasks with at most s.workers at a time and stops
// submitting once ctx is done
func (s *Service) each(ctx context.Context, tasks []*fileTask, fn func(*fileTask)) error {
	var g errgroup.Group
	g.SetLimit(s.workers)

	var stopped error
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			stopped = err
			break
		}
		g.Go(func() error {
			fn(t)
			return nil
		})
	}

	_ = g.Wait()
	return stopped
}

// guard converts a panic while analyzing path into a diagnostic
func (s *Service) guard(path string, fn func()) (diagnostic *Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diagnostic = &Diagnostic{
				File: path,
				Kind: DiagnosticAnalysisFailed,
				Err:  fmt.Errorf("analyzing %s: %v", path, r),
			}
		}
	}()

	fn()
	return nil
}

func (s *Service) transition(logger *loggy.Logger, result *Result, stage Stage) {
	result.setStage(stage)
	logger.Debug("Analysis stage", "stage", stage)
}
