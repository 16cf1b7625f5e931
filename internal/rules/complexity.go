package rules

import (
	"fmt"

	"github.com/tildaslashalef/prreview/internal/parser"
	"github.com/tildaslashalef/prreview/internal/review"
)

// Complexity metrics reported in findings
const (
	MetricFunctionLength = "function_length"
	MetricParameterCount = "parameter_count"
	MetricNestingDepth   = "nesting_depth"
)

// ComplexityEngine checks functions against the length, parameter, and
// nesting thresholds
type ComplexityEngine struct {
	cfg Config
}

// NewComplexityEngine creates a complexity engine over cfg
func NewComplexityEngine(cfg Config) *ComplexityEngine {
	return &ComplexityEngine{cfg: cfg}
}

// Evaluate returns up to three Medium findings per function, in length,
// parameter, nesting order. A value equal to its threshold passes.
func (e *ComplexityEngine) Evaluate(file string, functions []parser.FunctionDescriptor) []review.Finding {
	var findings []review.Finding

	for _, fn := range functions {
		if n := fn.Length(); n > e.cfg.LengthThreshold {
			findings = append(findings, e.finding(file, fn, MetricFunctionLength, n, e.cfg.LengthThreshold,
				fmt.Sprintf("Function is too long (> %d lines)", e.cfg.LengthThreshold)))
		}
		if n := len(fn.Parameters); n > e.cfg.ParamThreshold {
			findings = append(findings, e.finding(file, fn, MetricParameterCount, n, e.cfg.ParamThreshold,
				fmt.Sprintf("Too many parameters (> %d)", e.cfg.ParamThreshold)))
		}
		if fn.NestingDepth > e.cfg.NestingThreshold {
			findings = append(findings, e.finding(file, fn, MetricNestingDepth, fn.NestingDepth, e.cfg.NestingThreshold,
				fmt.Sprintf("Nesting level is too deep (> %d levels)", e.cfg.NestingThreshold)))
		}
	}

	return findings
}

func (e *ComplexityEngine) finding(file string, fn parser.FunctionDescriptor, metric string, value, threshold int, message string) review.Finding {
	return review.Finding{
		File:      file,
		Line:      fn.StartLine,
		Category:  review.CategoryComplexity,
		Severity:  review.SeverityMedium,
		Message:   message,
		Rule:      "complexity/" + metric,
		Function:  fn.Name,
		Metric:    metric,
		Value:     value,
		Threshold: threshold,
	}
}
