package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/tildaslashalef/prreview/internal/review"
)

// InformationURI is linked from the SARIF tool driver
const InformationURI = "https://github.com/tildaslashalef/prreview"

// SARIFWriter outputs findings in SARIF v2.1.0 format
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *Report) error {
	doc, err := buildSARIF(report)
	if err != nil {
		return err
	}
	if err := doc.PrettyWrite(w); err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	return nil
}

func buildSARIF(report *Report) (*sarif.Report, error) {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("creating SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(report.Tool, InformationURI)
	for _, f := range report.Findings {
		level := severityToLevel(f.Severity)

		// AddRule returns the existing descriptor for a known ID
		rule := run.AddRule(f.Rule).
			WithDescription(f.Category.Title()).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: level,
			})

		region := sarif.NewRegion()
		if f.Line > 0 {
			region = region.WithStartLine(f.Line)
		}
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.File)).
				WithRegion(region),
		)

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(level).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	doc.AddRun(run)

	return doc, nil
}

// severityToLevel maps a finding severity to a SARIF level
func severityToLevel(s review.Severity) string {
	switch s {
	case review.SeverityCritical, review.SeverityHigh:
		return "error"
	case review.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
