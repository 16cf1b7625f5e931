package parser

import (
	"github.com/tildaslashalef/prreview/internal/loggy"
)

// ParsedFile is the structural view of one file
type ParsedFile struct {
	Classification
	Functions   []FunctionDescriptor
	Identifiers Identifiers
}

// Service classifies files and runs both extractors over their content
type Service struct {
	logger      *loggy.Logger
	classifier  *Classifier
	registry    *ExtractorRegistry
	identifiers *IdentifierExtractor
}

// NewService creates a parser service with the default extractors and the
// given identifier pattern table
func NewService(logger *loggy.Logger, patterns PatternTable) *Service {
	return &Service{
		logger:      logger,
		classifier:  NewClassifier(logger),
		registry:    NewDefaultExtractorRegistry(logger),
		identifiers: NewIdentifierExtractor(patterns),
	}
}

// Classifier returns the classifier used by the service
func (s *Service) Classifier() *Classifier {
	return s.classifier
}

// Registry returns the function extractor registry so callers can swap extractors
func (s *Service) Registry() *ExtractorRegistry {
	return s.registry
}

// Classify tags path with its language family
func (s *Service) Classify(path string) Classification {
	return s.classifier.Classify(path)
}

// Extract runs function and identifier extraction for an already classified file
func (s *Service) Extract(c Classification, content string) ParsedFile {
	parsed := ParsedFile{
		Classification: c,
		Functions:      s.registry.ExtractFunctions(content, c.Family),
		Identifiers:    s.identifiers.ExtractIdentifiers(c.Path, content, c.Family),
	}

	s.logger.Debug("Extracted file structure",
		"path", c.Path,
		"family", c.Family,
		"functions", len(parsed.Functions),
		"identifiers", parsed.Identifiers.Count())

	return parsed
}

// ParseFile classifies and extracts in one step
func (s *Service) ParseFile(path, content string) ParsedFile {
	return s.Extract(s.Classify(path), content)
}
