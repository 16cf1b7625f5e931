package parser

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tildaslashalef/prreview/internal/loggy"
)

// ErrNoExtractor is returned when no FunctionExtractor handles a family
var ErrNoExtractor = errors.New("no function extractor registered")

// FunctionExtractor finds functions in the source of one language family.
// Implementations must be safe for concurrent use and must return
// descriptors in order of first appearance in the text.
type FunctionExtractor interface {
	// Family returns the language family this extractor handles
	Family() Family
	// ExtractFunctions returns every function found in content
	ExtractFunctions(content string) []FunctionDescriptor
}

// ExtractorRegistry selects a FunctionExtractor per language family
type ExtractorRegistry struct {
	logger     *loggy.Logger
	mu         sync.RWMutex
	extractors map[Family]FunctionExtractor
}

// NewExtractorRegistry creates an empty registry
func NewExtractorRegistry(logger *loggy.Logger) *ExtractorRegistry {
	return &ExtractorRegistry{
		logger:     logger,
		extractors: make(map[Family]FunctionExtractor),
	}
}

// NewDefaultExtractorRegistry creates a registry with the built-in heuristic extractors
func NewDefaultExtractorRegistry(logger *loggy.Logger) *ExtractorRegistry {
	r := NewExtractorRegistry(logger)
	r.Register(NewIndentationExtractor())
	r.Register(NewBraceExtractor())
	return r
}

// Register installs an extractor, replacing any previous one for the same family
func (r *ExtractorRegistry) Register(extractor FunctionExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extractors[extractor.Family()] = extractor
	r.logger.Debug("Registered function extractor", "family", extractor.Family())
}

// GetExtractor returns the extractor for family
func (r *ExtractorRegistry) GetExtractor(family Family) (FunctionExtractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extractor, ok := r.extractors[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoExtractor, family)
	}
	return extractor, nil
}

// ExtractFunctions runs the extractor registered for family. Families without
// an extractor, FamilyUnknown included, yield no functions.
func (r *ExtractorRegistry) ExtractFunctions(content string, family Family) []FunctionDescriptor {
	extractor, err := r.GetExtractor(family)
	if err != nil {
		return []FunctionDescriptor{}
	}
	return extractor.ExtractFunctions(content)
}
