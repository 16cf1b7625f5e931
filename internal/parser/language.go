// Package parser extracts function structure and identifier names from raw
// source text using lexical heuristics rather than a language grammar.
package parser

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/tildaslashalef/prreview/internal/loggy"
)

// Family is a coarse bucket of source syntax styles used to select extraction heuristics
type Family string

const (
	// FamilyIndentationDelimited covers languages whose blocks are delimited by indentation
	FamilyIndentationDelimited Family = "indentation"
	// FamilyBraceDelimited covers languages whose blocks are delimited by braces
	FamilyBraceDelimited Family = "brace"
	// FamilyUnknown is assigned to anything not in the extension tables
	FamilyUnknown Family = "unknown"
)

// LanguageUnknown is reported when enry cannot name a file's language
const LanguageUnknown = "Unknown"

// familyExtensions maps each family to the extensions it claims. The brace
// heuristics only understand JavaScript-style function syntax, so the table is
// deliberately narrower than "every language that uses braces".
var familyExtensions = map[Family][]string{
	FamilyIndentationDelimited: {".py", ".pyw", ".pyi"},
	FamilyBraceDelimited:       {".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"},
}

// Classification is the result of classifying one path
type Classification struct {
	Path     string
	Language string
	Family   Family
}

// Classifier maps file paths to language families by extension
type Classifier struct {
	logger     *loggy.Logger
	extensions map[string]Family
}

// NewClassifier creates a classifier over the built-in extension tables
func NewClassifier(logger *loggy.Logger) *Classifier {
	extensions := make(map[string]Family)
	for family, exts := range familyExtensions {
		for _, ext := range exts {
			extensions[ext] = family
		}
	}

	return &Classifier{
		logger:     logger,
		extensions: extensions,
	}
}

// Family returns the language family for path
func (c *Classifier) Family(path string) Family {
	ext := strings.ToLower(filepath.Ext(path))
	if family, ok := c.extensions[ext]; ok {
		return family
	}
	return FamilyUnknown
}

// Classify returns the family together with the enry language name for path
func (c *Classifier) Classify(path string) Classification {
	family := c.Family(path)

	language, _ := enry.GetLanguageByExtension(path)
	if language == "" {
		language, _ = enry.GetLanguageByFilename(filepath.Base(path))
	}
	if language == "" {
		language = LanguageUnknown
	}

	c.logger.Debug("Classified file", "path", path, "language", language, "family", family)

	return Classification{
		Path:     path,
		Language: language,
		Family:   family,
	}
}

// Extensions returns the sorted extensions claimed by family
func (c *Classifier) Extensions(family Family) []string {
	var exts []string
	for ext, f := range c.extensions {
		if f == family {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// Families returns the families that have extraction support, in display order
func Families() []Family {
	return []Family{FamilyIndentationDelimited, FamilyBraceDelimited}
}
