package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tildaslashalef/prreview/internal/loggy"
)

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier(loggy.NewNoopLogger())

	tests := []struct {
		name         string
		path         string
		wantFamily   Family
		wantLanguage string
	}{
		{name: "python source", path: "app/main.py", wantFamily: FamilyIndentationDelimited, wantLanguage: "Python"},
		{name: "javascript source", path: "web/index.js", wantFamily: FamilyBraceDelimited, wantLanguage: "JavaScript"},
		{name: "typescript source", path: "src/app.ts", wantFamily: FamilyBraceDelimited, wantLanguage: "TypeScript"},
		{name: "go is not in the family tables", path: "cmd/main.go", wantFamily: FamilyUnknown, wantLanguage: "Go"},
		{name: "language from filename", path: "Makefile", wantFamily: FamilyUnknown, wantLanguage: "Makefile"},
		{name: "no extension", path: "LICENSE_NOTES_X", wantFamily: FamilyUnknown, wantLanguage: LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.path)
			assert.Equal(t, tt.path, got.Path)
			assert.Equal(t, tt.wantFamily, got.Family)
			assert.Equal(t, tt.wantLanguage, got.Language)
		})
	}
}

func TestClassifier_FamilyIgnoresExtensionCase(t *testing.T) {
	classifier := NewClassifier(loggy.NewNoopLogger())

	assert.Equal(t, FamilyIndentationDelimited, classifier.Family("SCRIPT.PY"))
	assert.Equal(t, FamilyBraceDelimited, classifier.Family("App.JSX"))
}

func TestClassifier_Extensions(t *testing.T) {
	classifier := NewClassifier(loggy.NewNoopLogger())

	assert.Equal(t, []string{".py", ".pyi", ".pyw"}, classifier.Extensions(FamilyIndentationDelimited))
	assert.Contains(t, classifier.Extensions(FamilyBraceDelimited), ".tsx")
	assert.Empty(t, classifier.Extensions(FamilyUnknown))
}
