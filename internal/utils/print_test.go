package utils

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"

	"github.com/tildaslashalef/prreview/internal/review"
)

func TestCreateTable_Plain(t *testing.T) {
	var buf bytes.Buffer
	tw := CreateTable(&buf, TableOptions{Title: "Findings", Plain: true})
	tw.AppendHeader(table.Row{"Severity", "Count"})
	tw.AppendRow(table.Row{"high", 2})
	tw.Render()

	out := buf.String()
	assert.Contains(t, out, "Findings")
	assert.Contains(t, out, "SEVERITY")
	assert.Contains(t, out, "high")
	assert.NotContains(t, out, "\x1b[")
}

func TestSeverityColors(t *testing.T) {
	for _, sev := range review.Severities() {
		assert.NotEmpty(t, SeverityColors(sev), string(sev))
	}
	assert.NotEqual(t, SeverityColors(review.SeverityCritical), SeverityColors(review.SeverityLow))
}
