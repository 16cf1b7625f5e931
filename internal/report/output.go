package report

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer writes a report in a specific format
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// Options tunes the terminal writer
type Options struct {
	Color     bool
	WrapWidth int
}

// GetWriter returns a writer for the specified format
func GetWriter(format string, opts Options) (Writer, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "sarif":
		return &SARIFWriter{}, nil
	case "text":
		return &TextWriter{Color: opts.Color, WrapWidth: opts.WrapWidth}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to the file at outPath, or to stdout when
// outPath is empty
func WriteReport(report *Report, format, outPath string, opts Options) error {
	writer, err := GetWriter(format, opts)
	if err != nil {
		return err
	}

	if outPath == "" {
		return writer.Write(os.Stdout, report)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	return writeAndClose(writer, f, report)
}

// writeAndClose writes report to w and closes it. A close error is returned
// when the write itself succeeded.
func writeAndClose(writer Writer, w io.WriteCloser, report *Report) error {
	if err := writer.Write(w, report); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}
