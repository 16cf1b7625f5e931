// Package utils holds terminal print helpers shared by the commands
package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tildaslashalef/prreview/internal/review"
)

// Gruvbox palette
var (
	gruvboxFgDark  = text.Colors{text.FgHiBlack}
	gruvboxFgLight = text.Colors{text.FgWhite}
	gruvboxRed     = text.Colors{text.FgRed}
	gruvboxGreen   = text.Colors{text.FgGreen}
	gruvboxYellow  = text.Colors{text.FgYellow}
	gruvboxBlue    = text.Colors{text.FgBlue}
	gruvboxAqua    = text.Colors{text.FgCyan}
	gruvboxBold    = text.Colors{text.Bold}

	gruvboxRedBright    = text.Colors{text.FgHiRed}
	gruvboxYellowBright = text.Colors{text.FgHiYellow}
	gruvboxBlueBright   = text.Colors{text.FgHiBlue}
	gruvboxAquaBright   = text.Colors{text.FgHiCyan}
)

// Theme is the set of colors used for terminal output
var Theme = struct {
	Success text.Colors
	Info    text.Colors
	Warning text.Colors
	Error   text.Colors
	Heading text.Colors
	Subtle  text.Colors
	Accent  text.Colors

	Title       text.Colors
	TableHeader text.Colors
	TableBorder text.Colors
	TableRow    text.Colors
	TableAltRow text.Colors
}{
	Success: gruvboxGreen,
	Info:    gruvboxBlue,
	Warning: gruvboxYellow,
	Error:   gruvboxRed,
	Heading: append(gruvboxAquaBright, text.Bold),
	Subtle:  gruvboxFgDark,
	Accent:  gruvboxAqua,

	Title:       append(gruvboxAquaBright, text.Bold),
	TableHeader: append(gruvboxBlueBright, text.Bold),
	TableBorder: gruvboxBlue,
	TableRow:    gruvboxFgLight,
	TableAltRow: text.Colors{text.FgWhite, text.Faint},
}

// SeverityColors returns the color a severity is printed in
func SeverityColors(s review.Severity) text.Colors {
	switch s {
	case review.SeverityCritical:
		return append(gruvboxRedBright, text.Bold)
	case review.SeverityHigh:
		return gruvboxRed
	case review.SeverityMedium:
		return gruvboxYellowBright
	default:
		return gruvboxBlue
	}
}

// PrintHeading prints a formatted heading
func PrintHeading(title string) {
	fmt.Println(Theme.Heading.Sprint(title))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Println(Theme.Success.Sprint("✓ ") + message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Println(Theme.Info.Sprint("ℹ ") + message)
}

// PrintWarning prints a warning message to stderr
func PrintWarning(message string) {
	fmt.Fprintln(os.Stderr, Theme.Warning.Sprint("⚠ ")+message)
}

// PrintError prints an error message to stderr
func PrintError(message string) {
	fmt.Fprintln(os.Stderr, Theme.Error.Sprint("✗ ")+message)
}

// PrintKeyValue prints a key-value pair
func PrintKeyValue(key, value string) {
	fmt.Printf("%s: %s\n", gruvboxBold.Sprint(key), value)
}

// TableOptions defines options for table creation
type TableOptions struct {
	Title string
	Plain bool // No colors, for files and pipes
}

// CreateTable creates a table that renders to w
func CreateTable(w io.Writer, opts TableOptions) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	if opts.Title != "" {
		t.SetTitle(opts.Title)
	}

	if opts.Plain {
		t.SetStyle(table.StyleLight)
		return t
	}

	style := table.StyleRounded
	style.Color.Header = Theme.TableHeader
	style.Color.Border = Theme.TableBorder
	style.Color.Separator = Theme.TableBorder
	style.Color.Row = Theme.TableRow
	style.Color.RowAlternate = Theme.TableAltRow
	style.Title.Colors = Theme.Title
	style.Title.Align = text.AlignCenter
	style.Box.PaddingLeft = " "
	style.Box.PaddingRight = " "
	t.SetStyle(style)

	return t
}

// PrintTable prints a table with headers and rows to stdout
func PrintTable(headers []string, rows [][]string, opts TableOptions) {
	t := CreateTable(os.Stdout, opts)

	headerRow := table.Row{}
	for _, header := range headers {
		headerRow = append(headerRow, header)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tableRow := table.Row{}
		for _, cell := range row {
			tableRow = append(tableRow, cell)
		}
		t.AppendRow(tableRow)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignCenter,
		})
	}
	t.SetColumnConfigs(configs)

	t.Render()
}
