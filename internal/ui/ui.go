package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Output receives everything the ui package prints
var Output io.Writer = os.Stdout

var (
	// Color palette
	primaryColor   = lipgloss.Color("#7D56F4") // Purple
	secondaryColor = lipgloss.Color("#00D9FF") // Cyan
	successColor   = lipgloss.Color("#04B575") // Green
	errorColor     = lipgloss.Color("#FF5F87") // Pink/Red
	warningColor   = lipgloss.Color("#FFAF00") // Orange
	mutedColor     = lipgloss.Color("#626262") // Gray
	accentColor    = lipgloss.Color("#FFD700") // Gold

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginTop(1).
			MarginBottom(1).
			PaddingLeft(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor).
			MarginTop(1).
			PaddingLeft(1)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	cellStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	checkmark = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true).
			SetString("✓")

	cross = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true).
		SetString("✗")

	arrow = lipgloss.NewStyle().
		Foreground(secondaryColor).
		SetString("→")

	dot = lipgloss.NewStyle().
		Foreground(mutedColor).
		SetString("•")

	stepStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(lipgloss.Color("#FAFAFA"))
)

func emit(s string) {
	fmt.Fprintln(Output, s)
}

// PrintTitle prints a major title (for app name or major sections)
func PrintTitle(title string) {
	emit(titleStyle.Render("╭─ " + title + " ─╮"))
}

// PrintHeader prints a section header
func PrintHeader(title string) {
	emit(headerStyle.Render("\n▸ " + title))
}

// PrintStep prints a step with indentation
func PrintStep(step string) {
	emit(stepStyle.Render(arrow.String() + " " + step))
}

// PrintItem prints an item in a list
func PrintItem(item string) {
	emit(itemStyle.Render(dot.String() + " " + item))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	emit(stepStyle.Render(checkmark.String() + " " + successStyle.Render(message)))
}

// PrintError prints an error message
func PrintError(message string) {
	emit(stepStyle.Render(cross.String() + " " + errorStyle.Render(message)))
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	emit(stepStyle.Render("⚠ " + warningStyle.Render(message)))
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	emit(stepStyle.Render(infoStyle.Render(message)))
}

// PrintCells prints the selected cell labels as badges
func PrintCells(labels []string) {
	badges := make([]string, len(labels))
	for i, l := range labels {
		badges[i] = cellStyle.Render(l)
	}
	emit(stepStyle.Render(keyStyle.Render("Cells:") + " " + strings.Join(badges, " ")))
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	emit(infoStyle.Render(strings.Repeat("─", 45)))
}

// PrintKeyValue prints a key-value pair with nice formatting
func PrintKeyValue(key, value string) {
	emit(stepStyle.Render(keyStyle.Render(key+":") + " " + value))
}

// Table prints fixed-width columns separated by │
type Table struct {
	widths []int
}

// NewTable creates a table with the given column widths
func NewTable(widths ...int) *Table {
	return &Table{widths: widths}
}

func (t *Table) format(columns []string, truncate func(string, int) string) string {
	var row strings.Builder
	for i, col := range columns {
		if i >= len(t.widths) {
			break
		}
		w := t.widths[i]
		if len([]rune(col)) > w {
			col = truncate(col, w)
		}
		row.WriteString(col)
		if pad := w - len([]rune(col)); pad > 0 {
			row.WriteString(strings.Repeat(" ", pad))
		}
		if i < len(columns)-1 && i < len(t.widths)-1 {
			row.WriteString(" │ ")
		}
	}
	return row.String()
}

// Header prints the header row and a separator line
func (t *Table) Header(headers ...string) {
	row := t.format(headers, func(s string, w int) string { return string([]rune(s)[:w]) })
	emit(stepStyle.Render(keyStyle.Render(row)))

	parts := make([]string, 0, len(headers))
	for i := range headers {
		if i >= len(t.widths) {
			break
		}
		parts = append(parts, strings.Repeat("─", t.widths[i]))
	}
	emit(stepStyle.Render(infoStyle.Render(strings.Join(parts, "─┼─"))))
}

// Row prints one row, truncating long columns with ...
func (t *Table) Row(columns ...string) {
	emit(stepStyle.Render(t.format(columns, func(s string, w int) string {
		if w <= 3 {
			return string([]rune(s)[:w])
		}
		return string([]rune(s)[:w-3]) + "..."
	})))
}

var verbose bool

// SetVerbose forces verbose output on or off; off falls back to the CI and --progress=plain checks
func SetVerbose(v bool) {
	verbose = v
}

// IsVerbose checks if verbose output is enabled
func IsVerbose() bool {
	if verbose {
		return true
	}
	// Check for CI environment variable or --progress=plain flag
	if os.Getenv("CI") != "" {
		return true
	}
	for _, arg := range os.Args {
		if arg == "--progress=plain" {
			return true
		}
	}
	return false
}

// Pluralize returns "s" if count != 1
func Pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
