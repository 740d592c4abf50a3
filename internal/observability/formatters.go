// Package observability renders analysis results for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jd-analyser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for the CLI.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintExtraction outputs a human-readable summary of an extraction.
func (p *Printer) PrintExtraction(result *types.ExtractionResult) {
	if result == nil {
		return
	}

	p.printBox("HARD SKILLS", bulletList(result.HardSkills))
	p.printBox("SOFT SKILLS", bulletList(result.SoftSkills))

	var sb strings.Builder
	for i, tip := range result.ResumeImprovements {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, tip))
	}
	if sb.Len() == 0 {
		sb.WriteString("(none)")
	}
	p.printBox("RESUME IMPROVEMENTS", strings.TrimSuffix(sb.String(), "\n"))

	snippet := result.CoverLetterSnippet
	if snippet == "" {
		snippet = "(none)"
	}
	p.printBox("COVER LETTER SNIPPET", strings.Join(wrap(snippet, boxWidth-4), "\n"))
}

// PrintFailure outputs the user-facing reason of a failed outcome.
func (p *Printer) PrintFailure(outcome types.Outcome) {
	if outcome.Success {
		return
	}
	p.printBox("ANALYSIS FAILED", outcome.Error)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("• %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(items)-maxItemsToShow))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && utf8.RuneCountInString(line.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
