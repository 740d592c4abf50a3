// Package ingestion reads pasted or saved job descriptions and normalizes
// their whitespace before analysis.
package ingestion

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// MaxInputBytes caps a job description read from a file or stream.
const MaxInputBytes = 1 << 20

// edgeSpace is trimmed from both ends of every line, including the no-break
// spaces common in text copied from web pages.
const edgeSpace = " \t\u00a0\u2007\u202f"

var (
	innerSpace  = regexp.MustCompile("[" + edgeSpace + "]+")
	blankLines  = regexp.MustCompile(`\n{3,}`)
	invisibles  = strings.NewReplacer("\u200b", "", "\u200c", "", "\u200d", "", "\ufeff", "")
	bulletMarks = []string{"- ", "* ", "• ", "· "}
)

// CleanText normalizes line endings and whitespace while keeping the
// structure of the posting: headings, bullets with their indentation, and
// single blank lines between sections.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = invisibles.Replace(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses runs of spaces inside a line. Leading indentation is
// kept for bullet items only, so nested lists survive.
func cleanLine(line string) string {
	line = strings.TrimRight(line, edgeSpace)
	trimmed := strings.TrimLeft(line, edgeSpace)
	if trimmed == "" {
		return ""
	}

	body := innerSpace.ReplaceAllString(trimmed, " ")
	if !isBulletLine(trimmed) {
		return body
	}
	indent := len(line) - len(trimmed)
	return strings.Repeat(" ", min(indent, 8)) + body
}

func isBulletLine(trimmed string) bool {
	for _, mark := range bulletMarks {
		if strings.HasPrefix(trimmed, mark) {
			return true
		}
	}
	return false
}

// ReadAll reads at most MaxInputBytes from r without altering the text.
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) > MaxInputBytes {
		return "", fmt.Errorf("input exceeds %d bytes", MaxInputBytes)
	}
	return string(data), nil
}

// Read reads r and returns the cleaned text.
func Read(r io.Reader) (string, error) {
	text, err := ReadAll(r)
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

// ReadFile reads the file at path and returns the cleaned text.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

