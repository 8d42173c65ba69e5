// Package ingest turns résumé files into plain text.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// NoExtractableTextError reports an input that yielded no text at all.
type NoExtractableTextError struct {
	Path string
}

func (e *NoExtractableTextError) Error() string {
	if e.Path == "" {
		return "no extractable text in résumé input"
	}
	return fmt.Sprintf("no extractable text in %s", e.Path)
}

// UnsupportedFormatError is returned for file extensions ExtractFile cannot read.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q: use .pdf, .docx, .txt or .md", e.Ext)
}

// ExtractFile reads the résumé at path and returns its cleaned text.
func ExtractFile(path string) (string, error) {
	var (
		text string
		err  error
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx":
		text, err = extractDocx(path)
	case ".txt", ".md", ".markdown", "":
		text, err = readText(path)
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", &NoExtractableTextError{Path: path}
	}
	return text, nil
}

// ReadJobDescription reads a job description as plain text. An empty path
// means no job description.
func ReadJobDescription(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	text, err := readText(path)
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

var (
	inlineSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings, collapses runs of spaces, trims every
// line and keeps at most one blank line between paragraphs.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}

	text = blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
