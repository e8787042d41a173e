// Package ingestion turns uploaded resume documents into cleaned plain text.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	inlineSpaceRegex = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankRunRegex    = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes extracted text: LF line endings, runs of spaces collapsed inside
// each line, leading indentation kept, and at most one blank line in a row.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	// pdftotext separates pages with form feeds
	content = strings.ReplaceAll(content, "\f", "\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankRunRegex.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	body := strings.TrimSpace(line)
	if body == "" {
		return ""
	}
	body = inlineSpaceRegex.ReplaceAllString(body, " ")

	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	if indent > 0 {
		return strings.Repeat(" ", indent) + body
	}
	return body
}

// IngestFromFile extracts and cleans the text of a resume document and describes it.
func IngestFromFile(ctx context.Context, path string) (string, *Metadata, error) {
	text, err := ExtractFromFile(ctx, path)
	if err != nil {
		return "", nil, err
	}
	return text, NewMetadata(path, text), nil
}

// WriteOutput writes the cleaned text and its metadata next to each other in outDir.
func WriteOutput(outDir string, cleanedText string, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	base := strings.TrimSuffix(metadata.Filename, filepath.Ext(metadata.Filename))
	if base == "" {
		base = "resume"
	}

	cleanedPath := filepath.Join(outDir, base+".cleaned.txt")
	if err := os.WriteFile(cleanedPath, []byte(cleanedText), 0644); err != nil {
		return fmt.Errorf("failed to write cleaned text file: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return err
	}
	metaPath := filepath.Join(outDir, base+".meta.json")
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
