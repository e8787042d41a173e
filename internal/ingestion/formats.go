package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"baliance.com/gooxml/document"
	"github.com/PuerkitoBio/goquery"
)

type reader func(ctx context.Context, path string) (string, error)

var readers = map[string]reader{
	".txt":  readPlain,
	".md":   readPlain,
	".html": readHTML,
	".htm":  readHTML,
	".docx": readDOCX,
	".pdf":  readPDF,
	".doc":  readDOC,
}

// runCommand executes an external converter and returns its standard output.
var runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Supported reports whether files with the given extension can be read.
func Supported(ext string) bool {
	_, ok := readers[strings.ToLower(ext)]
	return ok
}

// SupportedExtensions lists the accepted extensions in lexical order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(readers))
	for ext := range readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ExtractFromFile returns the cleaned plain text of a resume document, choosing the
// extractor by file extension.
func ExtractFromFile(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	read, ok := readers[ext]
	if !ok {
		return "", &UnsupportedFormatError{Ext: ext}
	}

	if _, err := os.Stat(path); err != nil {
		return "", &ExtractionError{Path: path, Message: "cannot access file", Cause: err}
	}

	text, err := read(ctx, path)
	if err != nil {
		var extractErr *ExtractionError
		if errors.As(err, &extractErr) {
			return "", err
		}
		return "", &ExtractionError{Path: path, Message: fmt.Sprintf("failed to read %s document", ext), Cause: err}
	}
	return CleanText(text), nil
}

func readPlain(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readHTML drops non-content elements and keeps block boundaries as line breaks.
func readHTML(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("head, script, style, noscript, template").Remove()
	doc.Find("p, div, section, article, header, footer, ul, ol, table, h1, h2, h3, h4, h5, h6").AfterHtml("\n\n")
	doc.Find("li, br, tr, dt, dd").AfterHtml("\n")

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}

// readDOCX concatenates paragraph runs, then table rows with cells joined by " | ".
func readDOCX(_ context.Context, path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	var sb strings.Builder
	for _, p := range doc.Paragraphs() {
		sb.WriteString(paragraphText(p))
		sb.WriteString("\n")
	}
	for _, tbl := range doc.Tables() {
		sb.WriteString("\n")
		for _, row := range tbl.Rows() {
			cells := make([]string, 0, len(row.Cells()))
			for _, cell := range row.Cells() {
				parts := make([]string, 0, len(cell.Paragraphs()))
				for _, p := range cell.Paragraphs() {
					parts = append(parts, paragraphText(p))
				}
				cells = append(cells, strings.TrimSpace(strings.Join(parts, " ")))
			}
			sb.WriteString(strings.Join(cells, " | "))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func paragraphText(p document.Paragraph) string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

func readPDF(ctx context.Context, path string) (string, error) {
	out, err := runCommand(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", converterError(path, "pdftotext", err)
	}
	return string(out), nil
}

// readDOC tries antiword first and falls back to catdoc.
func readDOC(ctx context.Context, path string) (string, error) {
	out, err := runCommand(ctx, "antiword", path)
	if err == nil {
		return string(out), nil
	}

	out, fallbackErr := runCommand(ctx, "catdoc", path)
	if fallbackErr != nil {
		return "", converterError(path, "antiword and catdoc", errors.Join(err, fallbackErr))
	}
	return string(out), nil
}

func converterError(path, tool string, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return &ExtractionError{Path: path, Message: tool + " is not installed", Cause: err}
	}
	return &ExtractionError{Path: path, Message: tool + " failed", Cause: err}
}
