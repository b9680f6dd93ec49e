// Package document loads the source narrative from disk. The incident story
// ships as plain text, but reports also arrive as PDF or DOCX exports, so
// the loader accepts those formats too and always hands back raw text.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrNotFound signals an unreadable or missing document path.
var ErrNotFound = errors.New("document not found")

// Document is the raw narrative text plus its identity. Immutable once
// loaded.
type Document struct {
	Title  string
	Source string
	Text   string
}

// Load reads the file at path and extracts its text content.
func Load(path string) (Document, error) {
	if _, err := os.Stat(path); err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", "":
		text, err = loadText(path)
	case ".pdf":
		text, err = loadPDF(path)
	case ".docx":
		text, err = loadDOCX(path)
	default:
		return Document{}, fmt.Errorf("unsupported document format: %s", filepath.Ext(path))
	}
	if err != nil {
		return Document{}, err
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	title = strings.ReplaceAll(title, "_", " ")

	return Document{Title: title, Source: path, Text: text}, nil
}

func loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return string(data), nil
}

func loadPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		pageText, err := reader.Page(i).GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		text.WriteString(pageText)
		text.WriteString("\n\n")
	}
	return text.String(), nil
}

func loadDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read docx: %w", err)
	}
	defer r.Close()
	return r.Editable().GetContent(), nil
}
