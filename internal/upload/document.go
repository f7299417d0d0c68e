package upload

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/csheth/goldenvalley/internal/gateway"
)

// MaxFileSize is the largest document the backend accepts.
const MaxFileSize = 10 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".csv":  true,
	".doc":  true,
	".docx": true,
	".md":   true,
}

// AcceptedTypes is the human-readable list of accepted extensions.
const AcceptedTypes = "PDF, TXT, CSV, DOC, DOCX or MD (max. 10MB)"

// Open loads and validates a document from disk. Every rejection is a
// *gateway.ValidationError so no network call is made for bad input.
func Open(path string) (gateway.Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return gateway.Document{}, &gateway.ValidationError{Field: "document", Reason: "Please select a file to upload"}
	}
	path = expandHome(path)
	info, err := os.Stat(path)
	if err != nil {
		return gateway.Document{}, &gateway.ValidationError{Field: "document", Reason: fmt.Sprintf("cannot read %s", filepath.Base(path))}
	}
	if info.IsDir() {
		return gateway.Document{}, &gateway.ValidationError{Field: "document", Reason: fmt.Sprintf("%s is a directory", filepath.Base(path))}
	}
	if err := validateMeta(info.Name(), info.Size()); err != nil {
		return gateway.Document{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return gateway.Document{}, &gateway.ValidationError{Field: "document", Reason: fmt.Sprintf("cannot read %s", info.Name())}
	}
	return newDocument(info.Name(), content)
}

func newDocument(name string, content []byte) (gateway.Document, error) {
	if err := validateMeta(name, int64(len(content))); err != nil {
		return gateway.Document{}, err
	}
	doc := gateway.Document{Name: name, Size: int64(len(content)), Content: content}
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		pages, err := countPDFPages(content)
		if err != nil {
			return gateway.Document{}, &gateway.ValidationError{Field: "document", Reason: fmt.Sprintf("%s is not a readable PDF", name)}
		}
		doc.Pages = pages
	}
	return doc, nil
}

func validateMeta(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return &gateway.ValidationError{Field: "document", Reason: fmt.Sprintf("unsupported file type %q; use %s", ext, AcceptedTypes)}
	}
	if size == 0 {
		return &gateway.ValidationError{Field: "document", Reason: fmt.Sprintf("%s is empty", name)}
	}
	if size > MaxFileSize {
		return &gateway.ValidationError{Field: "document", Reason: fmt.Sprintf("%s is %s; the limit is 10MB", name, FormatSize(size))}
	}
	return nil
}

func countPDFPages(content []byte) (pages int, err error) {
	// The parser panics on some truncated inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	pages = reader.NumPage()
	if pages == 0 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return pages, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// FormatSize renders a byte count the way the upload panel shows it.
func FormatSize(size int64) string {
	if size < 1024*1024 {
		return fmt.Sprintf("%.0f KB", float64(size)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
}
