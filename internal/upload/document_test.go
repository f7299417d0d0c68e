package upload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csheth/goldenvalley/internal/gateway"
)

// minimalPDF builds a one-page PDF with a correct cross-reference table.
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestOpenTextDocument(t *testing.T) {
	path := writeFile(t, "plan.md", []byte("# Plan\n\nShip it."))
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if doc.Name != "plan.md" || doc.Size != int64(len(doc.Content)) || doc.Pages != 0 {
		t.Fatalf("unexpected document: %#v", doc)
	}
}

func TestOpenPDFCountsPages(t *testing.T) {
	path := writeFile(t, "brochure.pdf", minimalPDF())
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if doc.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", doc.Pages)
	}
}

func TestOpenRejectsInvalidInput(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty path":   "",
		"missing file": filepath.Join(dir, "nope.txt"),
		"directory":    dir,
		"extension":    writeFile(t, "tool.exe", []byte("MZ")),
		"empty file":   writeFile(t, "empty.txt", nil),
		"broken pdf":   writeFile(t, "broken.pdf", []byte("%PDF-1.4 not really")),
		"oversized":    writeFile(t, "huge.csv", bytes.Repeat([]byte("a"), MaxFileSize+1)),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Open(path)
			var valErr *gateway.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidateMetaAcceptsUppercaseExtension(t *testing.T) {
	if err := validateMeta("REPORT.TXT", 10); err != nil {
		t.Fatalf("uppercase extension rejected: %v", err)
	}
}

func TestFormatSize(t *testing.T) {
	if got := FormatSize(2048); got != "2 KB" {
		t.Fatalf("unexpected KB format: %q", got)
	}
	if got := FormatSize(3 * 1024 * 1024); !strings.HasSuffix(got, "MB") {
		t.Fatalf("unexpected MB format: %q", got)
	}
}
