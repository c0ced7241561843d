package ingestion

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
	"unicode/utf8"
)

// buildDocx assembles an in-memory DOCX archive around the given document
// body XML.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("Failed to create archive entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("Failed to write archive entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close archive: %v", err)
	}
	return buf.Bytes()
}

// TestSupported tests the case-insensitive extension check used for the batch
// precheck.
func TestSupported(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"resume.pdf", true},
		{"resume.docx", true},
		{"Resume.PDF", true},
		{"Resume.DocX", true},
		{"resume.txt", false},
		{"resume.doc", false},
		{"resume", false},
		{"resume.pdf.exe", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := Supported(tt.filename); got != tt.want {
				t.Errorf("Supported(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

// TestExtractText_UnsupportedType tests that unknown extensions are rejected
// with the sentinel error. Dispatch is case-sensitive: an upper-case suffix
// does not reach a decoder.
func TestExtractText_UnsupportedType(t *testing.T) {
	for _, filename := range []string{"resume.txt", "resume", "resume.PDF", "resume.DOCX"} {
		t.Run(filename, func(t *testing.T) {
			_, err := ExtractText(filename, []byte("content"))
			if !errors.Is(err, ErrUnsupportedFileType) {
				t.Errorf("ExtractText(%q) error = %v, want ErrUnsupportedFileType", filename, err)
			}
		})
	}
}

// TestExtractText_DOCXParagraphs tests that paragraph texts are joined with
// newlines in document order, runs within a paragraph concatenated.
func TestExtractText_DOCXParagraphs(t *testing.T) {
	content := buildDocx(t, `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Senior </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>
    <w:p><w:r><w:t>Python</w:t></w:r><w:r><w:tab/><w:t>AWS</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	got, err := ExtractText("resume.docx", content)
	if err != nil {
		t.Fatalf("ExtractText() failed: %v", err)
	}

	want := "Jane Doe\nSenior Engineer\nPython\tAWS"
	if got != want {
		t.Errorf("ExtractText() = %q, want %q", got, want)
	}
}

// TestExtractText_DOCXEmptyParagraphs tests that empty paragraphs still
// contribute their newline separator.
func TestExtractText_DOCXEmptyParagraphs(t *testing.T) {
	content := buildDocx(t, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First</w:t></w:r></w:p>
    <w:p/>
    <w:p><w:r><w:t>Third</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	got, err := ExtractText("resume.docx", content)
	if err != nil {
		t.Fatalf("ExtractText() failed: %v", err)
	}

	want := "First\n\nThird"
	if got != want {
		t.Errorf("ExtractText() = %q, want %q", got, want)
	}
}

// TestExtractText_InvalidDOCX tests failure on archives that are not DOCX.
func TestExtractText_InvalidDOCX(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{
			name:    "Not a zip archive",
			content: []byte("plain text pretending to be docx"),
		},
		{
			name: "Zip without document body",
			content: func() []byte {
				var buf bytes.Buffer
				zw := zip.NewWriter(&buf)
				w, _ := zw.Create("word/styles.xml")
				w.Write([]byte("<w:styles/>"))
				zw.Close()
				return buf.Bytes()
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExtractText("resume.docx", tt.content); err == nil {
				t.Error("ExtractText() succeeded, want error")
			}
		})
	}
}

// TestExtractText_InvalidPDF tests failure on bytes that are not a PDF.
func TestExtractText_InvalidPDF(t *testing.T) {
	if _, err := ExtractText("resume.pdf", []byte("definitely not a pdf")); err == nil {
		t.Error("ExtractText() succeeded, want error")
	}
}

// TestSanitizeUTF8 tests that invalid byte sequences are stripped while valid
// text passes through unchanged.
func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Valid ASCII",
			input: "Hello, World!",
			want:  "Hello, World!",
		},
		{
			name:  "Valid multi-language text",
			input: "José González - 软件工程师",
			want:  "José González - 软件工程师",
		},
		{
			name:  "Invalid bytes in the middle",
			input: "Start " + string([]byte{0xFF, 0xFE}) + "End",
			want:  "Start End",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeUTF8(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeUTF8(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("sanitizeUTF8() returned invalid UTF-8")
			}
		})
	}
}
