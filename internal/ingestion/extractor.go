// Package ingestion turns uploaded resume files into plain text and provides
// an alternative Gmail-based document source for the scoring pipeline.
package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFileType indicates a filename whose extension this service
// cannot extract text from.
var ErrUnsupportedFileType = errors.New("unsupported file type, only PDF and DOCX are allowed")

// Supported reports whether the filename carries an extension the extractor
// handles, matched case-insensitively. The batch entry point uses this to
// reject a whole request up front before any document is processed.
func Supported(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".pdf") || strings.HasSuffix(lower, ".docx")
}

// ExtractText converts a document's raw bytes into plain text based on the
// filename extension. PDF pages are concatenated in page order; DOCX
// paragraphs are joined with newlines. The result is sanitized to valid
// UTF-8 so it can be embedded in an LLM prompt.
func ExtractText(filename string, content []byte) (string, error) {
	var text string
	var err error

	switch {
	case strings.HasSuffix(filename, ".pdf"):
		text, err = extractPDF(content)
	case strings.HasSuffix(filename, ".docx"):
		text, err = extractDOCX(content)
	default:
		return "", ErrUnsupportedFileType
	}
	if err != nil {
		return "", err
	}

	return sanitizeUTF8(text), nil
}

// extractPDF decodes each page's extractable text and concatenates in page
// order. Extraction quality is bounded by what the PDF exposes as text; no
// OCR fallback is attempted.
func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from PDF page %d: %w", n, err)
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

// extractDOCX reads word/document.xml out of the DOCX archive and joins the
// paragraph texts with newlines, in document order.
func extractDOCX(content []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open DOCX document body: %w", err)
		}
		defer rc.Close()
		return paragraphText(rc)
	}

	return "", errors.New("invalid DOCX: no document body found")
}

// paragraphText walks the WordprocessingML token stream, collecting the text
// runs of each paragraph.
func paragraphText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inRun := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse DOCX document body: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inRun = true
			case "tab":
				current.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inRun {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}

// sanitizeUTF8 replaces invalid byte sequences so the extracted text is
// always valid UTF-8.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}
