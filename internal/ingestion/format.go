package ingestion

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format is a supported document format.
type Format string

// Supported formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// ParseFormat normalizes a declared format name or MIME type. An empty
// string yields an empty Format, meaning "detect from content".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if i := strings.Index(s, ";"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	switch s {
	case "":
		return "", nil
	case "pdf", mimePDF:
		return FormatPDF, nil
	case "docx", mimeDOCX:
		return FormatDOCX, nil
	case "txt", "text", "plain", mimeText, "text/markdown", "md":
		return FormatTXT, nil
	}
	return "", &UnsupportedFormatError{Format: s}
}

// FormatFromFilename maps a file extension to a Format. Unknown extensions
// yield an empty Format so the content can be sniffed instead.
func FormatFromFilename(name string) Format {
	f, err := ParseFormat(filepath.Ext(name))
	if err != nil {
		return ""
	}
	return f
}

// DetectFormat sniffs the format from the document bytes.
func DetectFormat(data []byte) (Format, error) {
	mime := mimetype.Detect(data)
	switch {
	case mime.Is(mimePDF):
		return FormatPDF, nil
	case mime.Is(mimeDOCX):
		return FormatDOCX, nil
	}
	for m := mime; m != nil; m = m.Parent() {
		if m.Is(mimeText) {
			return FormatTXT, nil
		}
	}
	return "", &UnsupportedFormatError{Detected: mime.String()}
}
