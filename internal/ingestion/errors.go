package ingestion

import "fmt"

// UnsupportedFormatError is returned when the document is not a PDF, DOCX or
// plain-text file.
type UnsupportedFormatError struct {
	Format   string
	Detected string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Detected != "" {
		return fmt.Sprintf("unsupported format %q (detected %s): expected pdf, docx or txt", e.Format, e.Detected)
	}
	return fmt.Sprintf("unsupported format %q: expected pdf, docx or txt", e.Format)
}

// ExtractionError is returned when a supported document is corrupt or
// cannot be converted to text.
type ExtractionError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
