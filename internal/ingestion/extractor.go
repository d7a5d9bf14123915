package ingestion

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultMaxBytes caps the size of a document accepted for extraction.
const DefaultMaxBytes = 10 << 20

// converter turns a document into text. It matches docconv's converters.
type converter func(r io.Reader) (string, map[string]string, error)

// Extractor converts uploaded documents to plain text.
type Extractor struct {
	maxBytes    int64
	validatePDF func(data []byte) error
	convertPDF  converter
	convertDOCX converter
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithMaxBytes overrides DefaultMaxBytes. Values <= 0 are ignored.
func WithMaxBytes(n int64) ExtractorOption {
	return func(e *Extractor) {
		if n > 0 {
			e.maxBytes = n
		}
	}
}

// NewExtractor creates an Extractor backed by pdfcpu and docconv. PDF
// conversion shells out to pdftotext, which must be installed.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		maxBytes:    DefaultMaxBytes,
		validatePDF: validatePDF,
		convertPDF:  docconv.ConvertPDF,
		convertDOCX: docconv.ConvertDocx,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText returns the cleaned text of data. When declared is empty the
// format is sniffed from the content.
func (e *Extractor) ExtractText(ctx context.Context, data []byte, declared Format) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	format := declared
	if format == "" {
		detected, err := DetectFormat(data)
		if err != nil {
			return "", err
		}
		format = detected
	}
	if int64(len(data)) > e.maxBytes {
		return "", &ExtractionError{Format: format, Message: "document exceeds the size limit"}
	}
	if len(data) == 0 {
		return "", &ExtractionError{Format: format, Message: "document is empty"}
	}

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		if verr := e.validatePDF(data); verr != nil {
			return "", &ExtractionError{Format: format, Message: "invalid PDF structure", Cause: verr}
		}
		text, err = e.convert(ctx, format, e.convertPDF, data)
	case FormatDOCX:
		text, err = e.convert(ctx, format, e.convertDOCX, data)
	case FormatTXT:
		text = decodeText(data)
	default:
		return "", &UnsupportedFormatError{Format: string(format)}
	}
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

// convert runs fn in its own goroutine so a cancelled context returns
// promptly even while pdftotext is still running.
func (e *Extractor) convert(ctx context.Context, format Format, fn converter, data []byte) (string, error) {
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: &ExtractionError{Format: format, Message: "converter panicked"}}
			}
		}()
		text, _, err := fn(bytes.NewReader(data))
		if err != nil {
			err = &ExtractionError{Format: format, Message: "failed to convert document", Cause: err}
		}
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}

// validatePDF checks the cross-reference table and object structure in
// relaxed mode, which tolerates the minor defects common in exported CVs.
func validatePDF(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.Validate(bytes.NewReader(data), conf)
}

// decodeText strips a UTF-8 BOM and replaces invalid byte sequences.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}
